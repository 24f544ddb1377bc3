package domain

type User struct {
	Identity     string `json:"identity"`
	Name         string `json:"name"`
	NationalID   string `json:"national_id"`
	LicenseClass string `json:"license_class"`
	// Location is an opaque coordinate string pushed by the user's
	// frontend; stored verbatim, no semantic validation.
	Location     string `json:"location"`
	ContactEmail string `json:"contact_email,omitempty"`
	RegisteredOn string `json:"registered_on"`
}
