package domain

type CarState string

const (
	CarStateReady   CarState = "READY"
	CarStateRepair  CarState = "REPAIR"
	CarStateRemoved CarState = "REMOVED"
)

type RentalStatus string

const (
	RentalStatusNone      RentalStatus = "NONE"
	RentalStatusListed    RentalStatus = "LISTED"
	RentalStatusRented    RentalStatus = "RENTED"
	RentalStatusCollected RentalStatus = "COLLECTED"
)

// RentalTransitions is the directed graph of legal rentalStatus changes.
// The rental engine consults it before every status write; anything not in
// the graph is rejected as ErrInvalidState.
var RentalTransitions = map[RentalStatus][]RentalStatus{
	RentalStatusNone:      {RentalStatusListed},
	RentalStatusListed:    {RentalStatusNone, RentalStatusRented},
	RentalStatusRented:    {RentalStatusListed, RentalStatusCollected},
	RentalStatusCollected: {RentalStatusListed},
}

// CanTransition reports whether from -> to is a legal rentalStatus change.
func CanTransition(from, to RentalStatus) bool {
	for _, s := range RentalTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type OfferStatus string

const (
	OfferStatusInProcess OfferStatus = "IN_PROCESS"
	OfferStatusAccepted  OfferStatus = "ACCEPTED"
)

// Offer is a renter's bid on a listed car. Offers live inside the car
// record as an ordered sequence; Index is the position at creation time.
type Offer struct {
	Index    int         `json:"index"`
	Renter   string      `json:"renter"`
	Rate     uint64      `json:"rate"`
	Duration uint64      `json:"duration"`
	Status   OfferStatus `json:"status"`
}

type Car struct {
	ID           int64    `json:"id"`
	Owner        string   `json:"owner"`
	Brand        string   `json:"brand"`
	Model        string   `json:"model"`
	VehicleType  string   `json:"vehicle_type"`
	Description  string   `json:"description"`
	Capacity     int32    `json:"capacity"`
	PlateNumber  string   `json:"plate_number"`
	LicenseClass string   `json:"license_class"`
	Location     string   `json:"location"`
	Condition    string   `json:"condition"`
	Insured      bool     `json:"insured"`
	CarState     CarState `json:"car_state"`
	// RentalStatus only ever changes through the rental engine, along
	// RentalTransitions.
	RentalStatus RentalStatus `json:"rental_status"`
	Offers       []Offer      `json:"offers"`
	AddedOn      string       `json:"added_on"`

	// NextOfferIndex is the index assigned to the next offer. Indexes are
	// stable identifiers and are not reused after a rejection removes an
	// offer from the sequence.
	NextOfferIndex int `json:"-"`
}

// OfferAt returns the offer with the given stable index.
func (c *Car) OfferAt(index int) *Offer {
	for i := range c.Offers {
		if c.Offers[i].Index == index {
			return &c.Offers[i]
		}
	}
	return nil
}

// AcceptedOffer returns the single ACCEPTED offer, if any.
func (c *Car) AcceptedOffer() *Offer {
	for i := range c.Offers {
		if c.Offers[i].Status == OfferStatusAccepted {
			return &c.Offers[i]
		}
	}
	return nil
}

// PendingOffer returns the most recent IN_PROCESS offer from renter.
func (c *Car) PendingOffer(renter string) *Offer {
	for i := len(c.Offers) - 1; i >= 0; i-- {
		if c.Offers[i].Renter == renter && c.Offers[i].Status == OfferStatusInProcess {
			return &c.Offers[i]
		}
	}
	return nil
}
