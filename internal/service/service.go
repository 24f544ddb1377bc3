package service

import (
	"context"

	"carshare-backend/internal/domain"
)

// Every operation takes the authenticated caller identity as an explicit
// argument; the services never infer it. All four services serialize their
// operations through the store's single sequencer, so each call observes
// and produces a fully committed state.

type RegisterUserInput struct {
	Name         string
	NationalID   string
	LicenseClass string
	Location     string
	ContactEmail string
}

type UserService interface {
	Register(ctx context.Context, caller string, in RegisterUserInput) (*domain.User, error)
	UpdateLocation(ctx context.Context, caller, identity, location string) error
	GetLocation(ctx context.Context, identity string) (string, error)
	GetUser(ctx context.Context, identity string) (*domain.User, error)
}

type LedgerService interface {
	// Credit converts an external top-up into freshly minted tokens on the
	// caller's balance and returns the minted amount.
	Credit(ctx context.Context, caller string, externalAmount uint64) (uint64, error)
	BalanceOf(ctx context.Context, identity string) (uint64, error)
	// Withdraw moves the whole commission pool to the administrator.
	// Only the administrator identity fixed at initialization may call it.
	Withdraw(ctx context.Context, caller string) (uint64, error)
	// Snapshot captures the committed ledger state for archiving.
	Snapshot(ctx context.Context) (*domain.LedgerSnapshot, error)
}

type AddCarInput struct {
	Brand        string
	Model        string
	VehicleType  string
	Description  string
	Capacity     int32
	PlateNumber  string
	LicenseClass string
	Location     string
	Condition    string
	Insured      bool
}

// EditCarInput carries owner-editable fields; nil means leave unchanged.
type EditCarInput struct {
	Description *string
	Location    *string
	Condition   *string
	Insured     *bool
}

type CarService interface {
	AddCar(ctx context.Context, caller string, in AddCarInput) (*domain.Car, error)
	EditCar(ctx context.Context, caller string, carID int64, in EditCarInput) (*domain.Car, error)
	// RemoveCar is a logical delete: the record stays, carState becomes
	// REMOVED. Requires rentalStatus NONE.
	RemoveCar(ctx context.Context, caller string, carID int64) error
	// UpdateStatus toggles carState between READY and REPAIR.
	UpdateStatus(ctx context.Context, caller string, carID int64, state domain.CarState) error
	// UpdateCarLocation records a coordinate push from the car's GPS
	// device, which authenticates with the owner's identity.
	UpdateCarLocation(ctx context.Context, caller string, carID int64, location string) error
	GetCar(ctx context.Context, carID int64) (*domain.Car, error)
	GetCarLocation(ctx context.Context, carID int64) (string, error)
	CheckRentalStatus(ctx context.Context, carID int64) (domain.RentalStatus, error)
	ListByOwner(ctx context.Context, owner string) ([]domain.Car, error)
}

// ListingInfo is what a browsing renter sees for a listed car.
type ListingInfo struct {
	CarID        int64               `json:"car_id"`
	Location     string              `json:"location"`
	RentalStatus domain.RentalStatus `json:"rental_status"`
	Offers       []domain.Offer      `json:"offers"`
}

// RentalService is the engine orchestrating the offer/acceptance/trip
// lifecycle across the car registry and the token ledger.
type RentalService interface {
	List(ctx context.Context, caller string, carID int64) error
	Delist(ctx context.Context, caller string, carID int64) error
	MakeOffer(ctx context.Context, caller string, carID int64, rate, duration uint64) (*domain.Offer, error)
	AcceptOffer(ctx context.Context, caller string, carID int64, renter string) error
	RejectOffer(ctx context.Context, caller string, carID int64, renter string) error
	CancelOffer(ctx context.Context, caller string, carID int64) error
	StartTrip(ctx context.Context, caller string, carID int64) error
	EndTrip(ctx context.Context, caller string, carID int64) error
	Withdraw(ctx context.Context, caller string) (uint64, error)
	GetCarDetails(ctx context.Context, carID int64) (*domain.Car, error)
	GetOfferDetails(ctx context.Context, carID int64, index int) (*domain.Offer, error)
	GetListingInfo(ctx context.Context, carID int64) (*ListingInfo, error)
}

type EmailService interface {
	SendOfferReceived(ctx context.Context, to, renterName string, carID int64) error
	SendOfferAccepted(ctx context.Context, to string, carID int64, amount uint64) error
	SendOfferRejected(ctx context.Context, to string, carID int64) error
	SendTripCompleted(ctx context.Context, to, role string, carID int64, amount uint64) error
}
