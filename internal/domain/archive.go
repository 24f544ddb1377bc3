package domain

type OperationKind string

const (
	OpRegisterUser   OperationKind = "REGISTER_USER"
	OpUpdateLocation OperationKind = "UPDATE_LOCATION"
	OpCredit         OperationKind = "CREDIT"
	OpWithdraw       OperationKind = "WITHDRAW"
	OpAddCar         OperationKind = "ADD_CAR"
	OpEditCar        OperationKind = "EDIT_CAR"
	OpRemoveCar      OperationKind = "REMOVE_CAR"
	OpUpdateStatus   OperationKind = "UPDATE_STATUS"
	OpList           OperationKind = "LIST"
	OpDelist         OperationKind = "DELIST"
	OpMakeOffer      OperationKind = "MAKE_OFFER"
	OpAcceptOffer    OperationKind = "ACCEPT_OFFER"
	OpRejectOffer    OperationKind = "REJECT_OFFER"
	OpCancelOffer    OperationKind = "CANCEL_OFFER"
	OpStartTrip      OperationKind = "START_TRIP"
	OpEndTrip        OperationKind = "END_TRIP"
)

// OperationRecord is an archive row describing one committed state
// transition. Records are written after commit, outside the critical
// section; the core never reads them back.
type OperationRecord struct {
	ID        int64         `json:"id"`
	Kind      OperationKind `json:"kind"`
	Caller    string        `json:"caller"`
	CarID     *int64        `json:"car_id,omitempty"`
	Subject   string        `json:"subject,omitempty"`
	Amount    uint64        `json:"amount"`
	AppliedOn string        `json:"applied_on"`
}
