package service

import (
	"context"
	"fmt"
	"math"
	"sync"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/logger"
	"carshare-backend/internal/repository"
)

// rentalService is the engine behind the offer/acceptance/trip lifecycle.
// It is the only component that moves rentalStatus or touches the ledger's
// transfer and escrow primitives; the public car and ledger services never
// expose those paths.
type rentalService struct {
	seq        sync.Locker
	carRepo    repository.CarRepository
	ledgerRepo repository.LedgerRepository
	userRepo   repository.UserRepository
	ledgerSvc  LedgerService
	emailSvc   EmailService
	archive    repository.ArchiveRepository

	// commissionFee is charged once per completed rental, fixed at
	// initialization.
	commissionFee uint64
}

func NewRentalService(
	seq sync.Locker,
	carRepo repository.CarRepository,
	ledgerRepo repository.LedgerRepository,
	userRepo repository.UserRepository,
	ledgerSvc LedgerService,
	emailSvc EmailService,
	archive repository.ArchiveRepository,
	commissionFee uint64,
) RentalService {
	return &rentalService{
		seq:           seq,
		carRepo:       carRepo,
		ledgerRepo:    ledgerRepo,
		userRepo:      userRepo,
		ledgerSvc:     ledgerSvc,
		emailSvc:      emailSvc,
		archive:       archive,
		commissionFee: commissionFee,
	}
}

// escrowAmount computes rate*duration+fee with overflow guards. The same
// figure is reserved at acceptance and split at settlement, so no
// remainder can ever be left behind.
func escrowAmount(rate, duration, fee uint64) (uint64, error) {
	if rate != 0 && duration > math.MaxUint64/rate {
		return 0, fmt.Errorf("offer of rate %d over %d units: %w", rate, duration, domain.ErrOverflow)
	}
	total := rate * duration
	if total > math.MaxUint64-fee {
		return 0, fmt.Errorf("offer total %d plus fee %d: %w", total, fee, domain.ErrOverflow)
	}
	return total + fee, nil
}

// transition moves a car's rentalStatus after re-checking the move against
// the transition graph. Callers hold the sequencer and have already
// validated their specific preconditions; this is the last gate before the
// write.
func (s *rentalService) transition(car *domain.Car, to domain.RentalStatus) error {
	if !domain.CanTransition(car.RentalStatus, to) {
		return fmt.Errorf("rental status %s -> %s: %w", car.RentalStatus, to, domain.ErrInvalidState)
	}
	car.RentalStatus = to
	return s.carRepo.Update(car)
}

func (s *rentalService) List(ctx context.Context, caller string, carID int64) error {
	s.seq.Lock()
	err := s.list(caller, carID)
	s.seq.Unlock()
	if err != nil {
		return err
	}
	s.record(ctx, domain.OpList, caller, &carID, "", 0)
	return nil
}

func (s *rentalService) list(caller string, carID int64) error {
	car, err := s.ownedCar(caller, carID)
	if err != nil {
		return err
	}
	if car.CarState != domain.CarStateReady {
		return fmt.Errorf("car %d is %s, not READY: %w", carID, car.CarState, domain.ErrInvalidState)
	}
	if car.RentalStatus != domain.RentalStatusNone {
		return fmt.Errorf("car %d is already %s: %w", carID, car.RentalStatus, domain.ErrInvalidState)
	}
	return s.transition(car, domain.RentalStatusListed)
}

func (s *rentalService) Delist(ctx context.Context, caller string, carID int64) error {
	s.seq.Lock()
	err := s.delist(caller, carID)
	s.seq.Unlock()
	if err != nil {
		return err
	}
	s.record(ctx, domain.OpDelist, caller, &carID, "", 0)
	return nil
}

func (s *rentalService) delist(caller string, carID int64) error {
	car, err := s.ownedCar(caller, carID)
	if err != nil {
		return err
	}
	if car.RentalStatus != domain.RentalStatusListed {
		return fmt.Errorf("car %d is %s, not LISTED: %w", carID, car.RentalStatus, domain.ErrInvalidState)
	}
	// Delisting cascade-rejects every outstanding offer; nothing is
	// escrowed yet for IN_PROCESS offers, so no ledger movement happens.
	car.Offers = nil
	return s.transition(car, domain.RentalStatusNone)
}

func (s *rentalService) MakeOffer(ctx context.Context, caller string, carID int64, rate, duration uint64) (*domain.Offer, error) {
	// Solvency is deliberately not checked here; the renter's balance is
	// only consulted when the owner accepts.
	s.seq.Lock()
	offer, ownerEmail, renterName, err := s.makeOffer(caller, carID, rate, duration)
	s.seq.Unlock()
	if err != nil {
		return nil, err
	}

	s.record(ctx, domain.OpMakeOffer, caller, &carID, "", rate*duration)
	if ownerEmail != "" {
		_ = s.emailSvc.SendOfferReceived(ctx, ownerEmail, renterName, carID)
	}
	return offer, nil
}

func (s *rentalService) makeOffer(caller string, carID int64, rate, duration uint64) (*domain.Offer, string, string, error) {
	car, err := s.carRepo.GetByID(carID)
	if err != nil {
		return nil, "", "", err
	}
	if car.Owner == caller {
		return nil, "", "", fmt.Errorf("owner cannot bid on own car %d: %w", carID, domain.ErrUnauthorized)
	}
	if car.RentalStatus != domain.RentalStatusListed {
		return nil, "", "", fmt.Errorf("car %d is %s, not LISTED: %w", carID, car.RentalStatus, domain.ErrInvalidState)
	}
	if _, err := escrowAmount(rate, duration, s.commissionFee); err != nil {
		return nil, "", "", err
	}

	offer := domain.Offer{
		Index:    car.NextOfferIndex,
		Renter:   caller,
		Rate:     rate,
		Duration: duration,
		Status:   domain.OfferStatusInProcess,
	}
	car.NextOfferIndex++
	car.Offers = append(car.Offers, offer)
	if err := s.carRepo.Update(car); err != nil {
		return nil, "", "", err
	}

	ownerEmail, renterName := s.contactEmail(car.Owner), caller
	if renter, err := s.userRepo.GetByIdentity(caller); err == nil && renter.Name != "" {
		renterName = renter.Name
	}
	return &offer, ownerEmail, renterName, nil
}

func (s *rentalService) AcceptOffer(ctx context.Context, caller string, carID int64, renter string) error {
	s.seq.Lock()
	amount, renterEmail, err := s.acceptOffer(caller, carID, renter)
	s.seq.Unlock()
	if err != nil {
		return err
	}

	s.record(ctx, domain.OpAcceptOffer, caller, &carID, renter, amount)
	if renterEmail != "" {
		_ = s.emailSvc.SendOfferAccepted(ctx, renterEmail, carID, amount)
	}
	return nil
}

func (s *rentalService) acceptOffer(caller string, carID int64, renter string) (uint64, string, error) {
	car, err := s.ownedCar(caller, carID)
	if err != nil {
		return 0, "", err
	}
	if car.RentalStatus != domain.RentalStatusListed {
		return 0, "", fmt.Errorf("car %d is %s, not LISTED: %w", carID, car.RentalStatus, domain.ErrInvalidState)
	}
	offer := car.PendingOffer(renter)
	if offer == nil {
		return 0, "", fmt.Errorf("no pending offer from %s on car %d: %w", renter, carID, domain.ErrNotFound)
	}

	amount, err := escrowAmount(offer.Rate, offer.Duration, s.commissionFee)
	if err != nil {
		return 0, "", err
	}
	// Reserve first: an insolvent renter aborts the call before the car
	// record is touched.
	if err := s.ledgerRepo.Reserve(renter, carID, amount); err != nil {
		return 0, "", err
	}

	offer.Status = domain.OfferStatusAccepted
	if err := s.transition(car, domain.RentalStatusRented); err != nil {
		return 0, "", err
	}
	return amount, s.contactEmail(renter), nil
}

func (s *rentalService) RejectOffer(ctx context.Context, caller string, carID int64, renter string) error {
	s.seq.Lock()
	renterEmail, err := s.rejectOffer(caller, carID, renter)
	s.seq.Unlock()
	if err != nil {
		return err
	}

	s.record(ctx, domain.OpRejectOffer, caller, &carID, renter, 0)
	if renterEmail != "" {
		_ = s.emailSvc.SendOfferRejected(ctx, renterEmail, carID)
	}
	return nil
}

func (s *rentalService) rejectOffer(caller string, carID int64, renter string) (string, error) {
	car, err := s.ownedCar(caller, carID)
	if err != nil {
		return "", err
	}
	offer := car.PendingOffer(renter)
	if offer == nil {
		return "", fmt.Errorf("no pending offer from %s on car %d: %w", renter, carID, domain.ErrNotFound)
	}
	s.removeOffer(car, offer.Index)
	if err := s.carRepo.Update(car); err != nil {
		return "", err
	}
	return s.contactEmail(renter), nil
}

func (s *rentalService) CancelOffer(ctx context.Context, caller string, carID int64) error {
	s.seq.Lock()
	amount, err := s.cancelOffer(caller, carID)
	s.seq.Unlock()
	if err != nil {
		return err
	}
	s.record(ctx, domain.OpCancelOffer, caller, &carID, "", amount)
	return nil
}

func (s *rentalService) cancelOffer(caller string, carID int64) (uint64, error) {
	car, err := s.carRepo.GetByID(carID)
	if err != nil {
		return 0, err
	}
	if car.RentalStatus != domain.RentalStatusRented {
		return 0, fmt.Errorf("car %d is %s, not RENTED: %w", carID, car.RentalStatus, domain.ErrInvalidState)
	}
	accepted := car.AcceptedOffer()
	if accepted == nil || accepted.Renter != caller {
		return 0, fmt.Errorf("car %d has no accepted offer from %s: %w", carID, caller, domain.ErrUnauthorized)
	}

	escrow := s.ledgerRepo.EscrowFor(carID)
	if escrow == nil {
		return 0, fmt.Errorf("escrow for car %d: %w", carID, domain.ErrNotFound)
	}
	if err := s.ledgerRepo.Release(carID); err != nil {
		return 0, err
	}
	s.removeOffer(car, accepted.Index)
	if err := s.transition(car, domain.RentalStatusListed); err != nil {
		return 0, err
	}
	return escrow.Amount, nil
}

func (s *rentalService) StartTrip(ctx context.Context, caller string, carID int64) error {
	s.seq.Lock()
	err := s.startTrip(caller, carID)
	s.seq.Unlock()
	if err != nil {
		return err
	}
	s.record(ctx, domain.OpStartTrip, caller, &carID, "", 0)
	return nil
}

func (s *rentalService) startTrip(caller string, carID int64) error {
	car, err := s.carRepo.GetByID(carID)
	if err != nil {
		return err
	}
	if car.RentalStatus != domain.RentalStatusRented {
		return fmt.Errorf("car %d is %s, not RENTED: %w", carID, car.RentalStatus, domain.ErrInvalidState)
	}
	accepted := car.AcceptedOffer()
	if accepted == nil || accepted.Renter != caller {
		return fmt.Errorf("car %d is not rented to %s: %w", carID, caller, domain.ErrUnauthorized)
	}
	return s.transition(car, domain.RentalStatusCollected)
}

func (s *rentalService) EndTrip(ctx context.Context, caller string, carID int64) error {
	s.seq.Lock()
	ownerShare, renterEmail, ownerEmail, err := s.endTrip(caller, carID)
	s.seq.Unlock()
	if err != nil {
		return err
	}

	s.record(ctx, domain.OpEndTrip, caller, &carID, "", ownerShare+s.commissionFee)
	if ownerEmail != "" {
		_ = s.emailSvc.SendTripCompleted(ctx, ownerEmail, "owner", carID, ownerShare)
	}
	if renterEmail != "" {
		_ = s.emailSvc.SendTripCompleted(ctx, renterEmail, "renter", carID, ownerShare+s.commissionFee)
	}
	return nil
}

func (s *rentalService) endTrip(caller string, carID int64) (uint64, string, string, error) {
	car, err := s.ownedCar(caller, carID)
	if err != nil {
		return 0, "", "", err
	}
	if car.RentalStatus != domain.RentalStatusCollected {
		return 0, "", "", fmt.Errorf("car %d is %s, not COLLECTED: %w", carID, car.RentalStatus, domain.ErrInvalidState)
	}
	accepted := car.AcceptedOffer()
	if accepted == nil {
		return 0, "", "", fmt.Errorf("accepted offer on car %d: %w", carID, domain.ErrNotFound)
	}

	// The escrow was reserved as rate*duration+fee, so this split always
	// balances to zero remainder.
	ownerShare := accepted.Rate * accepted.Duration
	if err := s.ledgerRepo.Settle(carID, car.Owner, ownerShare, s.commissionFee); err != nil {
		return 0, "", "", err
	}
	renter := accepted.Renter
	s.removeOffer(car, accepted.Index)
	if err := s.transition(car, domain.RentalStatusListed); err != nil {
		return 0, "", "", err
	}
	return ownerShare, s.contactEmail(renter), s.contactEmail(car.Owner), nil
}

func (s *rentalService) Withdraw(ctx context.Context, caller string) (uint64, error) {
	return s.ledgerSvc.Withdraw(ctx, caller)
}

func (s *rentalService) GetCarDetails(ctx context.Context, carID int64) (*domain.Car, error) {
	s.seq.Lock()
	defer s.seq.Unlock()
	return s.carRepo.GetByID(carID)
}

func (s *rentalService) GetOfferDetails(ctx context.Context, carID int64, index int) (*domain.Offer, error) {
	s.seq.Lock()
	defer s.seq.Unlock()
	car, err := s.carRepo.GetByID(carID)
	if err != nil {
		return nil, err
	}
	offer := car.OfferAt(index)
	if offer == nil {
		return nil, fmt.Errorf("offer %d on car %d: %w", index, carID, domain.ErrNotFound)
	}
	copied := *offer
	return &copied, nil
}

func (s *rentalService) GetListingInfo(ctx context.Context, carID int64) (*ListingInfo, error) {
	s.seq.Lock()
	defer s.seq.Unlock()
	car, err := s.carRepo.GetByID(carID)
	if err != nil {
		return nil, err
	}
	return &ListingInfo{
		CarID:        car.ID,
		Location:     car.Location,
		RentalStatus: car.RentalStatus,
		Offers:       car.Offers,
	}, nil
}

func (s *rentalService) ownedCar(caller string, carID int64) (*domain.Car, error) {
	car, err := s.carRepo.GetByID(carID)
	if err != nil {
		return nil, err
	}
	if car.Owner != caller {
		return nil, fmt.Errorf("car %d belongs to %s: %w", carID, car.Owner, domain.ErrUnauthorized)
	}
	return car, nil
}

func (s *rentalService) removeOffer(car *domain.Car, index int) {
	for i := range car.Offers {
		if car.Offers[i].Index == index {
			car.Offers = append(car.Offers[:i], car.Offers[i+1:]...)
			return
		}
	}
}

// contactEmail looks up an identity's notification address; empty when the
// identity is unregistered or opted out. Callers hold the sequencer.
func (s *rentalService) contactEmail(identity string) string {
	user, err := s.userRepo.GetByIdentity(identity)
	if err != nil {
		return ""
	}
	return user.ContactEmail
}

func (s *rentalService) record(ctx context.Context, kind domain.OperationKind, caller string, carID *int64, subject string, amount uint64) {
	err := s.archive.RecordOperation(ctx, &domain.OperationRecord{
		Kind:    kind,
		Caller:  caller,
		CarID:   carID,
		Subject: subject,
		Amount:  amount,
	})
	if err != nil {
		logger.Warn("Failed to archive operation", "kind", kind, "error", err)
	}
}
