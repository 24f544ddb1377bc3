package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/repository"
)

type carService struct {
	seq     sync.Locker
	carRepo repository.CarRepository
	archive repository.ArchiveRepository
}

func NewCarService(seq sync.Locker, carRepo repository.CarRepository, archive repository.ArchiveRepository) CarService {
	return &carService{seq: seq, carRepo: carRepo, archive: archive}
}

func (s *carService) AddCar(ctx context.Context, caller string, in AddCarInput) (*domain.Car, error) {
	car := &domain.Car{
		Owner:        caller,
		Brand:        in.Brand,
		Model:        in.Model,
		VehicleType:  in.VehicleType,
		Description:  in.Description,
		Capacity:     in.Capacity,
		PlateNumber:  in.PlateNumber,
		LicenseClass: in.LicenseClass,
		Location:     in.Location,
		Condition:    in.Condition,
		Insured:      in.Insured,
		CarState:     domain.CarStateReady,
		RentalStatus: domain.RentalStatusNone,
		AddedOn:      time.Now().UTC().Format("2006-01-02"),
	}

	s.seq.Lock()
	err := s.carRepo.Create(car)
	s.seq.Unlock()
	if err != nil {
		return nil, err
	}

	_ = s.archive.RecordOperation(ctx, &domain.OperationRecord{
		Kind: domain.OpAddCar, Caller: caller, CarID: &car.ID,
	})
	return car, nil
}

// ownedCar loads a car and enforces the owner-only rule shared by every
// car mutation. Callers hold the sequencer.
func (s *carService) ownedCar(caller string, carID int64) (*domain.Car, error) {
	car, err := s.carRepo.GetByID(carID)
	if err != nil {
		return nil, err
	}
	if car.Owner != caller {
		return nil, fmt.Errorf("car %d belongs to %s: %w", carID, car.Owner, domain.ErrUnauthorized)
	}
	return car, nil
}

func (s *carService) EditCar(ctx context.Context, caller string, carID int64, in EditCarInput) (*domain.Car, error) {
	s.seq.Lock()
	car, err := s.editCar(caller, carID, in)
	s.seq.Unlock()
	if err != nil {
		return nil, err
	}

	_ = s.archive.RecordOperation(ctx, &domain.OperationRecord{
		Kind: domain.OpEditCar, Caller: caller, CarID: &carID,
	})
	return car, nil
}

func (s *carService) editCar(caller string, carID int64, in EditCarInput) (*domain.Car, error) {
	car, err := s.ownedCar(caller, carID)
	if err != nil {
		return nil, err
	}
	if car.CarState == domain.CarStateRemoved {
		return nil, fmt.Errorf("car %d is removed: %w", carID, domain.ErrInvalidState)
	}
	if in.Description != nil {
		car.Description = *in.Description
	}
	if in.Location != nil {
		car.Location = *in.Location
	}
	if in.Condition != nil {
		car.Condition = *in.Condition
	}
	if in.Insured != nil {
		car.Insured = *in.Insured
	}
	if err := s.carRepo.Update(car); err != nil {
		return nil, err
	}
	return car, nil
}

func (s *carService) RemoveCar(ctx context.Context, caller string, carID int64) error {
	s.seq.Lock()
	err := s.removeCar(caller, carID)
	s.seq.Unlock()
	if err != nil {
		return err
	}

	_ = s.archive.RecordOperation(ctx, &domain.OperationRecord{
		Kind: domain.OpRemoveCar, Caller: caller, CarID: &carID,
	})
	return nil
}

func (s *carService) removeCar(caller string, carID int64) error {
	car, err := s.ownedCar(caller, carID)
	if err != nil {
		return err
	}
	if car.CarState == domain.CarStateRemoved {
		return fmt.Errorf("car %d already removed: %w", carID, domain.ErrInvalidState)
	}
	if car.RentalStatus != domain.RentalStatusNone {
		return fmt.Errorf("car %d has rental status %s: %w", carID, car.RentalStatus, domain.ErrInvalidState)
	}
	car.CarState = domain.CarStateRemoved
	return s.carRepo.Update(car)
}

func (s *carService) UpdateStatus(ctx context.Context, caller string, carID int64, state domain.CarState) error {
	if state != domain.CarStateReady && state != domain.CarStateRepair {
		return fmt.Errorf("car state %q is not owner-settable: %w", state, domain.ErrInvalidState)
	}

	s.seq.Lock()
	err := s.updateStatus(caller, carID, state)
	s.seq.Unlock()
	if err != nil {
		return err
	}

	_ = s.archive.RecordOperation(ctx, &domain.OperationRecord{
		Kind: domain.OpUpdateStatus, Caller: caller, CarID: &carID, Subject: string(state),
	})
	return nil
}

func (s *carService) updateStatus(caller string, carID int64, state domain.CarState) error {
	car, err := s.ownedCar(caller, carID)
	if err != nil {
		return err
	}
	if car.CarState == domain.CarStateRemoved {
		return fmt.Errorf("car %d is removed: %w", carID, domain.ErrInvalidState)
	}
	car.CarState = state
	return s.carRepo.Update(car)
}

func (s *carService) UpdateCarLocation(ctx context.Context, caller string, carID int64, location string) error {
	s.seq.Lock()
	err := s.updateCarLocation(caller, carID, location)
	s.seq.Unlock()
	if err != nil {
		return err
	}

	_ = s.archive.RecordOperation(ctx, &domain.OperationRecord{
		Kind: domain.OpEditCar, Caller: caller, CarID: &carID, Subject: "location",
	})
	return nil
}

func (s *carService) updateCarLocation(caller string, carID int64, location string) error {
	car, err := s.ownedCar(caller, carID)
	if err != nil {
		return err
	}
	if car.CarState == domain.CarStateRemoved {
		return fmt.Errorf("car %d is removed: %w", carID, domain.ErrInvalidState)
	}
	car.Location = location
	return s.carRepo.Update(car)
}

func (s *carService) GetCar(ctx context.Context, carID int64) (*domain.Car, error) {
	s.seq.Lock()
	defer s.seq.Unlock()
	return s.carRepo.GetByID(carID)
}

func (s *carService) GetCarLocation(ctx context.Context, carID int64) (string, error) {
	s.seq.Lock()
	defer s.seq.Unlock()
	car, err := s.carRepo.GetByID(carID)
	if err != nil {
		return "", err
	}
	return car.Location, nil
}

func (s *carService) CheckRentalStatus(ctx context.Context, carID int64) (domain.RentalStatus, error) {
	s.seq.Lock()
	defer s.seq.Unlock()
	car, err := s.carRepo.GetByID(carID)
	if err != nil {
		return "", err
	}
	return car.RentalStatus, nil
}

func (s *carService) ListByOwner(ctx context.Context, owner string) ([]domain.Car, error) {
	s.seq.Lock()
	defer s.seq.Unlock()
	return s.carRepo.ListByOwner(owner)
}
