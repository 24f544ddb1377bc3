package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/repository"
)

type userService struct {
	seq      sync.Locker
	userRepo repository.UserRepository
	archive  repository.ArchiveRepository
}

func NewUserService(seq sync.Locker, userRepo repository.UserRepository, archive repository.ArchiveRepository) UserService {
	return &userService{seq: seq, userRepo: userRepo, archive: archive}
}

func (s *userService) Register(ctx context.Context, caller string, in RegisterUserInput) (*domain.User, error) {
	user := &domain.User{
		Identity:     caller,
		Name:         in.Name,
		NationalID:   in.NationalID,
		LicenseClass: in.LicenseClass,
		Location:     in.Location,
		ContactEmail: in.ContactEmail,
		RegisteredOn: time.Now().UTC().Format("2006-01-02"),
	}

	s.seq.Lock()
	err := s.userRepo.Create(user)
	s.seq.Unlock()
	if err != nil {
		return nil, err
	}

	s.record(ctx, &domain.OperationRecord{Kind: domain.OpRegisterUser, Caller: caller})
	return user, nil
}

func (s *userService) UpdateLocation(ctx context.Context, caller, identity, location string) error {
	if caller != identity {
		return fmt.Errorf("location of %s is not writable by %s: %w", identity, caller, domain.ErrUnauthorized)
	}

	s.seq.Lock()
	err := s.updateLocation(identity, location)
	s.seq.Unlock()
	if err != nil {
		return err
	}

	s.record(ctx, &domain.OperationRecord{Kind: domain.OpUpdateLocation, Caller: caller})
	return nil
}

func (s *userService) updateLocation(identity, location string) error {
	user, err := s.userRepo.GetByIdentity(identity)
	if err != nil {
		return err
	}
	user.Location = location
	return s.userRepo.Update(user)
}

func (s *userService) GetLocation(ctx context.Context, identity string) (string, error) {
	s.seq.Lock()
	defer s.seq.Unlock()
	user, err := s.userRepo.GetByIdentity(identity)
	if err != nil {
		return "", err
	}
	return user.Location, nil
}

func (s *userService) GetUser(ctx context.Context, identity string) (*domain.User, error) {
	s.seq.Lock()
	defer s.seq.Unlock()
	return s.userRepo.GetByIdentity(identity)
}

func (s *userService) record(ctx context.Context, rec *domain.OperationRecord) {
	// Archiving is best-effort durability outside the committed state.
	_ = s.archive.RecordOperation(ctx, rec)
}
