package service

import (
	"context"
	"fmt"
	"math"
	"sync"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/repository"
)

type ledgerService struct {
	seq        sync.Locker
	ledgerRepo repository.LedgerRepository
	archive    repository.ArchiveRepository

	// nativeUnitsPerToken is the fixed conversion rate R: one token is
	// minted per this many external native units. The observed deployment
	// uses 1e13, so a 1e18 top-up mints 100000 tokens.
	nativeUnitsPerToken uint64
	administrator       string
}

func NewLedgerService(seq sync.Locker, ledgerRepo repository.LedgerRepository, archive repository.ArchiveRepository, nativeUnitsPerToken uint64, administrator string) LedgerService {
	return &ledgerService{
		seq:                 seq,
		ledgerRepo:          ledgerRepo,
		archive:             archive,
		nativeUnitsPerToken: nativeUnitsPerToken,
		administrator:       administrator,
	}
}

func (s *ledgerService) Credit(ctx context.Context, caller string, externalAmount uint64) (uint64, error) {
	tokens := externalAmount / s.nativeUnitsPerToken
	if tokens > math.MaxUint64/2 {
		// Guard long before the supply could wrap on repeated top-ups.
		return 0, fmt.Errorf("top-up of %d native units: %w", externalAmount, domain.ErrOverflow)
	}

	s.seq.Lock()
	err := s.ledgerRepo.Mint(caller, tokens)
	s.seq.Unlock()
	if err != nil {
		return 0, err
	}

	_ = s.archive.RecordOperation(ctx, &domain.OperationRecord{
		Kind:   domain.OpCredit,
		Caller: caller,
		Amount: tokens,
	})
	return tokens, nil
}

func (s *ledgerService) BalanceOf(ctx context.Context, identity string) (uint64, error) {
	s.seq.Lock()
	defer s.seq.Unlock()
	return s.ledgerRepo.Balance(identity), nil
}

func (s *ledgerService) Withdraw(ctx context.Context, caller string) (uint64, error) {
	if caller != s.administrator {
		return 0, fmt.Errorf("commission pool withdrawal by %s: %w", caller, domain.ErrUnauthorized)
	}

	s.seq.Lock()
	amount := s.ledgerRepo.DrainPool(caller)
	s.seq.Unlock()

	_ = s.archive.RecordOperation(ctx, &domain.OperationRecord{
		Kind:   domain.OpWithdraw,
		Caller: caller,
		Amount: amount,
	})
	return amount, nil
}

func (s *ledgerService) Snapshot(ctx context.Context) (*domain.LedgerSnapshot, error) {
	s.seq.Lock()
	defer s.seq.Unlock()
	return s.ledgerRepo.Snapshot(), nil
}
