package memory

import (
	"fmt"
	"math"
	"sort"
	"time"

	"carshare-backend/internal/domain"
)

// ledgerRepository keeps spendable balances, per-car escrows, the
// commission pool and the minted supply. Every mutating method validates
// fully before writing, so a failed call leaves the ledger untouched and
// sum(balances) + sum(escrows) + pool == totalSupply holds at every commit.
type ledgerRepository struct {
	balances map[string]uint64
	escrows  map[int64]*domain.Escrow
	pool     uint64
	supply   uint64
}

func newLedgerRepository() *ledgerRepository {
	return &ledgerRepository{
		balances: make(map[string]uint64),
		escrows:  make(map[int64]*domain.Escrow),
	}
}

func (r *ledgerRepository) Balance(identity string) uint64 { return r.balances[identity] }
func (r *ledgerRepository) TotalSupply() uint64            { return r.supply }
func (r *ledgerRepository) CommissionPool() uint64         { return r.pool }

func (r *ledgerRepository) Mint(identity string, amount uint64) error {
	if amount > math.MaxUint64-r.supply {
		return fmt.Errorf("mint %d to %s: %w", amount, identity, domain.ErrOverflow)
	}
	r.balances[identity] += amount
	r.supply += amount
	return nil
}

func (r *ledgerRepository) Transfer(from, to string, amount uint64) error {
	if r.balances[from] < amount {
		return fmt.Errorf("transfer %d from %s: %w", amount, from, domain.ErrInsufficientBalance)
	}
	r.balances[from] -= amount
	r.balances[to] += amount
	return nil
}

func (r *ledgerRepository) Reserve(renter string, carID int64, amount uint64) error {
	if _, ok := r.escrows[carID]; ok {
		return fmt.Errorf("car %d already has an escrow: %w", carID, domain.ErrInvalidState)
	}
	if r.balances[renter] < amount {
		return fmt.Errorf("reserve %d from %s: %w", amount, renter, domain.ErrInsufficientBalance)
	}
	r.balances[renter] -= amount
	r.escrows[carID] = &domain.Escrow{CarID: carID, Renter: renter, Amount: amount}
	return nil
}

func (r *ledgerRepository) EscrowFor(carID int64) *domain.Escrow {
	e, ok := r.escrows[carID]
	if !ok {
		return nil
	}
	copied := *e
	return &copied
}

func (r *ledgerRepository) Release(carID int64) error {
	e, ok := r.escrows[carID]
	if !ok {
		return fmt.Errorf("escrow for car %d: %w", carID, domain.ErrNotFound)
	}
	r.balances[e.Renter] += e.Amount
	delete(r.escrows, carID)
	return nil
}

func (r *ledgerRepository) Settle(carID int64, owner string, ownerShare, fee uint64) error {
	e, ok := r.escrows[carID]
	if !ok {
		return fmt.Errorf("escrow for car %d: %w", carID, domain.ErrNotFound)
	}
	if ownerShare+fee != e.Amount {
		return fmt.Errorf("settle car %d: split %d+%d != reserved %d: %w",
			carID, ownerShare, fee, e.Amount, domain.ErrInvalidState)
	}
	r.balances[owner] += ownerShare
	r.pool += fee
	delete(r.escrows, carID)
	return nil
}

func (r *ledgerRepository) DrainPool(identity string) uint64 {
	amount := r.pool
	r.balances[identity] += amount
	r.pool = 0
	return amount
}

func (r *ledgerRepository) Snapshot() *domain.LedgerSnapshot {
	snap := &domain.LedgerSnapshot{
		CommissionPool: r.pool,
		TotalSupply:    r.supply,
		TakenOn:        time.Now().UTC().Format(time.RFC3339),
	}
	for identity, bal := range r.balances {
		snap.Entries = append(snap.Entries, domain.BalanceEntry{Identity: identity, Balance: bal})
	}
	sort.Slice(snap.Entries, func(i, j int) bool { return snap.Entries[i].Identity < snap.Entries[j].Identity })
	for _, e := range r.escrows {
		snap.Escrows = append(snap.Escrows, *e)
	}
	sort.Slice(snap.Escrows, func(i, j int) bool { return snap.Escrows[i].CarID < snap.Escrows[j].CarID })
	return snap
}
