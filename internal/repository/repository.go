package repository

import (
	"context"

	"carshare-backend/internal/domain"
)

// The state repositories are in-memory components of the replicated core.
// They carry no locking of their own: callers serialize every operation
// through the store's critical section, and each operation performs all of
// its checks before its first mutation. None of these methods block, so
// they take no context.

type UserRepository interface {
	// Create fails with ErrDuplicateRegistration if the identity exists.
	Create(user *domain.User) error
	GetByIdentity(identity string) (*domain.User, error)
	Update(user *domain.User) error
}

type CarRepository interface {
	// Create assigns the next car id and stores the record.
	Create(car *domain.Car) error
	GetByID(id int64) (*domain.Car, error)
	Update(car *domain.Car) error
	ListByOwner(owner string) ([]domain.Car, error)
}

// LedgerRepository holds balances, escrows, the commission pool and the
// total minted supply. Transfer and the escrow primitives are privileged:
// only the rental engine invokes them.
type LedgerRepository interface {
	Balance(identity string) uint64
	TotalSupply() uint64
	CommissionPool() uint64

	// Mint credits freshly minted tokens and grows the total supply.
	// Fails with ErrOverflow before any mutation if the supply would wrap.
	Mint(identity string, amount uint64) error

	// Transfer atomically debits from and credits to. Fails with
	// ErrInsufficientBalance; never partially applies.
	Transfer(from, to string, amount uint64) error

	// Reserve moves amount out of renter's spendable balance into an
	// escrow keyed by car id. At most one escrow per car.
	Reserve(renter string, carID int64, amount uint64) error
	// EscrowFor returns the active escrow for a car, or nil.
	EscrowFor(carID int64) *domain.Escrow
	// Release returns the full escrow to the renter and removes it.
	Release(carID int64) error
	// Settle splits the escrow into the owner's share and the commission
	// pool fee. ownerShare+fee must equal the reserved amount exactly.
	Settle(carID int64, owner string, ownerShare, fee uint64) error

	// DrainPool moves the entire commission pool into identity's balance
	// and returns the amount moved.
	DrainPool(identity string) uint64

	// Snapshot captures the full ledger state for archiving.
	Snapshot() *domain.LedgerSnapshot
}

// ArchiveRepository persists committed history to durable storage. It is a
// write-side collaborator only; the core never reads it during execution.
type ArchiveRepository interface {
	RecordOperation(ctx context.Context, rec *domain.OperationRecord) error
	SaveSnapshot(ctx context.Context, snap *domain.LedgerSnapshot) error
	ListOperations(ctx context.Context, carID int64, limit int32) ([]domain.OperationRecord, error)
}
