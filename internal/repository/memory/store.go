package memory

import (
	"sync"

	"carshare-backend/internal/repository"
)

// Store holds the whole replicated state: users, cars, the token ledger.
// A single mutex reproduces the total order the consensus substrate would
// impose — every state-machine operation, read or write, runs alone inside
// it. The repositories themselves do no locking.
type Store struct {
	mu sync.Mutex

	users  *userRepository
	cars   *carRepository
	ledger *ledgerRepository
}

func NewStore() *Store {
	return &Store{
		users:  newUserRepository(),
		cars:   newCarRepository(),
		ledger: newLedgerRepository(),
	}
}

// Sequencer returns the lock every service serializes its operations
// through. Operations never nest, so the mutex is taken exactly once per
// state transition.
func (s *Store) Sequencer() sync.Locker { return &s.mu }

func (s *Store) Users() repository.UserRepository    { return s.users }
func (s *Store) Cars() repository.CarRepository      { return s.cars }
func (s *Store) Ledger() repository.LedgerRepository { return s.ledger }
