package security

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrBadCredentials = errors.New("unknown identity or wrong passphrase")

// CredentialStore mints identities and authenticates them by passphrase.
// This is substrate-side authentication plumbing: the state-machine core
// never sees passphrases, only the identities this store vouches for.
type CredentialStore struct {
	mu     sync.RWMutex
	hashes map[string][]byte
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{hashes: make(map[string][]byte)}
}

// Mint creates a fresh identity bound to the given passphrase.
func (s *CredentialStore) Mint(passphrase string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	identity := uuid.NewString()
	s.mu.Lock()
	s.hashes[identity] = hash
	s.mu.Unlock()
	return identity, nil
}

// Seed binds a passphrase to a pre-agreed identity, such as the
// administrator fixed in configuration.
func (s *CredentialStore) Seed(identity, passphrase string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.hashes[identity] = hash
	s.mu.Unlock()
	return nil
}

// Authenticate verifies a passphrase against a minted identity.
func (s *CredentialStore) Authenticate(identity, passphrase string) error {
	s.mu.RLock()
	hash, ok := s.hashes[identity]
	s.mu.RUnlock()
	if !ok {
		return ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(passphrase)); err != nil {
		return ErrBadCredentials
	}
	return nil
}
