package memory

import (
	"fmt"

	"carshare-backend/internal/domain"
)

type userRepository struct {
	users map[string]*domain.User
}

func newUserRepository() *userRepository {
	return &userRepository{users: make(map[string]*domain.User)}
}

func (r *userRepository) Create(user *domain.User) error {
	if _, ok := r.users[user.Identity]; ok {
		return fmt.Errorf("user %s: %w", user.Identity, domain.ErrDuplicateRegistration)
	}
	stored := *user
	r.users[user.Identity] = &stored
	return nil
}

func (r *userRepository) GetByIdentity(identity string) (*domain.User, error) {
	u, ok := r.users[identity]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", identity, domain.ErrNotFound)
	}
	copied := *u
	return &copied, nil
}

func (r *userRepository) Update(user *domain.User) error {
	if _, ok := r.users[user.Identity]; !ok {
		return fmt.Errorf("user %s: %w", user.Identity, domain.ErrNotFound)
	}
	stored := *user
	r.users[user.Identity] = &stored
	return nil
}
