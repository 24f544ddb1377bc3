package domain

import "errors"

// Error kinds surfaced by the core. Every operation checks its
// preconditions before touching state, so a returned error always means
// zero side effects. Callers match with errors.Is.
var (
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidState          = errors.New("invalid state")
	ErrNotFound              = errors.New("not found")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrDuplicateRegistration = errors.New("duplicate registration")
	ErrOverflow              = errors.New("amount overflow")
)
