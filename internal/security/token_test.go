package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret-0123456789abcdef0123456789", time.Hour)

	token, err := tm.Generate("identity-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "identity-1", claims.Identity)
	assert.Equal(t, "carshare-identity", claims.Issuer)
}

func TestTokenExpiry(t *testing.T) {
	tm := NewTokenManager("test-secret-0123456789abcdef0123456789", -time.Minute)

	token, err := tm.Generate("identity-1")
	require.NoError(t, err)

	_, err = tm.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret-0123456789abcdef0123456789", time.Hour)
	other := NewTokenManager("other-secret-0123456789abcdef012345678", time.Hour)

	token, err := tm.Generate("identity-1")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret-0123456789abcdef0123456789", time.Hour)
	_, err := tm.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCredentialStore(t *testing.T) {
	store := NewCredentialStore()

	identity, err := store.Mint("hunter2hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, identity)

	t.Run("Right passphrase authenticates", func(t *testing.T) {
		assert.NoError(t, store.Authenticate(identity, "hunter2hunter2"))
	})

	t.Run("Wrong passphrase fails", func(t *testing.T) {
		assert.ErrorIs(t, store.Authenticate(identity, "wrong"), ErrBadCredentials)
	})

	t.Run("Unknown identity fails", func(t *testing.T) {
		assert.ErrorIs(t, store.Authenticate("nobody", "hunter2hunter2"), ErrBadCredentials)
	})

	t.Run("Seeded identity authenticates", func(t *testing.T) {
		require.NoError(t, store.Seed("admin-1", "root-passphrase"))
		assert.NoError(t, store.Authenticate("admin-1", "root-passphrase"))
	})

	t.Run("Minted identities are unique", func(t *testing.T) {
		second, err := store.Mint("hunter2hunter2")
		require.NoError(t, err)
		assert.NotEqual(t, identity, second)
	})
}
