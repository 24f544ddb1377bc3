package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carshare-backend/internal/domain"
)

func TestUserRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.Register(ctx, "alice", RegisterUserInput{
		Name:         "Alice",
		NationalID:   "N-123",
		LicenseClass: "B",
		Location:     "harbor district",
		ContactEmail: "alice@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Identity)
	assert.NotEmpty(t, user.RegisteredOn)

	t.Run("Duplicate registration is rejected", func(t *testing.T) {
		_, err := f.users.Register(ctx, "alice", RegisterUserInput{Name: "Alice Again"})
		assert.ErrorIs(t, err, domain.ErrDuplicateRegistration)

		stored, err := f.users.GetUser(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "Alice", stored.Name, "first registration wins")
	})
}

func TestUserUpdateLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerUser(t, "alice", "Alice", "alice@example.com")

	t.Run("Users only move themselves", func(t *testing.T) {
		err := f.users.UpdateLocation(ctx, "bob", "alice", "elsewhere")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Unregistered identity", func(t *testing.T) {
		err := f.users.UpdateLocation(ctx, "ghost", "ghost", "nowhere")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Location round-trips", func(t *testing.T) {
		require.NoError(t, f.users.UpdateLocation(ctx, "alice", "alice", "airport"))
		loc, err := f.users.GetLocation(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "airport", loc)
	})
}
