package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
)

func seed(t *testing.T, r *UserRepository, username, email string) *entity.User {
	t.Helper()
	u := &entity.User{Username: username, Email: email, FullName: "N", Password: "hash"}
	require.NoError(t, r.Create(context.Background(), u))
	return u
}

func TestCreate_Uniqueness(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	u := seed(t, r, "alice", "alice@x.com")
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	var de repository.DuplicateError
	err := r.Create(ctx, &entity.User{Username: "alice", Email: "other@x.com"})
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "username", de.Field)

	err = r.Create(ctx, &entity.User{Username: "bob", Email: "alice@x.com"})
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "email", de.Field)
}

func TestFindByUsernameOrEmail(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	u := seed(t, r, "alice", "alice@x.com")

	got, err := r.FindByUsernameOrEmail(ctx, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = r.FindByUsernameOrEmail(ctx, "", "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = r.FindByUsernameOrEmail(ctx, "", "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = r.FindByUsernameOrEmail(ctx, "carol", "carol@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFindByUsernameOrEmail_OldestMatchWins(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	alice := seed(t, r, "alice", "alice@x.com")
	bob := seed(t, r, "bob", "bob@x.com")

	for i := 0; i < 20; i++ {
		got, err := r.FindByUsernameOrEmail(ctx, "bob", "alice@x.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)
	}

	r.Delete(ctx, alice.ID)
	got, err := r.FindByUsernameOrEmail(ctx, "bob", "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, got.ID)
}

func TestRefreshTokenLifecycle(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	u := seed(t, r, "alice", "alice@x.com")

	require.NoError(t, r.SetRefreshToken(ctx, u.ID, "r1"))

	ok, err := r.RotateRefreshToken(ctx, u.ID, "stale", "r2")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.RotateRefreshToken(ctx, u.ID, "r1", "r2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.RotateRefreshToken(ctx, u.ID, "r1", "r3")
	require.NoError(t, err)
	assert.False(t, ok, "a rotated token cannot be rotated twice")

	require.NoError(t, r.SetRefreshToken(ctx, u.ID, ""))
	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.RefreshToken)

	ok, err = r.RotateRefreshToken(ctx, u.ID, "", "r4")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, r.SetRefreshToken(ctx, "missing", "x"), repository.ErrNotFound)
}

func TestUpdateAccountAndProfileProjection(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	u := seed(t, r, "alice", "alice@x.com")
	seed(t, r, "bob", "bob@x.com")
	require.NoError(t, r.SetRefreshToken(ctx, u.ID, "r1"))

	name, email := "Alice Doe", "ALICE2@x.com"
	got, err := r.UpdateAccount(ctx, u.ID, entity.AccountUpdate{FullName: &name, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "Alice Doe", got.FullName)
	assert.Equal(t, "alice2@x.com", got.Email)
	assert.Empty(t, got.Password)
	assert.Empty(t, got.RefreshToken)

	taken := "bob@x.com"
	_, err = r.UpdateAccount(ctx, u.ID, entity.AccountUpdate{Email: &taken})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	profile, err := r.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.Password)
	assert.Empty(t, profile.RefreshToken)

	full, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", full.Password)
	assert.Equal(t, "r1", full.RefreshToken)
	assert.Equal(t, "alice2@x.com", full.Email)
}
