package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-account-service/internal/domain/repository"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name  string
		in    error
		field string
	}{
		{"username", &pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_username_key"}, "username"},
		{"email", fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_email_key"}), "email"},
		{"other constraint", &pgconn.PgError{Code: uniqueViolation, ConstraintName: "x"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var de repository.DuplicateError
			require.True(t, errors.As(mapError(tc.in), &de))
			assert.Equal(t, tc.field, de.Field)
			assert.ErrorIs(t, mapError(tc.in), repository.ErrDuplicate)
		})
	}

	assert.ErrorIs(t, mapError(pgx.ErrNoRows), repository.ErrNotFound)
	other := &pgconn.PgError{Code: "42P01"}
	assert.Equal(t, error(other), mapError(other))
}

func TestInvalidIDsNeverReachTheDatabase(t *testing.T) {
	// A nil pool would panic if any of these issued a query.
	r := NewUserRepository(nil)
	ctx := context.Background()

	_, err := r.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = r.GetProfile(ctx, "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = r.FindByUsernameOrEmail(ctx, "", "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	ok, err := r.RotateRefreshToken(ctx, "bad", "a", "b")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, r.SetRefreshToken(ctx, "bad", ""), repository.ErrNotFound)
}
