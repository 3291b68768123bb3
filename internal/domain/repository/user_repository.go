package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("duplicate user")
)

// DuplicateError reports a uniqueness violation on a logical field ("username" or "email").
type DuplicateError struct {
	Field string
}

func (e DuplicateError) Error() string {
	if e.Field == "" {
		return ErrDuplicate.Error()
	}
	return fmt.Sprintf("%v: %s", ErrDuplicate, e.Field)
}

func (e DuplicateError) Unwrap() error { return ErrDuplicate }

// UserRepository defines the credential store operations.
// Lookups by username/email expect canonical (normalized) values.
type UserRepository interface {
	// Create inserts u and fills ID and timestamps. Returns ErrDuplicate on a username/email clash.
	Create(ctx context.Context, u *entity.User) error
	// GetByID returns the full record, credentials included.
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetProfile returns the record without password and refresh token.
	GetProfile(ctx context.Context, id string) (*entity.User, error)
	// FindByUsernameOrEmail matches either field; empty arguments never match.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*entity.User, error)
	// SetRefreshToken overwrites the stored refresh token; "" clears it.
	SetRefreshToken(ctx context.Context, id, token string) error
	// RotateRefreshToken replaces current with next only if current is still stored.
	RotateRefreshToken(ctx context.Context, id, current, next string) (bool, error)
	UpdatePassword(ctx context.Context, id, hash string) error
	// UpdateAccount applies a partial update and returns the record without credentials.
	UpdateAccount(ctx context.Context, id string, in entity.AccountUpdate) (*entity.User, error)
}
