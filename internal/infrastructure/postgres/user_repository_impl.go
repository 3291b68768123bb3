package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
)

const uniqueViolation = "23505"

const (
	profileColumns = `id, username, email, full_name, avatar_url, cover_image_url, created_at, updated_at`
	fullColumns    = `id, username, email, full_name, avatar_url, cover_image_url, created_at, updated_at,
		password_hash, COALESCE(refresh_token, '')`
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// mapError translates unique violations into repository.DuplicateError.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case "users_username_key":
			return repository.DuplicateError{Field: "username"}
		case "users_email_key":
			return repository.DuplicateError{Field: "email"}
		default:
			return repository.DuplicateError{}
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func scanProfile(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.AvatarURL, &u.CoverImageURL,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func scanFull(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.AvatarURL, &u.CoverImageURL,
		&u.CreatedAt, &u.UpdatedAt, &u.Password, &u.RefreshToken); err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, full_name, password_hash, avatar_url, cover_image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.Username, u.Email, u.FullName, u.Password, u.AvatarURL, u.CoverImageURL)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanFull(r.pool.QueryRow(ctx, `SELECT `+fullColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetProfile(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*entity.User, error) {
	if username == "" && email == "" {
		return nil, repository.ErrNotFound
	}
	return scanFull(r.pool.QueryRow(ctx, `
		SELECT `+fullColumns+`
		FROM users
		WHERE ($1 <> '' AND username = $1) OR ($2 <> '' AND email = $2)
		ORDER BY created_at
		LIMIT 1
	`, username, email))
}

func (r *UserRepository) exec(ctx context.Context, id, sql string, args ...any) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.pool.Exec(ctx, sql, append([]any{id}, args...)...)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	return r.exec(ctx, id, `
		UPDATE users SET refresh_token = NULLIF($2, ''), updated_at = now() WHERE id = $1
	`, token)
}

func (r *UserRepository) RotateRefreshToken(ctx context.Context, id, current, next string) (bool, error) {
	if !validID(id) || current == "" {
		return false, nil
	}
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET refresh_token = $3, updated_at = now()
		WHERE id = $1 AND refresh_token = $2
	`, id, current, next)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.exec(ctx, id, `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, hash)
}

func (r *UserRepository) UpdateAccount(ctx context.Context, id string, in entity.AccountUpdate) (*entity.User, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	var email *string
	if in.Email != nil {
		e := entity.NormalizeEmail(*in.Email)
		email = &e
	}
	return scanProfile(r.pool.QueryRow(ctx, `
		UPDATE users SET
			full_name       = COALESCE($2, full_name),
			email           = COALESCE($3, email),
			avatar_url      = COALESCE($4, avatar_url),
			cover_image_url = COALESCE($5, cover_image_url),
			updated_at      = now()
		WHERE id = $1
		RETURNING `+profileColumns, id, in.FullName, email, in.AvatarURL, in.CoverImageURL))
}

var _ repository.UserRepository = (*UserRepository)(nil)
