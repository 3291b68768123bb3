// Package memory keeps user records in process memory. It backs the "memory"
// store driver and the service/handler tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]entity.User
	order []string // ids in creation order
	now   func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: map[string]entity.User{}, now: time.Now}
}

func (r *UserRepository) conflict(u *entity.User, skipID string) error {
	for id, other := range r.users {
		if id == skipID {
			continue
		}
		if other.Username == u.Username {
			return repository.DuplicateError{Field: "username"}
		}
		if other.Email == u.Email {
			return repository.DuplicateError{Field: "email"}
		}
	}
	return nil
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.conflict(u, ""); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := r.now()
	u.CreatedAt, u.UpdatedAt = now, now
	r.users[u.ID] = *u
	r.order = append(r.order, u.ID)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetProfile(ctx context.Context, id string) (*entity.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Password, u.RefreshToken = "", ""
	return u, nil
}

func (r *UserRepository) FindByUsernameOrEmail(_ context.Context, username, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		u := r.users[id]
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) update(id string, fn func(u *entity.User) error) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if err := fn(&u); err != nil {
		return nil, err
	}
	u.UpdatedAt = r.now()
	r.users[id] = u
	return &u, nil
}

func (r *UserRepository) SetRefreshToken(_ context.Context, id, token string) error {
	_, err := r.update(id, func(u *entity.User) error {
		u.RefreshToken = token
		return nil
	})
	return err
}

func (r *UserRepository) RotateRefreshToken(_ context.Context, id, current, next string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || current == "" || u.RefreshToken != current {
		return false, nil
	}
	u.RefreshToken = next
	u.UpdatedAt = r.now()
	r.users[id] = u
	return true, nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, id, hash string) error {
	_, err := r.update(id, func(u *entity.User) error {
		u.Password = hash
		return nil
	})
	return err
}

func (r *UserRepository) UpdateAccount(_ context.Context, id string, in entity.AccountUpdate) (*entity.User, error) {
	u, err := r.update(id, func(u *entity.User) error {
		next := *u
		next.Apply(in)
		if err := r.conflict(&next, id); err != nil {
			return err
		}
		*u = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.Password, u.RefreshToken = "", ""
	return u, nil
}

// Delete removes a record. Only tools and tests use it; no account operation deletes users.
func (r *UserRepository) Delete(_ context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

var _ repository.UserRepository = (*UserRepository)(nil)
