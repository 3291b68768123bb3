package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/infrastructure/memory"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

func unreachable(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestProfileKey(t *testing.T) {
	assert.Equal(t, "user:profile:abc", profileKey("abc"))
}

func TestProfileCache_ErrorsSurface(t *testing.T) {
	c := NewProfileCache(unreachable(t), time.Minute)
	ctx := context.Background()

	v, ok, err := c.Get(ctx, "u1")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
	assert.Error(t, c.Set(ctx, entity.UserView{ID: "u1"}))
	assert.Error(t, c.Invalidate(ctx, "u1"))
}

func TestProfileCache_OutageFallsBackToStore(t *testing.T) {
	helpers.PasswordCost = bcrypt.MinCost
	repo := memory.NewUserRepository()
	u, err := entity.NewUser("alice", "alice@x.com", "Alice", "pw1")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), u))

	jwt := helpers.NewJWTManager("a", "b", time.Hour, time.Hour)
	svc := application.NewService(repo, jwt, nil, nil,
		application.WithCache(NewProfileCache(unreachable(t), time.Minute)))

	got, err := svc.GetCurrentUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}
