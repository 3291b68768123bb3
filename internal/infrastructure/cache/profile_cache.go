package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

func profileKey(userID string) string {
	return "user:profile:" + userID
}

// ProfileCache keeps public user views in Redis. Entries are dropped on every write to the record.
type ProfileCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewProfileCache(rdb redis.Cmdable, ttl time.Duration) *ProfileCache {
	return &ProfileCache{rdb: rdb, ttl: ttl}
}

func (c *ProfileCache) Get(ctx context.Context, userID string) (*entity.UserView, bool, error) {
	v, ok, err := helpers.RedisGetJSON[entity.UserView](ctx, c.rdb, profileKey(userID))
	if err != nil || !ok {
		return nil, false, err
	}
	return &v, true, nil
}

func (c *ProfileCache) Set(ctx context.Context, v entity.UserView) error {
	return helpers.RedisSetJSON(ctx, c.rdb, profileKey(v.ID), v, c.ttl)
}

func (c *ProfileCache) Invalidate(ctx context.Context, userID string) error {
	return helpers.RedisDel(ctx, c.rdb, profileKey(userID))
}
