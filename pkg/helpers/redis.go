package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a client with short dial and IO timeouts.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// RedisPing checks the connection within timeout.
func RedisPing(ctx context.Context, rdb redis.Cmdable, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return rdb.Ping(ctx).Err()
}

// RedisSetJSON stores value as JSON under key. A zero ttl never expires.
func RedisSetJSON[T any](ctx context.Context, rdb redis.Cmdable, key string, value T, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, ttl).Err()
}

// RedisGetJSON loads key into a T and reports false on a miss.
// An entry that no longer decodes is deleted and reported as a miss.
func RedisGetJSON[T any](ctx context.Context, rdb redis.Cmdable, key string) (T, bool, error) {
	var out T
	raw, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return out, false, nil
	}
	if err != nil {
		return out, false, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		_ = rdb.Del(ctx, key).Err()
		return out, false, nil
	}
	return out, true, nil
}

func RedisDel(ctx context.Context, rdb redis.Cmdable, keys ...string) error {
	return rdb.Del(ctx, keys...).Err()
}
