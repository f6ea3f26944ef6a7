package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ppods-be/pkg/appstate"

	"github.com/redis/go-redis/v9"
)

type RedisBackend struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ appstate.Backend = (*RedisBackend)(nil)

// NewRedisBackend stores blobs as plain string keys. ttl 0 means keys never expire.
func NewRedisBackend(rdb *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{rdb: rdb, ttl: ttl}
}

func (r *RedisBackend) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appstate.ErrNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

func (r *RedisBackend) Write(ctx context.Context, key string, data []byte) error {
	if err := r.rdb.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
