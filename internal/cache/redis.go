package cache

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/boardpulse/boardpulse/internal/database"
)

// Redis is a Cache backed by a shared Redis instance, for deployments
// running more than one API replica.
type Redis struct {
	rdb    *database.Redis
	prefix string
}

var _ Cache = (*Redis)(nil)

// NewRedis creates a Redis-backed cache. All keys are stored under prefix.
func NewRedis(rdb *database.Redis, prefix string) *Redis {
	return &Redis{rdb: rdb, prefix: prefix}
}

// Get returns the value stored under key, or ErrMiss if absent.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.rdb.GetBytes(ctx, r.prefix+key)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}
	return value, nil
}

// Set stores value under key for ttl. Non-positive ttl stores nothing.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, r.prefix+key, value, ttl)
}

// Delete removes key if present.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.rdb.Delete(ctx, r.prefix+key)
}
