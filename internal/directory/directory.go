// Package directory resolves employee ids to display data. The core
// treats the directory as read-only.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/model"

	"github.com/redis/go-redis/v9"
)

// Directory resolves an employee id to {full name, role}.
type Directory interface {
	GetEmployee(ctx context.Context, id string) (*model.Employee, error)
}

// Cached is a read-through redis cache in front of another Directory.
// Cache failures are ignored: a cold or unreachable cache degrades to
// the inner lookup.
type Cached struct {
	inner Directory
	redis *redis.Client
	ttl   time.Duration
}

// NewCached wraps inner with a redis cache. ttl must be positive.
func NewCached(inner Directory, redisClient *redis.Client, ttl time.Duration) *Cached {
	return &Cached{inner: inner, redis: redisClient, ttl: ttl}
}

// GetEmployee returns the cached entry or falls through to the inner
// directory and caches the result.
func (c *Cached) GetEmployee(ctx context.Context, id string) (*model.Employee, error) {
	key := cacheKey(id)
	if c.redis != nil && c.ttl > 0 {
		if val, err := c.redis.Get(ctx, key).Result(); err == nil {
			var e model.Employee
			if err := json.Unmarshal([]byte(val), &e); err == nil {
				return &e, nil
			}
		}
	}

	e, err := c.inner.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.redis != nil && c.ttl > 0 {
		if data, err := json.Marshal(e); err == nil {
			_ = c.redis.Set(ctx, key, data, c.ttl).Err()
		}
	}
	return e, nil
}

func cacheKey(id string) string {
	return fmt.Sprintf("employee:%s", id)
}
