// Package cache is a small Redis-backed JSON cache. The API uses it to hold
// rendered latest-value views for a short TTL so paginated consumers see a
// stable snapshot between page requests. Disabled, it is a no-op and every
// read falls through to the store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avdeenko/carrymon/pkg/config"
)

// Cache wraps a Redis client behind get/set helpers.
type Cache struct {
	rdb     *redis.Client
	enabled bool
	ttl     time.Duration
}

// New creates a cache from config. A disabled cache is valid and inert.
func New(cfg *config.Config) (*Cache, error) {
	if !cfg.Redis.Enabled {
		return &Cache{enabled: false}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &Cache{rdb: rdb, enabled: true, ttl: cfg.Redis.TTL}, nil
}

// NewWithClient wraps an existing client. Used in tests with miniredis.
func NewWithClient(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, enabled: true, ttl: ttl}
}

// Close closes the underlying connection.
func (c *Cache) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// Get unmarshals a cached value into dest. A miss or a disabled cache
// returns (false, nil).
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.enabled {
		return false, nil
	}

	data, err := c.rdb.Get(ctx, "view:"+key).Bytes()
	if err != nil {
		// Missing key is not an error.
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}
	return true, nil
}

// Set stores a value under the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}
	return c.rdb.Set(ctx, "view:"+key, data, c.ttl).Err()
}
