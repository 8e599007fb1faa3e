// internal/app/cms/cache.go
package cms

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultCacheTTL bounds how stale a cached CMS response can get.
const DefaultCacheTTL = 5 * time.Minute

// Cache is a Redis-backed response cache. Every operation fails open: a
// Redis outage degrades to fetching from the CMS, never to an error the
// visitor sees.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewCache connects a cache to the given Redis address. ttl of 0 means
// DefaultCacheTTL.
func NewCache(addr string, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Cache{client: client, ttl: ttl, log: logger}
}

// Healthy verifies Redis connectivity.
func (c *Cache) Healthy(ctx context.Context) bool {
	if c == nil || c.client == nil {
		return false
	}
	return c.client.Ping(ctx).Err() == nil
}

// Get returns the cached payload for key, if any.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug("cms cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return raw, true
}

// Set stores a payload under key with the cache TTL.
func (c *Cache) Set(ctx context.Context, key string, payload []byte) {
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Debug("cms cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
