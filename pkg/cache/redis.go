package cache

import (
	"context"
	"time"

	"github.com/yourorg/hackconnect/internal/infrastructure/redis"
)

// Redis backs the cache with a shared Redis instance so multiple server
// processes see the same entries.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps a Redis client as a Cache. All keys get the prefix.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (c *Redis) key(key string) string {
	return c.prefix + ":" + key
}

// Get retrieves a value; misses and Redis errors both read as "not cached".
func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.client.Get(ctx, c.key(key))
	if err != nil {
		return nil, false
	}
	return []byte(value), true
}

// Set stores a value with a TTL. Failures are ignored; the cache is advisory.
func (c *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	_ = c.client.Set(ctx, c.key(key), string(value), ttl)
}

// Delete removes a key.
func (c *Redis) Delete(ctx context.Context, key string) {
	_ = c.client.Delete(ctx, c.key(key))
}
