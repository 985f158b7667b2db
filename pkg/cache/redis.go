package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/sitegraph/pkg/retry"
)

// DefaultRedisPrefix namespaces sitegraph keys in a shared Redis.
const DefaultRedisPrefix = "sitegraph:"

// RedisCache stores entries in Redis. Expiry is delegated to Redis TTLs.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// RedisOptions configures NewRedisCache.
type RedisOptions struct {
	Addr   string
	DB     int
	Prefix string // Defaults to DefaultRedisPrefix
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: opts.Addr, DB: opts.DB})
	err := retry.Do(ctx, retry.DefaultAttempts, retry.DefaultDelay, func() error {
		return retry.Transient(client.Ping(ctx).Err())
	})
	if err != nil {
		_ = client.Close()
		return nil, backendError("connect", opts.Addr, err)
	}
	return NewRedisCacheFromClient(client, opts.Prefix), nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisCache{client: client, prefix: prefix}
}

// Key returns the Redis key used for key.
func (c *RedisCache) Key(key string) string { return c.prefix + key }

// Get retrieves a value from Redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, backendError("get", key, err)
	}
	return data, true, nil
}

// Set stores a value in Redis. A zero ttl never expires.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return backendError("set", key, c.client.Set(ctx, c.Key(key), data, ttl).Err())
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return backendError("delete", key, c.client.Del(ctx, c.Key(key)).Err())
}

// Close closes the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)
