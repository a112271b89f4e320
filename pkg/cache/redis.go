package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis under a key prefix.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// RedisOption configures a [RedisCache].
type RedisOption func(*RedisCache)

// WithRedisPrefix sets the prefix prepended to every key. The default is
// "snowball:".
func WithRedisPrefix(prefix string) RedisOption {
	return func(c *RedisCache) { c.prefix = prefix }
}

// NewRedisCache connects to the Redis server at rawURL
// (redis://[user:pass@]host:port/db) and pings it, retrying transient
// failures.
func NewRedisCache(ctx context.Context, rawURL string, opts ...RedisOption) (*RedisCache, error) {
	ropts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := &RedisCache{client: redis.NewClient(ropts), prefix: "snowball:"}
	for _, opt := range opts {
		opt(c)
	}
	err = RetryWithBackoff(ctx, func() error {
		return classifyNet(c.client.Ping(ctx).Err())
	})
	if err != nil {
		c.client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", ropts.Addr, err)
	}
	return c, nil
}

// Get retrieves a value.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, classifyNet(err)
	}
	return data, true, nil
}

// Set stores a value. Redis expires it after ttl; zero keeps it.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return classifyNet(c.client.Set(ctx, c.prefix+key, data, ttl).Err())
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return classifyNet(c.client.Del(ctx, c.prefix+key).Err())
}

// Clear deletes every key under the prefix.
func (c *RedisCache) Clear(ctx context.Context) (int, error) {
	removed := 0
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, classifyNet(err)
		}
		removed++
	}
	return removed, classifyNet(iter.Err())
}

// Stats counts keys under the prefix. Redis does not expose per-key sizes
// cheaply, so Bytes is left at zero.
func (c *RedisCache) Stats(ctx context.Context) (Stats, error) {
	st := Stats{Backend: "redis"}
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		st.Entries++
	}
	return st, classifyNet(iter.Err())
}

// Close closes the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// classifyNet marks connection failures as retryable network errors.
func classifyNet(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return Retryable(fmt.Errorf("%w: %w", ErrNetwork, err))
	}
	return err
}

var (
	_ Cache   = (*RedisCache)(nil)
	_ Clearer = (*RedisCache)(nil)
	_ Statter = (*RedisCache)(nil)
)
