// Package cache stores rendered simulation artifacts.
//
// A run is fully determined by its scenario and render options, so
// artifacts are cached under a key derived from both. Backends:
//
//   - [NullCache] stores nothing (--cache none)
//   - [FileCache] keeps one JSON entry per key under a directory
//   - [RedisCache] and [MongoCache] share a cache between server replicas
//
// [Open] picks a backend from a URL. Keys come from a [Keyer]; wrap one
// with [NewScopedKeyer] to give a caller its own namespace.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as ok == false
	// with a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) (removed int, err error)
}

// Stats describes the contents of a cache.
type Stats struct {
	Backend string
	Entries int
	Bytes   int64
}

// Statter is implemented by caches that can report their size.
type Statter interface {
	Stats(ctx context.Context) (Stats, error)
}

// DefaultTTL is how long artifacts live in shared caches.
const DefaultTTL = 7 * 24 * time.Hour

// GetJSON decodes the JSON value stored under key into v. It returns
// [ErrCacheMiss] when the key is absent.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(data, v)
}

// SetJSON stores v as JSON under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
