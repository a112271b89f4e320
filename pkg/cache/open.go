package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir returns the default location of the file cache, following
// the XDG base directory layout.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "snowball"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "snowball"), nil
}

// Open returns the cache named by location:
//
//	none                      -> NullCache
//	"" or a path or file://   -> FileCache (empty means DefaultDir)
//	redis:// or rediss://     -> RedisCache
//	mongodb:// or mongodb+srv -> MongoCache
func Open(ctx context.Context, location string) (Cache, error) {
	switch scheme, rest, _ := strings.Cut(location, "://"); {
	case location == "none":
		return NewNullCache(), nil
	case location == "":
		dir, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("locate cache dir: %w", err)
		}
		return NewFileCache(dir)
	case !strings.Contains(location, "://"):
		return NewFileCache(location)
	case scheme == "file":
		return NewFileCache(rest)
	case scheme == "redis" || scheme == "rediss":
		return NewRedisCache(ctx, location)
	case scheme == "mongodb" || scheme == "mongodb+srv":
		return NewMongoCache(ctx, location)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedScheme, scheme)
	}
}
