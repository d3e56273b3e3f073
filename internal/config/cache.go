package config

import (
	"context"

	"github.com/matzehuels/asttree/pkg/cache"
	"github.com/matzehuels/asttree/pkg/errors"
)

// OpenCache constructs the configured cache backend and its keyer. When
// noCache is set the null backend is returned regardless of configuration.
func (c CacheConfig) OpenCache(ctx context.Context, noCache bool) (cache.Cache, cache.Keyer, error) {
	keyer := c.Keyer()
	if noCache {
		return cache.NewNullCache(), keyer, nil
	}

	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), keyer, nil
	case BackendMemory:
		mc, err := cache.NewMemoryCache(c.Size)
		if err != nil {
			return nil, nil, err
		}
		return mc, keyer, nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			Prefix:   c.Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		// RedisCache applies the prefix itself.
		return rc, cache.NewDefaultKeyer(), nil
	case BackendFile, "":
		fc, err := cache.NewFileCache(c.Dir)
		if err != nil {
			return nil, nil, err
		}
		return fc, keyer, nil
	default:
		return nil, nil, errors.New(errors.ErrCodeInvalidConfig, "cache.backend: unknown backend %q", c.Backend)
	}
}

// Keyer returns the key scheme for this configuration.
func (c CacheConfig) Keyer() cache.Keyer {
	if c.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Prefix)
}
