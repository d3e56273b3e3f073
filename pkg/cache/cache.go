// Package cache stores pipeline results keyed by content hashes.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [MemoryCache]: bounded in-process LRU
//   - [RedisCache]: shared cache for several processes
//
// All backends honor per-entry TTLs. A zero TTL means the entry does not
// expire on its own.
//
// # Keys
//
// A [Keyer] derives keys from the inputs that determine a result. Keys for
// the same inputs are stable across processes, so a layout cached by one run
// is found by the next. [ScopedKeyer] prefixes every key to share one backend
// between independent namespaces.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind.
const (
	TTLHTTP     = 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key for ttl.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Clear drops every entry of c if the backend supports it.
// It reports whether anything was cleared.
func Clear(ctx context.Context, c Cache) (bool, error) {
	cl, ok := c.(Clearer)
	if !ok {
		return false, nil
	}
	if err := cl.Clear(ctx); err != nil {
		return false, err
	}
	return true, nil
}
