// Package cache provides byte-oriented caches for remote responses.
//
// The remote dataset is a single JSON document that changes a few times a
// day. Caching the raw body lets a restarted process build its snapshot
// without waiting on the network. Backends:
//   - [FileCache]: one file per key under a directory (CLI default)
//   - [RedisCache]: shared cache for multi-instance API deployments
//   - [NullCache]: caching disabled
//
// [Scoped] prefixes keys so several deployments can share one backend.
package cache

import (
	"context"
	"time"
)

// TTLDataset is the default lifetime of a cached dataset document.
const TTLDataset = time.Hour

// Cache stores opaque byte payloads under string keys.
//
// Get reports (data, true, nil) on a hit and (nil, false, nil) on a miss.
// Expired entries are misses. A non-nil error means the backend itself
// failed; callers treat it like a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// DatasetKey returns the cache key for the dataset document served at url.
func DatasetKey(url string) string {
	return hashKey("source", url)
}
