package cache

import (
	"context"
	"time"
)

// Scoped wraps a Cache and prefixes every key.
// Deployments sharing one Redis instance use distinct prefixes:
//
//	c := cache.NewScoped(redisCache, "bestofjs:prod:")
type Scoped struct {
	inner  Cache
	prefix string
}

// NewScoped creates a prefixed view of inner. A nil inner behaves like
// [NullCache].
func NewScoped(inner Cache, prefix string) *Scoped {
	if inner == nil {
		inner = NewNullCache()
	}
	return &Scoped{inner: inner, prefix: prefix}
}

// Prefix returns the key prefix.
func (s *Scoped) Prefix() string { return s.prefix }

func (s *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close closes the wrapped cache.
func (s *Scoped) Close() error {
	return s.inner.Close()
}

var _ Cache = (*Scoped)(nil)
