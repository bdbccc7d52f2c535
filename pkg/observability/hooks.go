// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the registered hooks without depending on a
// particular backend. The defaults are no-ops; main registers real
// implementations at startup:
//
//	func main() {
//	    observability.SetHTTPHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// Emitting events:
//
//	observability.Dataset().OnBuildStart(ctx, url)
//	// ... fetch and index ...
//	observability.Dataset().OnBuildComplete(ctx, url, projects, tags, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Dataset Hooks
// =============================================================================

// DatasetHooks receives events from snapshot construction.
type DatasetHooks interface {
	OnBuildStart(ctx context.Context, source string)
	OnBuildComplete(ctx context.Context, source string, projects, tags int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// Query Hooks
// =============================================================================

// QueryHooks receives events from query evaluation.
// collection is "projects" or "tags"; total counts matches before paging.
type QueryHooks interface {
	OnQuery(ctx context.Context, collection string, total, returned int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDatasetHooks is a no-op implementation of DatasetHooks.
type NoopDatasetHooks struct{}

func (NoopDatasetHooks) OnBuildStart(context.Context, string) {}
func (NoopDatasetHooks) OnBuildComplete(context.Context, string, int, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// NoopQueryHooks is a no-op implementation of QueryHooks.
type NoopQueryHooks struct{}

func (NoopQueryHooks) OnQuery(context.Context, string, int, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	datasetHooks DatasetHooks = NoopDatasetHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	queryHooks   QueryHooks   = NoopQueryHooks{}
	hooksMu      sync.RWMutex
)

// SetDatasetHooks registers custom dataset hooks. Nil is ignored.
func SetDatasetHooks(h DatasetHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		datasetHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// SetQueryHooks registers custom query hooks. Nil is ignored.
func SetQueryHooks(h QueryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		queryHooks = h
	}
}

// Dataset returns the registered dataset hooks.
func Dataset() DatasetHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return datasetHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Query returns the registered query hooks.
func Query() QueryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return queryHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	datasetHooks = NoopDatasetHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
	queryHooks = NoopQueryHooks{}
}
