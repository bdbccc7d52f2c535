package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level log lines.
// The CLI registers it when --verbose is set.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks that log through l. A nil logger uses log.Default().
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{logger: l}
}

// Register installs h for all hook categories.
func (h *LogHooks) Register() {
	SetDatasetHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
	SetQueryHooks(h)
}

func (h *LogHooks) OnBuildStart(_ context.Context, source string) {
	h.logger.Debug("building dataset", "source", source)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, source string, projects, tags int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("dataset build failed", "source", source, "duration", d, "err", err)
		return
	}
	h.logger.Debug("dataset built", "source", source, "projects", projects, "tags", tags, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

func (h *LogHooks) OnQuery(_ context.Context, collection string, total, returned int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("query rejected", "collection", collection, "err", err)
		return
	}
	h.logger.Debug("query", "collection", collection, "total", total, "returned", returned, "duration", d)
}

var (
	_ DatasetHooks = (*LogHooks)(nil)
	_ CacheHooks   = (*LogHooks)(nil)
	_ HTTPHooks    = (*LogHooks)(nil)
	_ QueryHooks   = (*LogHooks)(nil)
)
