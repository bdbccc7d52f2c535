package dataset

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/bestofjs/pkg/errors"
	"github.com/matzehuels/bestofjs/pkg/observability"
	"github.com/matzehuels/bestofjs/pkg/source"
)

// Provider lazily builds and then holds a single [Snapshot].
//
// Concurrent calls to [Provider.Get] made before the snapshot exists share
// one build, so the source is fetched at most once at a time and never
// again after a successful build. A failed build is not remembered; the
// next Get tries again.
type Provider struct {
	src     source.Source
	logger  *log.Logger
	refresh bool

	group singleflight.Group

	mu     sync.RWMutex
	snap   *Snapshot
	closed bool
}

// Option configures a [Provider].
type Option func(*Provider)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// WithRefresh makes the build bypass the source's response cache.
func WithRefresh(refresh bool) Option {
	return func(p *Provider) { p.refresh = refresh }
}

// NewProvider creates a Provider reading from src. Nothing is fetched
// until the first call to Get.
func NewProvider(src source.Source, opts ...Option) *Provider {
	p := &Provider{
		src:    src,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Get returns the snapshot, building it on first use.
//
// The build is detached from ctx so that a caller giving up does not fail
// the others waiting on the same build; Get itself returns ctx.Err() as
// soon as ctx ends. Fetch failures are reported as DATA_UNAVAILABLE
// wrapping the source error.
func (p *Provider) Get(ctx context.Context) (*Snapshot, error) {
	p.mu.RLock()
	snap, closed := p.snap, p.closed
	p.mu.RUnlock()
	if closed {
		return nil, errors.New(errors.ErrCodeDataUnavailable, "dataset provider is closed")
	}
	if snap != nil {
		return snap, nil
	}

	ch := p.group.DoChan("snapshot", func() (any, error) {
		return p.build(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*Snapshot), nil
	}
}

// Ready reports whether the snapshot has been built.
func (p *Provider) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap != nil
}

// Close drops the snapshot and closes the source. Later calls to Get fail.
func (p *Provider) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.snap = nil
	p.mu.Unlock()
	return p.src.Close()
}

func (p *Provider) build(ctx context.Context) (*Snapshot, error) {
	p.mu.RLock()
	snap := p.snap
	p.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	url := p.src.URL()
	hooks := observability.Dataset()
	hooks.OnBuildStart(ctx, url)
	start := time.Now()

	raw, err := p.src.Fetch(ctx, p.refresh)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeDataUnavailable, err, "load dataset from %s", url)
		hooks.OnBuildComplete(ctx, url, 0, 0, time.Since(start), err)
		return nil, err
	}

	snap = NewSnapshot(raw, url)
	if n := len(snap.Collisions); n > 0 {
		p.logger.Warn("duplicate project slugs, last project wins", "count", n, "slugs", snap.Collisions)
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, errors.New(errors.ErrCodeDataUnavailable, "dataset provider is closed")
	}
	p.snap = snap
	p.mu.Unlock()

	dur := time.Since(start)
	p.logger.Info("dataset ready",
		"projects", len(snap.Projects),
		"tags", snap.Tags.Len(),
		"duration", dur.Round(time.Millisecond))
	hooks.OnBuildComplete(ctx, url, len(snap.Projects), snap.Tags.Len(), dur, nil)
	return snap, nil
}
