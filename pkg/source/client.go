package source

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bestofjs/pkg/cache"
	"github.com/matzehuels/bestofjs/pkg/errors"
	"github.com/matzehuels/bestofjs/pkg/httputil"
	"github.com/matzehuels/bestofjs/pkg/observability"
	"github.com/matzehuels/bestofjs/pkg/query"
)

// DefaultURL is the published location of the dataset.
const DefaultURL = "https://bestofjs-static-api.vercel.app/projects.json"

// maxBodySize bounds the dataset document.
const maxBodySize = 64 << 20

// RawData is the decoded dataset document.
type RawData struct {
	Projects []query.Document `json:"projects"`
	Tags     []query.Document `json:"tags"`
}

// Source provides raw dataset documents.
type Source interface {
	// Fetch returns the dataset. With refresh set, cached copies are
	// ignored.
	Fetch(ctx context.Context, refresh bool) (*RawData, error)
	// URL identifies where the data comes from.
	URL() string
	// Close releases resources such as cache connections.
	Close() error
}

// Client fetches the dataset over HTTP.
type Client struct {
	url    string
	http   *http.Client
	cache  cache.Cache
	ttl    time.Duration
	policy httputil.Policy
	logger *log.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithURL overrides [DefaultURL].
func WithURL(url string) Option {
	return func(c *Client) { c.url = url }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = httputil.NewClient(d) }
}

// WithHTTPClient replaces the HTTP client entirely.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithCache stores fetched documents in cc for ttl. A zero ttl uses
// [cache.TTLDataset].
func WithCache(cc cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cc
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithRetryPolicy overrides [httputil.DefaultPolicy].
func WithRetryPolicy(p httputil.Policy) Option {
	return func(c *Client) { c.policy = p }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client. Without options it fetches [DefaultURL]
// with a 10 second timeout and no cache.
func NewClient(opts ...Option) *Client {
	c := &Client{
		url:    DefaultURL,
		http:   httputil.NewClient(httputil.DefaultTimeout),
		cache:  cache.NewNullCache(),
		ttl:    cache.TTLDataset,
		policy: httputil.DefaultPolicy,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = cache.NewNullCache()
	}
	return c
}

// URL returns the dataset location.
func (c *Client) URL() string { return c.url }

// Close closes the cache.
func (c *Client) Close() error { return c.cache.Close() }

// Fetch returns the dataset, from the cache when possible.
func (c *Client) Fetch(ctx context.Context, refresh bool) (*RawData, error) {
	key := cache.DatasetKey(c.url)
	hooks := observability.Cache()

	if !refresh {
		if raw, ok := c.cached(ctx, key); ok {
			hooks.OnCacheHit(ctx, "dataset")
			return raw, nil
		}
		hooks.OnCacheMiss(ctx, "dataset")
	}

	var body []byte
	err := httputil.Retry(ctx, c.policy, func(ctx context.Context) error {
		var err error
		body, err = c.get(ctx)
		if err != nil && httputil.IsRetryable(err) {
			c.logger.Debug("retrying dataset fetch", "url", c.url, "err", err)
		}
		return err
	})
	if err != nil {
		c.logger.Error("dataset fetch failed", "url", c.url, "err", err)
		return nil, err
	}

	raw, err := decode(body)
	if err != nil {
		c.logger.Error("dataset decode failed", "url", c.url, "err", err)
		return nil, err
	}

	if err := c.cache.Set(ctx, key, body, c.ttl); err != nil {
		c.logger.Warn("dataset cache write failed", "err", err)
	} else {
		hooks.OnCacheSet(ctx, "dataset", len(body))
	}
	return raw, nil
}

func (c *Client) cached(ctx context.Context, key string) (*RawData, bool) {
	data, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("dataset cache read failed", "err", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	raw, err := decode(data)
	if err != nil {
		c.logger.Warn("discarding corrupt cached dataset", "err", err)
		_ = c.cache.Delete(ctx, key)
		return nil, false
	}
	c.logger.Debug("dataset loaded from cache", "url", c.url, "bytes", len(data))
	return raw, true
}

func (c *Client) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid dataset URL %q", c.url)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(ctx, err, c.url)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode, c.url); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, transportError(ctx, err, c.url)
	}
	return body, nil
}

func checkStatus(code int, url string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "dataset not found at %s", url)
	case code >= 500:
		return httputil.Retryable(errors.New(errors.ErrCodeNetwork, "%s: status %d", url, code))
	default:
		return errors.New(errors.ErrCodeNetwork, "%s: status %d", url, code)
	}
}

// transportError classifies a failed round trip. Cancellation by the caller
// is returned as is; timeouts and network failures are retryable.
func transportError(ctx context.Context, err error, url string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var netErr net.Error
	if stderrors.Is(err, context.DeadlineExceeded) || (stderrors.As(err, &netErr) && netErr.Timeout()) {
		return httputil.Retryable(errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", url))
	}
	return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url))
}

func decode(data []byte) (*RawData, error) {
	var raw RawData
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode dataset")
	}
	if raw.Projects == nil && raw.Tags == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "dataset has neither projects nor tags")
	}
	return &raw, nil
}
