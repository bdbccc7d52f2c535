package httputil

import (
	"net/http"
	"time"

	"github.com/matzehuels/bestofjs/pkg/observability"
)

// DefaultTimeout bounds a single request, including reading the body.
const DefaultTimeout = 10 * time.Second

// NewClient creates an http.Client with the given timeout (DefaultTimeout
// when zero) and a transport that reports to observability.HTTP().
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &hookTransport{next: http.DefaultTransport},
	}
}

// hookTransport emits request, response and error events for every round trip.
type hookTransport struct {
	next http.RoundTripper
}

func (t *hookTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	hooks := observability.HTTP()
	ctx, host, path := req.Context(), req.URL.Host, req.URL.Path

	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, err
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))
	return resp, nil
}
