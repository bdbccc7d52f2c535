// Package source fetches the raw Best of JS dataset.
//
// The dataset is a single JSON document published at a static URL:
//
//	{"projects": [...], "tags": [...]}
//
// [Client] downloads it with a bounded timeout, retries transient failures
// with exponential backoff, and optionally keeps the raw body in a
// [cache.Cache] so that a cold start can skip the network.
//
// Failures are never swallowed. Every error returned by [Client.Fetch]
// carries one of these codes:
//   - NETWORK_ERROR: connection failures and unexpected status codes
//   - TIMEOUT: the request exceeded its deadline
//   - NOT_FOUND: the URL answered 404
//   - INVALID_FORMAT: the body is not a dataset document
package source
