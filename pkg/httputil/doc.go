// Package httputil provides HTTP plumbing for the dataset fetcher.
//
//   - [Retry]: bounded retries with exponential backoff for transient failures
//   - [NewClient]: an http.Client with a request timeout whose transport
//     reports every request to the registered observability HTTP hooks
//
// Only errors wrapped in [RetryableError] are retried. Callers classify
// failures themselves: network errors and 5xx responses are transient, 4xx
// responses and malformed bodies are not.
package httputil
