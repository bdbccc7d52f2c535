package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses) with this type
// so that [Retry] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a RetryableError. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err is wrapped with RetryableError.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Policy controls [Retry].
type Policy struct {
	Attempts int           // total attempts, at least 1
	Delay    time.Duration // wait before the second attempt
	MaxDelay time.Duration // cap for the doubled delay; 0 means no cap
}

// DefaultPolicy makes 3 attempts starting with a 1 second delay.
var DefaultPolicy = Policy{Attempts: 3, Delay: time.Second, MaxDelay: 8 * time.Second}

// Retry executes fn up to p.Attempts times with exponential backoff.
// Non-retryable errors are returned immediately. Returns the last error if
// all attempts fail, or ctx.Err() if ctx ends while waiting.
func Retry(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var lastErr error

	for i := range attempts {
		if err := fn(ctx); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
				if p.MaxDelay > 0 && delay > p.MaxDelay {
					delay = p.MaxDelay
				}
			}
		}
	}
	return lastErr
}
