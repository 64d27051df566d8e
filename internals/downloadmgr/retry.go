package downloadmgr

import (
	"context"
	"time"
)

// BackoffFunc returns how long to wait before the given (zero based) retry
type BackoffFunc func(attempt int) time.Duration

// ExponentialBackoff doubles the base delay with every attempt, capped at max
func ExponentialBackoff(base time.Duration, max time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		d := base << uint(attempt)
		if d > max || d <= 0 {
			return max
		}
		return d
	}
}

// Retry runs fn up to attempts times. Errors the classifier rejects are
// returned immediately, everything else is retried after the backoff delay.
// A canceled context ends the loop with the context's error.
func Retry(ctx context.Context, attempts int, backoff BackoffFunc, retryable func(error) bool, fn func() error) error {
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt != 0 {
			select {
			case <-time.After(backoff(attempt - 1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err = fn(); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !retryable(err) {
			return err
		}
	}
	return err
}
