package store

import (
	"context"
	stderrors "errors"
	"time"
)

// retryableError marks a failure worth retrying, such as a refused
// connection while a database container starts.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

func isRetryable(err error) bool {
	var re *retryableError
	return stderrors.As(err, &re)
}

// retryDelay is the first backoff delay; it doubles per attempt.
var retryDelay = time.Second

// retryWithBackoff calls fn up to attempts times with exponential backoff.
// Only errors marked retryable trigger another attempt; the last error is
// returned unwrapped.
func retryWithBackoff(ctx context.Context, attempts int, fn func() error) error {
	delay := retryDelay
	var lastErr error
	for i := 0; i < attempts; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRetryable(err) {
			return err
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	var re *retryableError
	if stderrors.As(lastErr, &re) {
		return re.err
	}
	return lastErr
}
