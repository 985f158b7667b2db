// Package retry runs operations that may fail transiently, such as the
// connection checks of the Redis cache and the Mongo snapshot store.
//
// Only errors marked with [Transient] (or wrapped in [TransientError]) are
// retried; any other error is returned at once. The delay doubles after
// each failed attempt.
//
//	err := retry.Do(ctx, retry.DefaultAttempts, retry.DefaultDelay, func() error {
//	    if err := client.Ping(ctx).Err(); err != nil {
//	        return retry.Transient(err)
//	    }
//	    return nil
//	})
package retry

import (
	"context"
	"errors"
	"time"
)

// Defaults used by connection checks.
const (
	DefaultAttempts = 3
	DefaultDelay    = 250 * time.Millisecond
)

// TransientError marks an error that should trigger a retry.
type TransientError struct{ Err error }

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err as a [TransientError]. A nil err stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// Do executes fn up to attempts times with exponential backoff starting at
// delay. It returns nil on the first success, the first non-transient
// error, ctx.Err() if cancelled while waiting, or the unwrapped last error
// once attempts are exhausted.
func Do(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		var te *TransientError
		if !errors.As(err, &te) {
			return err
		}
		lastErr = te.Err

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// IsTransient reports whether err is marked for retry.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
