package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	// TTLStructure bounds how long a scan result is served before a fresh
	// scan is forced.
	TTLStructure = 5 * time.Minute

	// TTLLayout applies to persisted layouts. Layouts are pure functions of
	// their key, so they only expire to bound storage.
	TTLLayout = 24 * time.Hour
)

// Cache is a byte-oriented key/value store.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clock returns the current time.
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time { return time.Now() }

func clockOrSystem(c Clock) Clock {
	if c == nil {
		return SystemClock
	}
	return c
}
