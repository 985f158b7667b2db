package cache

import (
	"context"
	"encoding/json"
	"time"
)

// slotEnvelope is the stored form of a slot value.
type slotEnvelope struct {
	StoredAt time.Time       `json:"stored_at"`
	Value    json.RawMessage `json:"value"`
}

// Slot stores timestamped values of type T in a Cache.
//
// A value is fresh while clock() - storedAt < ttl. Stale values are
// reported as misses and removed. A zero ttl never expires.
type Slot[T any] struct {
	cache Cache
	ttl   time.Duration
	now   Clock
}

// NewSlot creates a slot over c. A nil clock uses the wall clock.
func NewSlot[T any](c Cache, ttl time.Duration, clock Clock) *Slot[T] {
	return &Slot[T]{cache: c, ttl: ttl, now: clockOrSystem(clock)}
}

// TTL returns the slot's time to live.
func (s *Slot[T]) TTL() time.Duration { return s.ttl }

// Get returns the fresh value stored under key.
func (s *Slot[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var zero T
	env, ok, err := s.envelope(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}
	var v T
	if err := json.Unmarshal(env.Value, &v); err != nil {
		_ = s.cache.Delete(ctx, key)
		return zero, false, nil
	}
	return v, true, nil
}

// Set stores v under key, stamped with the current clock time.
func (s *Slot[T]) Set(ctx context.Context, key string, v T) error {
	value, err := json.Marshal(v)
	if err != nil {
		return backendError("encode", key, err)
	}
	data, err := json.Marshal(slotEnvelope{StoredAt: s.now(), Value: value})
	if err != nil {
		return backendError("encode", key, err)
	}
	return s.cache.Set(ctx, key, data, s.ttl)
}

// Timestamp returns when the fresh value under key was stored.
func (s *Slot[T]) Timestamp(ctx context.Context, key string) (time.Time, bool, error) {
	env, ok, err := s.envelope(ctx, key)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	return env.StoredAt, true, nil
}

// Invalidate removes the value under key.
func (s *Slot[T]) Invalidate(ctx context.Context, key string) error {
	return s.cache.Delete(ctx, key)
}

func (s *Slot[T]) envelope(ctx context.Context, key string) (slotEnvelope, bool, error) {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		return slotEnvelope{}, false, err
	}
	var env slotEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		_ = s.cache.Delete(ctx, key)
		return slotEnvelope{}, false, nil
	}
	if s.ttl > 0 && s.now().Sub(env.StoredAt) >= s.ttl {
		_ = s.cache.Delete(ctx, key)
		return slotEnvelope{}, false, nil
	}
	return env, true, nil
}
