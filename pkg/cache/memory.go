package cache

import (
	"context"
	"slices"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoryEntries bounds a MemoryCache created with size <= 0.
const DefaultMemoryEntries = 256

// MemoryCache is a bounded in-process cache. Least recently used entries
// are evicted once the bound is reached.
type MemoryCache struct {
	entries *lru.Cache[string, fileEntry]
	now     Clock
}

// NewMemoryCache creates a cache holding at most size entries.
// A nil clock uses the wall clock.
func NewMemoryCache(size int, clock Clock) *MemoryCache {
	if size <= 0 {
		size = DefaultMemoryEntries
	}
	entries, _ := lru.New[string, fileEntry](size) // only fails for size <= 0
	return &MemoryCache{entries: entries, now: clockOrSystem(clock)}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !entry.ExpiresAt.IsZero() && c.now().After(entry.ExpiresAt) {
		c.entries.Remove(key)
		return nil, false, nil
	}
	return slices.Clone(entry.Data), true, nil
}

// Set stores a copy of data.
func (c *MemoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{Data: slices.Clone(data)}
	if ttl > 0 {
		entry.ExpiresAt = c.now().Add(ttl)
	}
	c.entries.Add(key, entry)
	return nil
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.entries.Remove(key)
	return nil
}

// Len returns the number of stored entries, including expired ones not yet
// evicted.
func (c *MemoryCache) Len() int { return c.entries.Len() }

// Close drops every entry.
func (c *MemoryCache) Close() error {
	c.entries.Purge()
	return nil
}

var _ Cache = (*MemoryCache)(nil)
