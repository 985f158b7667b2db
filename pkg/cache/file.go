package cache

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const entryExt = ".json"

// FileCache stores one JSON file per entry under dir, sharded by the first
// two hex characters of the key hash. Writes go through a temp file and a
// rename, so a CLI run and a server sharing dir never see partial entries.
type FileCache struct {
	dir string
	now Clock
}

// NewFileCache creates dir if needed and returns a cache over it.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, backendError("create", dir, err)
	}
	return &FileCache{dir: dir, now: SystemClock}, nil
}

// WithClock returns a copy of the cache that reads expiry against clock.
func (c *FileCache) WithClock(clock Clock) *FileCache {
	return &FileCache{dir: c.dir, now: clockOrSystem(clock)}
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

type fileEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get returns the entry for key. Corrupt and expired entries are removed
// and reported as misses.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return nil, false, nil
	case err != nil:
		return nil, false, backendError("read", key, err)
	}

	var e fileEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		c.remove(path)
		return nil, false, nil
	}
	if !e.ExpiresAt.IsZero() && c.now().After(e.ExpiresAt) {
		c.remove(path)
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set writes the entry for key. A non-positive ttl never expires.
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	e := fileEntry{Data: data}
	if ttl > 0 {
		e.ExpiresAt = c.now().Add(ttl)
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return backendError("encode", key, err)
	}

	path := c.path(key)
	shard := filepath.Dir(path)
	if err := os.MkdirAll(shard, 0o755); err != nil {
		return backendError("write", key, err)
	}
	tmp, err := os.CreateTemp(shard, ".tmp-*")
	if err != nil {
		return backendError("write", key, err)
	}
	_, werr := tmp.Write(raw)
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Rename(tmp.Name(), path)
	}
	if werr != nil {
		_ = os.Remove(tmp.Name())
		return backendError("write", key, werr)
	}
	return nil
}

// Delete removes the entry for key. Deleting a missing key is not an error.
func (c *FileCache) Delete(_ context.Context, key string) error {
	path := c.path(key)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return backendError("delete", key, err)
	}
	c.pruneShard(path)
	return nil
}

// Entries counts stored entries, expired ones included.
func (c *FileCache) Entries() (int, error) {
	n := 0
	err := filepath.WalkDir(c.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), entryExt) {
			n++
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return 0, backendError("list", c.dir, err)
	}
	return n, nil
}

// Clear removes every entry and shard directory.
func (c *FileCache) Clear() error {
	shards, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return backendError("clear", c.dir, err)
	}
	for _, s := range shards {
		if err := os.RemoveAll(filepath.Join(c.dir, s.Name())); err != nil {
			return backendError("clear", s.Name(), err)
		}
	}
	return nil
}

// Close is a no-op.
func (c *FileCache) Close() error { return nil }

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+entryExt)
}

func (c *FileCache) remove(path string) {
	_ = os.Remove(path)
	c.pruneShard(path)
}

// pruneShard removes the entry's shard directory if it is now empty.
func (c *FileCache) pruneShard(path string) {
	if shard := filepath.Dir(path); shard != c.dir {
		_ = os.Remove(shard)
	}
}

var _ Cache = (*FileCache)(nil)
