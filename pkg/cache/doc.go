// Package cache provides the storage backends behind sitegraph's cached
// analysis.
//
// # Backends
//
// [Cache] is a byte-oriented key/value store with per-entry TTL:
//
//   - [FileCache]: JSON entries under a directory (CLI default)
//   - [MemoryCache]: bounded in-process LRU
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: never stores (caching disabled)
//
// # Timestamped Slots
//
// [Slot] layers typed values over a Cache and records when each value was
// stored. It enforces its TTL against an injectable [Clock], so expiry is
// testable without sleeping and does not depend on the backend honoring
// TTLs. The analysis pipeline keeps one slot per project: Get, Set and
// Timestamp are the whole contract.
//
// # Keys
//
// [Keyer] derives keys from request parameters; [ScopedKeyer] prefixes
// them for namespace isolation when several projects share a backend.
package cache
