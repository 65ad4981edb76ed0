// Package cache provides the storage used to memoize generated style payloads.
//
// Memoization is optional: the default backend is [NullCache], which never
// stores anything, so every page render reads and encodes the font again.
// Other backends:
//   - [MemoryCache]: in-process map, for a single server instance
//   - [FileCache]: JSON entries on disk, for the CLI
//   - [RedisCache]: shared across server instances
//
// Keys are produced by a [Keyer] so that a changed font file (different size
// or modification time) never hits a stale entry.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs for cached entries.
const (
	// TTLStyle bounds how long an encoded style payload lives in a shared backend.
	// Keys already change with the font file, so this only limits garbage.
	TTLStyle = 24 * time.Hour
)
