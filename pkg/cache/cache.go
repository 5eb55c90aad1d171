// Package cache provides content-addressed caching for analysis reports and
// rendered artifacts.
//
// Analysis results are pure functions of the snapshot they were computed
// from, so cached entries can never go stale; TTLs exist only to bound
// storage. Keys are derived from SHA-256 hashes of the canonical snapshot
// encoding (see Keyer), which makes the cache safe to share between the CLI
// and the API server.
//
// Three backends are provided: FileCache for single-machine CLI use,
// RedisCache for multi-instance server deployments, and NullCache to disable
// caching entirely.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry class. Entries are immutable once written, so these
// bound disk/memory usage rather than freshness.
const (
	// TTLAnalysis applies to cached analysis reports.
	TTLAnalysis = 7 * 24 * time.Hour

	// TTLArtifact applies to rendered graph artifacts (DOT, SVG, PNG),
	// which are larger and more expensive to recompute.
	TTLArtifact = 30 * 24 * time.Hour
)

// Cache is the storage interface shared by the CLI and the API server.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero stores the entry without
	// expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
