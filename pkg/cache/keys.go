package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// AnalysisKeyOpts captures the options that change the content of an
// analysis report and therefore must be part of its cache key.
type AnalysisKeyOpts struct {
	Trace bool `json:"trace"` // report includes the pass-by-pass trace
	Graph bool `json:"graph"` // report includes the full edge list
}

// ArtifactKeyOpts captures the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format  string `json:"format"`  // dot, svg or png
	Rankdir string `json:"rankdir"` // graphviz layout direction
}

// Keyer generates cache keys for the two cacheable stages. Implementations
// must be deterministic: the same inputs always yield the same key.
type Keyer interface {
	// AnalysisKey generates a key for a cached analysis report.
	// snapshotHash is the content hash of the canonical snapshot encoding.
	AnalysisKey(snapshotHash string, opts AnalysisKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer generates content-hash keys with stage prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// AnalysisKey generates a key of the form "analysis:<sha256>".
func (k *DefaultKeyer) AnalysisKey(snapshotHash string, opts AnalysisKeyOpts) string {
	return hashKey("analysis", snapshotHash, opts)
}

// ArtifactKey generates a key of the form "artifact:<sha256>".
func (k *DefaultKeyer) ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", snapshotHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix so independent deployments can
// share one backend without key collisions. The API server scopes its keys
// apart from local CLI entries this way.
//
// Example usage:
//
//	// Server-scoped keys on a shared Redis
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys. A nil inner keyer defaults
// to NewDefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// AnalysisKey generates a prefixed analysis report key.
func (k *ScopedKeyer) AnalysisKey(snapshotHash string, opts AnalysisKeyOpts) string {
	return k.prefix + k.inner.AnalysisKey(snapshotHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(snapshotHash, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Full SHA-256 (64 hex chars) to prevent collisions
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
