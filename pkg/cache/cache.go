// Package cache provides caching for loaded flow graphs and rendered
// artifacts.
//
// # Overview
//
// Rendering is deterministic: the same graph with the same options always
// produces the same bytes. That makes both stages cacheable - loaded
// graphs are keyed by their source ref, rendered artifacts by graph hash
// plus render options.
//
// # Backends
//
//   - [FileCache]: persistent, for CLI usage (~/.cache/flowviz)
//   - [RedisCache]: shared, for the preview server
//   - [NullCache]: disabled caching, for tests and --refresh
//
// All backends implement the [Cache] interface and store opaque bytes
// with a TTL.
//
// # Keys
//
// The [Keyer] interface generates keys for the three key spaces: HTTP
// responses fetched while loading remote sources, decoded graphs, and
// rendered artifacts. [ScopedKeyer] prefixes another keyer for
// multi-tenant isolation.
package cache

import (
	"context"
	"time"
)

// TTLs applied when storing entries. Graphs go stale faster than
// artifacts: an upstream flow may re-export at any time, while artifacts
// are content-addressed by graph hash.
const (
	TTLGraph    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss;
// the error is reserved for backend failures. Set stores data with a
// TTL; ttl <= 0 means no expiration. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ArtifactKeyOpts captures the render options that change output bytes.
// Two renders with equal graph hash and equal opts are interchangeable.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Vertical bool   `json:"vertical"`
	Curvy    bool   `json:"curvy"`
}

// Keyer generates cache keys. Implementations must be deterministic:
// equal inputs yield equal keys across processes, or shared backends
// like Redis would never hit.
type Keyer interface {
	// HTTPKey keys a raw HTTP response fetched while loading a source.
	HTTPKey(namespace, key string) string

	// GraphKey keys a loaded flow graph by its source ref.
	GraphKey(ref string) string

	// ArtifactKey keys one rendered artifact of a graph.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme. HTTP keys stay readable for
// debugging; graph and artifact keys hash their inputs since refs can be
// long URLs.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// GraphKey generates a key for a loaded flow graph.
func (k *DefaultKeyer) GraphKey(ref string) string {
	return hashKey("graph", ref)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
