// Package cache provides the byte caches used by the layout pipeline.
//
// Computing a layout is cheap, but rendering PNG and PDF artifacts is not,
// and the HTTP server answers the same scene many times. Every stage of the
// pipeline therefore stores its serialized output under a key derived from
// a hash of its input plus the options that influence it.
//
// # Backends
//
//   - [FileCache]: sharded JSON files under a directory, used by the CLI
//   - [RedisCache]: a shared Redis instance, used by the server
//   - [NullCache]: stores nothing, used when caching is disabled
//
// # Keys
//
// A [Keyer] builds the keys. [DefaultKeyer] hashes the options into the
// key; [ScopedKeyer] prefixes another keyer's keys with a namespace.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads with an optional time-to-live.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the payload stored under key. A miss is reported by
	// ok == false with a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Time-to-live of each pipeline stage.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
