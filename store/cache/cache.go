// Package cache provides the key/value cache used by the read paths of the
// service. The cache is a pass-through accelerator in front of the database:
// it may be unavailable or stale without affecting correctness, so every
// operation here is best-effort from the caller's point of view.
package cache

import (
	"context"
	"time"
)

// TTLPolicy governs how long a cached entry remains valid. Absolute is the
// hard ceiling measured from the write; Sliding is a renewable window that a
// read extends, never past the absolute cap. A zero Sliding disables renewal.
type TTLPolicy struct {
	Absolute time.Duration
	Sliding  time.Duration
}

// DefaultTTLPolicy is the policy used by list and detail read paths.
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		Absolute: 20 * time.Minute,
		Sliding:  2 * time.Minute,
	}
}

// Store defines the cache store interface. Implementations must be safe for
// unbounded concurrent use; no locking is performed around them.
type Store interface {
	// Get retrieves a value from cache.
	// Returns: value, whether a live entry exists.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value in cache under the given TTL policy.
	Set(ctx context.Context, key string, value []byte, policy TTLPolicy) error

	// Remove evicts a key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
