package cache

import (
	"context"
	"encoding/json"
	"log/slog"
)

// GetOrSet is the read-through primitive used by every cache-aware read path.
// A live entry for key is decoded and returned without invoking compute.
// On a miss, compute produces the canonical value from the authoritative
// store; the result is cached under the given policy and returned.
//
// A compute error propagates and nothing is cached. Cache failures, including
// undecodable entries, degrade to a plain compute: the cache never fails the
// caller. Concurrent misses may compute redundantly; compute must therefore
// be idempotent, which holds for plain database reads.
func GetOrSet[T any](ctx context.Context, store Store, key string, policy TTLPolicy, compute func(ctx context.Context) (T, error)) (T, error) {
	var value T

	if data, ok := store.Get(ctx, key); ok {
		if err := json.Unmarshal(data, &value); err == nil {
			return value, nil
		}
		// An entry written by an incompatible version; fall through to the
		// authoritative store.
		slog.Warn("discarding undecodable cache entry", "key", key)
	}

	value, err := compute(ctx)
	if err != nil {
		return value, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("failed to marshal value for cache", "key", key, "error", err)
		return value, nil
	}
	if err := store.Set(ctx, key, data, policy); err != nil {
		slog.Warn("failed to set cache value", "key", key, "error", err)
	}

	return value, nil
}
