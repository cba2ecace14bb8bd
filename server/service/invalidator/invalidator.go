// Package invalidator keeps the cache coherent with the database after writes.
//
// The cache holds no secondary index from a label or note id back to the list
// keys that mention it, so the set of affected keys cannot be derived from a
// key alone. Instead every write path collects the affected ids before
// mutating (a note's current labels, a label's current notes) and hands them
// to the coordinator, which fans the eviction out over every derived key.
package invalidator

import (
	"context"
	"log/slog"

	"github.com/usefundoo/fundoo/store/cache"
)

// Coordinator derives and evicts the cache keys affected by a mutation.
// Evictions are best-effort: the underlying write has already committed, so a
// failed eviction only means reads may stay stale until the TTL runs out.
type Coordinator struct {
	cache cache.Store
}

// New creates a coordinator over the given cache store.
func New(cacheStore cache.Store) *Coordinator {
	return &Coordinator{cache: cacheStore}
}

// OnNoteMutated evicts every key a note mutation can affect: all filtered
// list keys of the owner, the note's detail key, and the notes-by-label key
// of every label attached to the note at mutation time. A nil noteID is used
// for creations, where no detail read can have been cached yet.
func (c *Coordinator) OnNoteMutated(ctx context.Context, ownerID int32, noteID *int32, labelIDs []int32) {
	keys := noteListKeys(ownerID)
	if noteID != nil {
		keys = append(keys, NoteDetailKey(ownerID, *noteID))
	}
	for _, labelID := range labelIDs {
		keys = append(keys, NotesByLabelKey(ownerID, labelID))
	}
	c.evict(ctx, keys)
}

// OnLabelMutated evicts the owner's label list and the label's notes-by-label
// key. When the mutation touched notes linked to the label, the per-note
// eviction set is applied as well, without re-reading the notes.
func (c *Coordinator) OnLabelMutated(ctx context.Context, ownerID, labelID int32, noteIDs []int32) {
	keys := []string{
		LabelListKey(ownerID),
		NotesByLabelKey(ownerID, labelID),
	}
	if len(noteIDs) > 0 {
		for _, noteID := range noteIDs {
			keys = append(keys, NoteDetailKey(ownerID, noteID))
		}
		keys = append(keys, noteListKeys(ownerID)...)
	}
	c.evict(ctx, keys)
}

// evict removes each key, continuing past individual failures. Cache
// unavailability degrades to stale reads, never to failed writes.
func (c *Coordinator) evict(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := c.cache.Remove(ctx, key); err != nil {
			slog.Warn("failed to evict cache key", "key", key, "error", err)
		}
	}
}
