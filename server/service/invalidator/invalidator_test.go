package invalidator

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usefundoo/fundoo/store/cache"
)

// recordingStore tracks removals and can fail selected keys.
type recordingStore struct {
	mu       sync.Mutex
	data     map[string][]byte
	removed  []string
	failKeys map[string]bool
}

func newRecordingStore() *recordingStore {
	return &recordingStore{
		data:     map[string][]byte{},
		failKeys: map[string]bool{},
	}
}

func (r *recordingStore) Get(_ context.Context, key string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.data[key]
	return v, ok
}

func (r *recordingStore) Set(_ context.Context, key string, value []byte, _ cache.TTLPolicy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = value
	return nil
}

func (r *recordingStore) Remove(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, key)
	if r.failKeys[key] {
		return errors.New("cache unreachable")
	}
	delete(r.data, key)
	return nil
}

func (r *recordingStore) fill(keys ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		r.data[k] = []byte("cached")
	}
}

func TestKeyScheme(t *testing.T) {
	tr, fa := true, false

	assert.Equal(t, "labels:1", LabelListKey(1))
	assert.Equal(t, "notes:1:10", NoteDetailKey(1, 10))
	assert.Equal(t, "notes:1:5", NotesByLabelKey(1, 5))
	assert.Equal(t, "notes:1:null:null", NoteListKey(1, nil, nil))
	assert.Equal(t, "notes:1:true:false", NoteListKey(1, &tr, &fa))
	assert.Equal(t, "notes:1:false:true", NoteListKey(1, &fa, &tr))
	assert.Equal(t, "notes:1:false:false", NoteListKey(1, &fa, &fa))
}

func TestOnNoteMutated_Completeness(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	affected := []string{
		"notes:1:null:null",
		"notes:1:true:false",
		"notes:1:false:true",
		"notes:1:false:false",
		"notes:1:10",
		"notes:1:5",
		"notes:1:6",
	}
	store.fill(affected...)
	store.fill("notes:2:null:null", "labels:1") // other owner and label list stay

	noteID := int32(10)
	New(store).OnNoteMutated(ctx, 1, &noteID, []int32{5, 6})

	for _, key := range affected {
		_, ok := store.Get(ctx, key)
		assert.False(t, ok, "key %s must be evicted", key)
	}
	_, ok := store.Get(ctx, "notes:2:null:null")
	assert.True(t, ok, "another owner's keys must survive")
	_, ok = store.Get(ctx, "labels:1")
	assert.True(t, ok, "note mutations do not touch the label list")
}

func TestOnNoteMutated_CreateWithoutDetailKey(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	store.fill("notes:1:null:null")

	New(store).OnNoteMutated(ctx, 1, nil, nil)

	_, ok := store.Get(ctx, "notes:1:null:null")
	require.False(t, ok)
	// Only the four list keys were derived.
	assert.Len(t, store.removed, 4)
}

func TestOnLabelMutated_Completeness(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	affected := []string{
		"labels:1",
		"notes:1:5",
		"notes:1:10",
		"notes:1:11",
		"notes:1:null:null",
		"notes:1:true:false",
		"notes:1:false:true",
		"notes:1:false:false",
	}
	store.fill(affected...)

	New(store).OnLabelMutated(ctx, 1, 5, []int32{10, 11})

	for _, key := range affected {
		_, ok := store.Get(ctx, key)
		assert.False(t, ok, "key %s must be evicted", key)
	}
}

func TestOnLabelMutated_NoLinkedNotes(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	store.fill("labels:1", "notes:1:5", "notes:1:null:null")

	New(store).OnLabelMutated(ctx, 1, 5, nil)

	_, ok := store.Get(ctx, "labels:1")
	assert.False(t, ok)
	_, ok = store.Get(ctx, "notes:1:5")
	assert.False(t, ok)
	// Without affected notes the filtered lists are left alone.
	_, ok = store.Get(ctx, "notes:1:null:null")
	assert.True(t, ok)
}

func TestEvictionIsBestEffort(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	store.fill("notes:1:null:null", "notes:1:true:false", "notes:1:false:true", "notes:1:false:false", "notes:1:10")
	store.failKeys["notes:1:true:false"] = true

	noteID := int32(10)
	New(store).OnNoteMutated(ctx, 1, &noteID, nil)

	// The failing key did not stop the rest of the fan-out.
	assert.Len(t, store.removed, 5)
	_, ok := store.Get(ctx, "notes:1:10")
	assert.False(t, ok)
	_, ok = store.Get(ctx, "notes:1:false:false")
	assert.False(t, ok)
}
