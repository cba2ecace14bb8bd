package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_BasicOperations(t *testing.T) {
	s := NewMemoryStore(MemoryConfig{})
	defer s.Close()
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "key1", []byte("value1"), DefaultTTLPolicy()))

		val, ok := s.Get(ctx, "key1")
		assert.True(t, ok)
		assert.Equal(t, []byte("value1"), val)
	})

	t.Run("GetNonExistent", func(t *testing.T) {
		val, ok := s.Get(ctx, "nonexistent")
		assert.False(t, ok)
		assert.Nil(t, val)
	})

	t.Run("UpdateExisting", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "key2", []byte("original"), DefaultTTLPolicy()))
		require.NoError(t, s.Set(ctx, "key2", []byte("updated"), DefaultTTLPolicy()))

		val, ok := s.Get(ctx, "key2")
		assert.True(t, ok)
		assert.Equal(t, []byte("updated"), val)
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "key3", []byte("value3"), DefaultTTLPolicy()))
		require.NoError(t, s.Remove(ctx, "key3"))

		_, ok := s.Get(ctx, "key3")
		assert.False(t, ok)
	})

	t.Run("RemoveAbsent", func(t *testing.T) {
		assert.NoError(t, s.Remove(ctx, "never-set"))
	})
}

func TestMemoryStore_SlidingExpiration(t *testing.T) {
	s := NewMemoryStore(MemoryConfig{})
	defer s.Close()
	ctx := context.Background()

	policy := TTLPolicy{Absolute: 500 * time.Millisecond, Sliding: 100 * time.Millisecond}
	require.NoError(t, s.Set(ctx, "sliding", []byte("v"), policy))

	// Without reads the entry dies at the end of the sliding window.
	time.Sleep(150 * time.Millisecond)
	_, ok := s.Get(ctx, "sliding")
	assert.False(t, ok)

	// Reads inside the window keep renewing it.
	require.NoError(t, s.Set(ctx, "renewed", []byte("v"), policy))
	for i := 0; i < 5; i++ {
		time.Sleep(60 * time.Millisecond)
		_, ok := s.Get(ctx, "renewed")
		require.True(t, ok, "read %d should renew the sliding window", i)
	}

	// The absolute cap wins regardless of read pattern: 5*60ms has passed,
	// keep reading until the cap is exceeded.
	time.Sleep(250 * time.Millisecond)
	_, ok = s.Get(ctx, "renewed")
	assert.False(t, ok, "entry must not outlive the absolute cap")
}

func TestMemoryStore_AbsoluteOnly(t *testing.T) {
	s := NewMemoryStore(MemoryConfig{})
	defer s.Close()
	ctx := context.Background()

	// No sliding window: the entry lives exactly until the absolute deadline.
	policy := TTLPolicy{Absolute: 100 * time.Millisecond}
	require.NoError(t, s.Set(ctx, "abs", []byte("v"), policy))

	_, ok := s.Get(ctx, "abs")
	assert.True(t, ok)

	time.Sleep(120 * time.Millisecond)
	_, ok = s.Get(ctx, "abs")
	assert.False(t, ok)
}

func TestMemoryStore_CleanupExpired(t *testing.T) {
	s := NewMemoryStore(MemoryConfig{CleanupInterval: time.Hour})
	defer s.Close()
	ctx := context.Background()

	policy := TTLPolicy{Absolute: 30 * time.Millisecond}
	require.NoError(t, s.Set(ctx, "a", []byte("1"), policy))
	require.NoError(t, s.Set(ctx, "b", []byte("2"), policy))
	require.NoError(t, s.Set(ctx, "c", []byte("3"), DefaultTTLPolicy()))

	time.Sleep(50 * time.Millisecond)

	removed := s.cleanupExpired()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, s.Size())
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s := NewMemoryStore(MemoryConfig{})
	defer s.Close()
	ctx := context.Background()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				_ = s.Set(ctx, "shared", []byte("v"), DefaultTTLPolicy())
				s.Get(ctx, "shared")
				_ = s.Remove(ctx, "shared")
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
