package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryConfig configures the in-process cache store.
type MemoryConfig struct {
	CleanupInterval time.Duration // Interval for expired entry cleanup (default: 1 minute)
}

type memoryEntry struct {
	value      []byte
	sliding    time.Duration
	expiresAt  time.Time // next expiry, renewed by reads when sliding is set
	absoluteAt time.Time // hard ceiling, never moves
}

func (e *memoryEntry) expired(now time.Time) bool {
	return now.After(e.expiresAt) || now.After(e.absoluteAt)
}

// MemoryStore is an in-process Store implementation. It is the default
// backend for single-instance deployments; multi-instance deployments should
// use the Redis backend so evictions are shared.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMemoryStore creates a memory store and starts its cleanup goroutine.
func NewMemoryStore(cfg MemoryConfig) *MemoryStore {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		ctx:     ctx,
		cancel:  cancel,
	}

	s.wg.Add(1)
	go s.cleanupLoop(cfg.CleanupInterval)

	return s
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}

	now := time.Now()
	if e.expired(now) {
		delete(s.entries, key)
		return nil, false
	}

	// Renew the sliding window, capped by the absolute deadline.
	if e.sliding > 0 {
		next := now.Add(e.sliding)
		if next.After(e.absoluteAt) {
			next = e.absoluteAt
		}
		e.expiresAt = next
	}

	return e.value, true
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, policy TTLPolicy) error {
	if policy.Absolute <= 0 {
		policy = DefaultTTLPolicy()
	}

	now := time.Now()
	e := &memoryEntry{
		value:      value,
		sliding:    policy.Sliding,
		absoluteAt: now.Add(policy.Absolute),
	}
	e.expiresAt = e.absoluteAt
	if policy.Sliding > 0 && policy.Sliding < policy.Absolute {
		e.expiresAt = now.Add(policy.Sliding)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = e
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Size returns the number of entries, including not-yet-collected expired ones.
func (s *MemoryStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.cleanupExpired()
		}
	}
}

func (s *MemoryStore) cleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	count := 0
	for key, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, key)
			count++
		}
	}
	return count
}

var _ Store = (*MemoryStore)(nil)
