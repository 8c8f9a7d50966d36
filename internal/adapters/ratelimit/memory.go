package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"
)

// bucket is one in-memory token bucket.
type bucket struct {
	tokens    float64
	updatedAt time.Time
}

// MemoryStore is a mutex-guarded in-process bucket store. It backs
// single-instance deployments and serves as the fallback when Redis is
// down.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the store's time source. Tests use this to step
// through refill intervals without sleeping.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Take implements Store.
func (s *MemoryStore) Take(_ context.Context, key string, policy Policy) (float64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(policy.Limit), updatedAt: now}
		s.buckets[key] = b
	}

	elapsed := now.Sub(b.updatedAt)
	if elapsed > 0 {
		b.tokens = math.Min(float64(policy.Limit), b.tokens+float64(elapsed.Milliseconds())*policy.ratePerMS())
	}
	b.updatedAt = now

	if b.tokens < 1 {
		return b.tokens, false, nil
	}
	b.tokens--
	return b.tokens, true, nil
}

// Len returns the number of tracked buckets.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// Prune drops buckets that have been idle long enough to refill
// completely. Callers run it periodically to bound memory.
func (s *MemoryStore) Prune(policy Policy) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-policy.Window)
	dropped := 0
	for key, b := range s.buckets {
		if b.updatedAt.Before(cutoff) {
			delete(s.buckets, key)
			dropped++
		}
	}
	return dropped
}
