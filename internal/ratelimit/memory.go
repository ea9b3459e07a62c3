package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MemoryStore is an in-process fixed-window counter store. Counters are
// bucketed by window start time, so a key's count resets naturally when the
// window rolls over. A background janitor removes stale buckets.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	count     int
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory counter store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Incr increments the counter for key in its current window
func (s *MemoryStore) Incr(ctx context.Context, key string, window time.Duration) (int, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[key]
	if !ok || !now.Before(b.expiresAt) {
		b = &bucket{expiresAt: now.Add(window)}
		s.buckets[key] = b
	}

	b.count++
	return b.count, nil
}

// StartJanitor begins a background loop that sweeps expired buckets until the
// context is cancelled
func (s *MemoryStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go s.run(ctx, interval)
}

func (s *MemoryStore) run(ctx context.Context, interval time.Duration) {
	slog.Info("rate limit janitor started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("rate limit janitor stopped")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int
	for key, b := range s.buckets {
		if !now.Before(b.expiresAt) {
			delete(s.buckets, key)
			removed++
		}
	}

	if removed > 0 {
		slog.Debug("swept expired rate limit buckets", "count", removed)
	}
}
