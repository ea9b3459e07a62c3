// Package ratelimit implements fixed-window request rate limiting. Counters
// live in Redis when one is configured, otherwise in process memory; both
// stores share the Limiter on top.
package ratelimit

import (
	"context"
	"time"
)

// Store counts hits against a key within a fixed window. Incr returns the
// count including the current hit; the first hit of a window starts its TTL.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (int, error)
}

// Limiter applies a fixed-window limit over a Store
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
}

// NewLimiter creates a limiter allowing limit hits per window per key
func NewLimiter(store Store, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}

	return &Limiter{
		store:  store,
		limit:  limit,
		window: window,
	}
}

// Allow records a hit for key and reports whether it is within the limit.
// retryAfter is how long until the current window expires; it is only
// meaningful when allowed is false. Store errors fail open: a broken counter
// backend should degrade limiting, not take down the API.
func (l *Limiter) Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error) {
	count, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		return true, 0, err
	}

	if count > l.limit {
		return false, l.window, nil
	}
	return true, 0, nil
}

// Window returns the limiter's window size
func (l *Limiter) Window() time.Duration {
	return l.window
}
