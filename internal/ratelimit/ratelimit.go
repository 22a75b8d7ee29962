package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a sliding-window rate limiter keyed by caller identity.
// A single instance is shared across requests; construct it once at
// startup and inject it where limits apply.
type Limiter struct {
	mu     sync.Mutex
	window time.Duration
	hits   map[string][]time.Time

	now func() time.Time
}

// NewLimiter creates a Limiter with the given window. A zero or negative
// window defaults to one minute.
func NewLimiter(window time.Duration) *Limiter {
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow records a hit for key and reports whether it stays within limit
// hits per window. Calls beyond the limit are not recorded, so a rejected
// caller does not extend its own penalty.
func (l *Limiter) Allow(key string, limit int) bool {
	if limit <= 0 {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= limit {
		l.hits[key] = kept
		return false
	}
	l.hits[key] = append(kept, now)
	return true
}

// Sweep drops keys whose hits have all aged out of the window. Run it
// periodically to bound memory on long-lived processes.
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	for key, times := range l.hits {
		live := false
		for _, t := range times {
			if t.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(l.hits, key)
		}
	}
}
