package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// MemoryLimiter keeps one token bucket per key in process memory
type MemoryLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

// NewMemoryLimiter creates a limiter refilling requestsPerSecond tokens up to burst
func NewMemoryLimiter(requestsPerSecond float64, burst int) *MemoryLimiter {
	return &MemoryLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

func (m *MemoryLimiter) getLimiter(key string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	limiter, exists := m.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(m.rate, m.burst)
		m.limiters[key] = limiter
	}
	return limiter
}

// Allow takes one token from key's bucket
func (m *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return m.getLimiter(key).Allow(), nil
}

// Name returns "memory"
func (m *MemoryLimiter) Name() string { return "memory" }

// Cleanup drops buckets that have refilled completely. Returns how many were removed.
func (m *MemoryLimiter) Cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, limiter := range m.limiters {
		if limiter.Tokens() >= float64(m.burst) {
			delete(m.limiters, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys
func (m *MemoryLimiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.limiters)
}
