package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is an in-process Limiter for tests and local
// development. Expiry is evaluated lazily on access.
type MemoryLimiter struct {
	mu sync.Mutex

	counts  map[string]int64
	expires map[string]time.Time

	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		counts:  map[string]int64{},
		expires: map[string]time.Time{},
		clock:   time.Now,
	}
}

// SetClock overrides the limiter clock (tests only).
func (l *MemoryLimiter) SetClock(clock func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clock = clock
}

func (l *MemoryLimiter) Get(ctx context.Context, key string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reapLocked(key)
	return l.counts[key], nil
}

func (l *MemoryLimiter) Incr(ctx context.Context, key string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reapLocked(key)
	l.counts[key]++
	if _, ok := l.expires[key]; !ok {
		l.expires[key] = l.clock().Add(defaultWindow)
	}
	return l.counts[key], nil
}

func (l *MemoryLimiter) Expire(ctx context.Context, key string, window time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.counts[key]; ok {
		l.expires[key] = l.clock().Add(window)
	}
	return nil
}

func (l *MemoryLimiter) Clear(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.counts, key)
	delete(l.expires, key)
	return nil
}

func (l *MemoryLimiter) reapLocked(key string) {
	if exp, ok := l.expires[key]; ok && !l.clock().Before(exp) {
		delete(l.counts, key)
		delete(l.expires, key)
	}
}
