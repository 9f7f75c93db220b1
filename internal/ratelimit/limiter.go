package ratelimit

import (
	"context"
	"time"
)

// Limiter is a dumb counter-with-expiry primitive keyed by
// "scope:identity" strings. It knows nothing about which endpoints it
// throttles; thresholds, scopes and block windows are composed by
// callers, so two endpoints can apply different policy without touching
// this package.
//
// Counter lifecycle: created on first Incr, expires after the window set
// by Expire, removed early by Clear on success.
type Limiter interface {
	// Get returns the current count for key, 0 if absent.
	Get(ctx context.Context, key string) (int64, error)
	// Incr atomically increments key and returns the new count.
	Incr(ctx context.Context, key string) (int64, error)
	// Expire sets the block window after which the counter resets.
	Expire(ctx context.Context, key string, window time.Duration) error
	// Clear removes the counter.
	Clear(ctx context.Context, key string) error
}
