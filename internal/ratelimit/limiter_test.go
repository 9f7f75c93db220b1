package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"collab-platform/internal/config"
)

func TestMemoryLimiter_CountAndClear(t *testing.T) {
	l := NewMemoryLimiter()
	ctx := context.Background()

	n, err := l.Get(ctx, "login_attempts:1.2.3.4")
	if err != nil || n != 0 {
		t.Fatalf("expected 0 for absent key, got %d err=%v", n, err)
	}

	for i := int64(1); i <= 3; i++ {
		n, err = l.Incr(ctx, "login_attempts:1.2.3.4")
		if err != nil || n != i {
			t.Fatalf("incr %d: got %d err=%v", i, n, err)
		}
	}

	if err := l.Clear(ctx, "login_attempts:1.2.3.4"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	n, _ = l.Get(ctx, "login_attempts:1.2.3.4")
	if n != 0 {
		t.Fatalf("expected 0 after clear, got %d", n)
	}
}

func TestMemoryLimiter_WindowExpiry(t *testing.T) {
	l := NewMemoryLimiter()
	ctx := context.Background()

	now := time.Unix(1700000000, 0)
	l.SetClock(func() time.Time { return now })

	_, _ = l.Incr(ctx, "k")
	if err := l.Expire(ctx, "k", 10*time.Minute); err != nil {
		t.Fatalf("expire: %v", err)
	}

	now = now.Add(9 * time.Minute)
	if n, _ := l.Get(ctx, "k"); n != 1 {
		t.Fatalf("expected counter alive inside window, got %d", n)
	}

	now = now.Add(2 * time.Minute)
	if n, _ := l.Get(ctx, "k"); n != 0 {
		t.Fatalf("expected counter expired after window, got %d", n)
	}
}

type failingLimiter struct{ err error }

func (f failingLimiter) Get(ctx context.Context, key string) (int64, error)  { return 0, f.err }
func (f failingLimiter) Incr(ctx context.Context, key string) (int64, error) { return 0, f.err }
func (f failingLimiter) Expire(ctx context.Context, key string, w time.Duration) error {
	return f.err
}
func (f failingLimiter) Clear(ctx context.Context, key string) error { return f.err }

func TestWrap_FailOpenSwallowsBackendErrors(t *testing.T) {
	ctx := context.Background()
	backendErr := errors.New("redis down")

	open := Wrap(failingLimiter{err: backendErr}, config.RateLimitConfig{FailMode: config.FailModeOpen}, nil)
	if n, err := open.Get(ctx, "k"); err != nil || n != 0 {
		t.Fatalf("fail-open get: n=%d err=%v", n, err)
	}
	if _, err := open.Incr(ctx, "k"); err != nil {
		t.Fatalf("fail-open incr: %v", err)
	}
	if err := open.Clear(ctx, "k"); err != nil {
		t.Fatalf("fail-open clear: %v", err)
	}

	closed := Wrap(failingLimiter{err: backendErr}, config.RateLimitConfig{FailMode: config.FailModeClosed}, nil)
	if _, err := closed.Get(ctx, "k"); !errors.Is(err, backendErr) {
		t.Fatalf("fail-closed should propagate backend error, got %v", err)
	}
}
