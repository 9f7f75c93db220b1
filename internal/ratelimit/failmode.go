package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"collab-platform/internal/config"
)

// FailOpen wraps a Limiter so that backend errors read as "no record"
// instead of propagating. This is the availability-over-strictness
// tradeoff the credential endpoints rely on: a Redis outage must not
// lock every user out of login. It is a configuration choice, not an
// accident; pass FailModeClosed to get the strict behavior.
type FailOpen struct {
	inner Limiter
	open  bool
	log   *slog.Logger
}

func Wrap(inner Limiter, cfg config.RateLimitConfig, log *slog.Logger) *FailOpen {
	return &FailOpen{
		inner: inner,
		open:  cfg.FailMode != config.FailModeClosed,
		log:   log,
	}
}

func (f *FailOpen) Get(ctx context.Context, key string) (int64, error) {
	n, err := f.inner.Get(ctx, key)
	if err != nil && f.open {
		f.warn("get", key, err)
		return 0, nil
	}
	return n, err
}

func (f *FailOpen) Incr(ctx context.Context, key string) (int64, error) {
	n, err := f.inner.Incr(ctx, key)
	if err != nil && f.open {
		f.warn("incr", key, err)
		return 0, nil
	}
	return n, err
}

func (f *FailOpen) Expire(ctx context.Context, key string, window time.Duration) error {
	err := f.inner.Expire(ctx, key, window)
	if err != nil && f.open {
		f.warn("expire", key, err)
		return nil
	}
	return err
}

func (f *FailOpen) Clear(ctx context.Context, key string) error {
	err := f.inner.Clear(ctx, key)
	if err != nil && f.open {
		f.warn("clear", key, err)
		return nil
	}
	return err
}

func (f *FailOpen) warn(op, key string, err error) {
	if f.log != nil {
		f.log.Warn("rate limiter backend error", "op", op, "key", key, "err", err)
	}
}
