package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrScript increments the counter and stamps a TTL if the key has
// none. Doing both in Lua keeps increment-with-expiry atomic: a crash
// between INCR and PEXPIRE cannot leave an immortal counter behind.
var incrScript = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if redis.call('PTTL', KEYS[1]) < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return current
`)

// defaultWindow bounds counters whose caller never sets an explicit
// window. Prevents leaked keys, not policy.
const defaultWindow = time.Hour

// RedisLimiter stores counters in Redis.
type RedisLimiter struct {
	client *redis.Client
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client}
}

func (l *RedisLimiter) Get(ctx context.Context, key string) (int64, error) {
	n, err := l.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}

func (l *RedisLimiter) Incr(ctx context.Context, key string) (int64, error) {
	return incrScript.Run(ctx, l.client, []string{key}, defaultWindow.Milliseconds()).Int64()
}

func (l *RedisLimiter) Expire(ctx context.Context, key string, window time.Duration) error {
	return l.client.PExpire(ctx, key, window).Err()
}

func (l *RedisLimiter) Clear(ctx context.Context, key string) error {
	return l.client.Del(ctx, key).Err()
}
