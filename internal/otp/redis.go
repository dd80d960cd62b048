package otp

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp:v1:"

// compare-and-delete; returns 1 when the stored value matched.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("DEL", KEYS[1])
	return 1
end
return 0
`)

// RedisRegistry keeps codes in Redis with a per-key expiry so every API
// instance sees the same state.
type RedisRegistry struct {
	cache *redis.Client
	ttl   time.Duration
}

// NewRedisRegistry builds a Redis-backed registry whose codes live for ttl.
func NewRedisRegistry(cache *redis.Client, ttl time.Duration) *RedisRegistry {
	return &RedisRegistry{cache: cache, ttl: ttl}
}

func (r *RedisRegistry) Issue(ctx context.Context, phone, code string) error {
	if err := r.cache.Set(ctx, keyPrefix+phone, code, r.ttl).Err(); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	return nil
}

func (r *RedisRegistry) Consume(ctx context.Context, phone, code string) error {
	if code == "" {
		return ErrInvalidCode
	}
	matched, err := consumeScript.Run(ctx, r.cache, []string{keyPrefix + phone}, code).Int()
	if err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	if matched != 1 {
		return ErrInvalidCode
	}
	return nil
}
