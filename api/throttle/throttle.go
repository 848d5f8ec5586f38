package throttle

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Prefix of the throttle keys on redis.
const keyPrefix = "lookup"

// RedisClient is the subset of the redis client used by the throttle.
type RedisClient interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// RedisThrottle rejects repeated lookups of the same name inside a window.
type RedisThrottle struct {
	redis  RedisClient
	window time.Duration
}

// NewRedisThrottle creates the throttle.
func NewRedisThrottle(client RedisClient, window time.Duration) *RedisThrottle {
	return &RedisThrottle{
		redis:  client,
		window: window,
	}
}

// Allow returns zero when the lookup can proceed, or how long to wait.
func (rt *RedisThrottle) Allow(ctx context.Context, name string) (time.Duration, error) {
	if rt.window <= 0 {
		return 0, nil
	}

	key := createKey(name)
	lockAcquired, err := rt.redis.SetNX(ctx, key, "processing", rt.window).Result()
	if err != nil {
		return 0, fmt.Errorf("couldn't check the throttle on redis: %w", err)
	}
	if lockAcquired {
		return 0, nil
	}

	ttl, err := rt.redis.TTL(ctx, key).Result()
	if err != nil {
		return rt.window, nil
	}

	switch {
	case ttl == -2:
		// Expired between both calls.
		return 0, nil
	case ttl <= 0:
		// No expiration set, should never happen with SetNX.
		return rt.window, nil
	default:
		return ttl, nil
	}
}

// Key for a name, case and surrounding whitespace don't matter.
func createKey(name string) string {
	hasher := sha256.New()
	hasher.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	return fmt.Sprintf("%s:%s", keyPrefix, hex.EncodeToString(hasher.Sum(nil)))
}
