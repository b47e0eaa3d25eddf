package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindow increments the counter for the current window and sets its
// expiry on first use. Returns the count after the increment.
var fixedWindow = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// RedisLimiter shares a fixed-window budget across every API instance
type RedisLimiter struct {
	client   redis.UniversalClient
	prefix   string
	limit    int64
	window   time.Duration
	failOpen bool
}

// NewRedisLimiter allows burst requests per window, where the window is
// sized so the long-run average matches requestsPerSecond.
func NewRedisLimiter(client redis.UniversalClient, prefix string, requestsPerSecond float64, burst int) *RedisLimiter {
	if burst < 1 {
		burst = 1
	}
	window := time.Second
	if requestsPerSecond > 0 {
		window = time.Duration(math.Ceil(float64(burst) / requestsPerSecond * float64(time.Second)))
	}
	if window < time.Millisecond {
		window = time.Millisecond
	}
	return &RedisLimiter{
		client:   client,
		prefix:   prefix,
		limit:    int64(burst),
		window:   window,
		failOpen: true,
	}
}

// Window returns the length of one counting window
func (r *RedisLimiter) Window() time.Duration { return r.window }

// Allow counts one request for key in the current window.
// When Redis is unreachable the request is allowed and the error returned.
func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := time.Now().UnixNano() / int64(r.window)
	redisKey := fmt.Sprintf("%sratelimit:%s:%d", r.prefix, key, slot)

	count, err := fixedWindow.Run(ctx, r.client, []string{redisKey}, r.window.Milliseconds()).Int64()
	if err != nil {
		return r.failOpen, fmt.Errorf("redis rate limit: %w", err)
	}
	return count <= r.limit, nil
}

// Name returns "redis"
func (r *RedisLimiter) Name() string { return "redis" }
