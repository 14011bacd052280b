package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const KEY_RATE_BUCKETS = "rate-buckets:%s"

// incrementBucket bumps the window counter and stamps the TTL in the same
// round trip, so a crash between the two can never leave a counter that
// outlives its window.
var incrementBucket = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// Redis is a fixed-window limiter backed by a shared counter so the limit
// holds across processes. The first hit in a window creates the key with the
// window as its TTL; expiry is the window reset.
type Redis struct {
	cache  *redis.Client
	limit  int
	window time.Duration
}

func NewRedis(cache *redis.Client, limit int, window time.Duration) *Redis {
	return &Redis{cache: cache, limit: limit, window: window}
}

func (l *Redis) Allow(c context.Context, key string) (bool, time.Duration, error) {
	cacheKey := fmt.Sprintf(KEY_RATE_BUCKETS, key)

	count, err := incrementBucket.Run(c, l.cache, []string{cacheKey}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, 0, fmt.Errorf("failed incrementing rate bucket with error=%w", err)
	}

	if count > int64(l.limit) {
		retryAfter, err := l.cache.TTL(c, cacheKey).Result()
		if err != nil || retryAfter < 0 {
			retryAfter = l.window
		}
		return false, retryAfter, nil
	}

	return true, 0, nil
}
