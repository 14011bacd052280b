package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupRedis(t *testing.T, c context.Context) *redis.Client {
	t.Helper()

	redisContainer, err := testRedis.Run(
		c,
		"redis:7.4.2-alpine3.21",
		testRedis.WithLogLevel(testRedis.LogLevelVerbose),
	)
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := redisContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed terminating redis container with error: %s", err)
		}
	})

	redisConnStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}

	redisOpt, err := redis.ParseURL(redisConnStr)
	if err != nil {
		t.Fatalf("failed parsing redis connection string with error: %s", err)
	}

	redisClient := redis.NewClient(redisOpt)
	if err = redisClient.Ping(c).Err(); err != nil {
		t.Fatalf("failed ping redis client with error: %s", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	return redisClient
}

func TestRedisAllowWithinLimit(t *testing.T) {
	c := context.Background()
	limiter := NewRedis(setupRedis(t, c), 3, time.Minute)

	for range 3 {
		allowed, retryAfter, err := limiter.Allow(c, "session-1")
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Zero(t, retryAfter)
	}
}

func TestRedisDeniesOverLimitWithRetryAfter(t *testing.T) {
	c := context.Background()
	limiter := NewRedis(setupRedis(t, c), 2, time.Minute)

	for range 2 {
		allowed, _, err := limiter.Allow(c, "session-1")
		require.NoError(t, err)
		require.True(t, allowed)
	}

	allowed, retryAfter, err := limiter.Allow(c, "session-1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, time.Minute)
}

func TestRedisKeysCountIndependently(t *testing.T) {
	c := context.Background()
	limiter := NewRedis(setupRedis(t, c), 1, time.Minute)

	allowed, _, err := limiter.Allow(c, "session-1")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, _, err = limiter.Allow(c, "session-1")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, _, err = limiter.Allow(c, "session-2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisWindowExpiryReadmits(t *testing.T) {
	c := context.Background()
	limiter := NewRedis(setupRedis(t, c), 1, 200*time.Millisecond)

	allowed, _, err := limiter.Allow(c, "session-1")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, _, err = limiter.Allow(c, "session-1")
	require.NoError(t, err)
	require.False(t, allowed)

	time.Sleep(300 * time.Millisecond)

	allowed, _, err = limiter.Allow(c, "session-1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisFirstHitStampsExpiry(t *testing.T) {
	c := context.Background()
	client := setupRedis(t, c)
	limiter := NewRedis(client, 5, time.Minute)

	_, _, err := limiter.Allow(c, "session-1")
	require.NoError(t, err)

	ttl, err := client.TTL(c, fmt.Sprintf(KEY_RATE_BUCKETS, "session-1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0), "bucket must never live without an expiry")
	assert.LessOrEqual(t, ttl, time.Minute)
}
