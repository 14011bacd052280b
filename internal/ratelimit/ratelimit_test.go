package ratelimit

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryFixedWindow(t *testing.T) {
	c := context.Background()
	limiter := NewMemory(3, 100*time.Millisecond)

	for i := range 3 {
		allowed, _, err := limiter.Allow(c, "client")
		assert.NoError(t, err)
		assert.True(t, allowed, "submission %d within the limit should be allowed", i+1)
	}

	allowed, retryAfter, err := limiter.Allow(c, "client")
	assert.NoError(t, err)
	assert.False(t, allowed, "submission over the limit should be rejected")
	assert.Greater(t, retryAfter, time.Duration(0))

	time.Sleep(120 * time.Millisecond)

	allowed, _, err = limiter.Allow(c, "client")
	assert.NoError(t, err)
	assert.True(t, allowed, "submission after the window elapsed should be allowed")
}

func TestMemoryKeysAreIndependent(t *testing.T) {
	c := context.Background()
	limiter := NewMemory(1, time.Minute)

	allowed, _, _ := limiter.Allow(c, "first")
	assert.True(t, allowed)
	allowed, _, _ = limiter.Allow(c, "first")
	assert.False(t, allowed)

	allowed, _, _ = limiter.Allow(c, "second")
	assert.True(t, allowed, "another client key should have its own bucket")
}

func TestClientKey(t *testing.T) {
	r := httptest.NewRequest("POST", "/orders", nil)
	r.RemoteAddr = "10.0.0.7:53231"
	assert.Equal(t, "10.0.0.7|session-a", ClientKey(r, "session-a"))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9|session-a", ClientKey(r, "session-a"))
}
