package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	windowStart time.Time
	count       int
}

// Memory is a fixed-window limiter held in process memory. The bucket map is
// mutex-guarded because request handlers run concurrently; the window resets
// entirely once it elapses.
type Memory struct {
	buckets map[string]*bucket
	limit   int
	window  time.Duration
	mu      sync.Mutex
}

func NewMemory(limit int, window time.Duration) *Memory {
	return &Memory{
		buckets: map[string]*bucket{},
		limit:   limit,
		window:  window,
	}
}

func (l *Memory) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[key]
	if !ok || now.Sub(b.windowStart) >= l.window {
		l.buckets[key] = &bucket{windowStart: now, count: 1}
		return true, 0, nil
	}

	if b.count >= l.limit {
		retryAfter := l.window - now.Sub(b.windowStart)
		return false, retryAfter, nil
	}

	b.count++
	return true, 0, nil
}
