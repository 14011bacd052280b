package verifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	KEY_CLEARED_SESSIONS = "cleared-sessions:%s"

	// A checkout session is long dead after a day, the guard key does not
	// need to live longer.
	guardTTL = 24 * time.Hour
)

// MemoryGuard tracks cleared checkout sessions in process memory.
type MemoryGuard struct {
	cleared map[string]struct{}
	mu      sync.Mutex
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{cleared: map[string]struct{}{}}
}

func (g *MemoryGuard) FirstClear(_ context.Context, checkoutSessionID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.cleared[checkoutSessionID]; ok {
		return false, nil
	}
	g.cleared[checkoutSessionID] = struct{}{}
	return true, nil
}

// RedisGuard backs the guard with SETNX so concurrent polls hitting
// different processes still clear the cart once.
type RedisGuard struct {
	client *redis.Client
}

func NewRedisGuard(client *redis.Client) *RedisGuard {
	return &RedisGuard{client: client}
}

func (g *RedisGuard) FirstClear(c context.Context, checkoutSessionID string) (bool, error) {
	first, err := g.client.SetNX(c, fmt.Sprintf(KEY_CLEARED_SESSIONS, checkoutSessionID), 1, guardTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed setting clear guard with error=%w", err)
	}
	return first, nil
}
