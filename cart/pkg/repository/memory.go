package repository

import (
	"context"
	"sync"

	"github.com/velvetlane/storefront/cart/pkg/store"
)

// Memory keeps carts in process memory. Suitable for tests and single
// process deployments only.
type Memory struct {
	carts map[string]store.State
	mu    sync.Mutex
}

func NewMemory() *Memory {
	return &Memory{carts: map[string]store.State{}}
}

func (m *Memory) Load(_ context.Context, sessionID string) (store.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.carts[sessionID], nil
}

func (m *Memory) Save(_ context.Context, sessionID string, state store.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[sessionID] = state
	return nil
}

func (m *Memory) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}
