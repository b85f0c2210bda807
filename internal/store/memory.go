package store

import (
	"context"
	"sync"
)

// Memory is an in-process KV. It is ready immediately and is the store fake
// the service tests inject.
type Memory struct {
	mu    sync.Mutex
	data  map[Key][]byte
	ready chan struct{}
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	ready := make(chan struct{})
	close(ready)
	return &Memory{
		data:  make(map[Key][]byte),
		ready: ready,
	}
}

func (m *Memory) Ready() <-chan struct{} { return m.ready }

func (m *Memory) Err() error { return nil }

func (m *Memory) Read(_ context.Context, key Key) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

func (m *Memory) Write(_ context.Context, key Key, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(payload))
	copy(stored, payload)
	m.data[key] = stored
	return nil
}
