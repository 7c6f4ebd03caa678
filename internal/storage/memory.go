package storage

import (
	"context"
	"sync"
)

// MemoryStorage keeps slots in process memory. Used for tests and ephemeral runs.
type MemoryStorage struct {
	mu        sync.RWMutex
	namespace string
	slots     map[string][]byte
}

func NewMemoryStorage(namespace string) *MemoryStorage {
	return &MemoryStorage{
		namespace: namespace,
		slots:     make(map[string][]byte),
	}
}

func (m *MemoryStorage) Get(_ context.Context, slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.slots[slot]
	if !ok {
		return nil, ErrSlotNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryStorage) Set(_ context.Context, slot string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	m.slots[slot] = v
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, slots ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range slots {
		delete(m.slots, s)
	}
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
