package cart

import (
	"context"
	"sync"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/outbox"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/storage"
)

type MockSlotStore struct {
	mu     sync.RWMutex
	slots  map[string][]byte
	SetErr error
	GetErr error
	Writes int
}

func NewMockSlotStore() *MockSlotStore {
	return &MockSlotStore{slots: make(map[string][]byte)}
}

func (m *MockSlotStore) Get(_ context.Context, slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	v, ok := m.slots[slot]
	if !ok {
		return nil, storage.ErrSlotNotFound
	}
	return v, nil
}

func (m *MockSlotStore) Set(_ context.Context, slot string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Writes++
	m.slots[slot] = value
	return nil
}

func (m *MockSlotStore) Raw(slot string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return string(m.slots[slot])
}

type MockPublisher struct {
	mu     sync.Mutex
	Events []outbox.Event
}

func (m *MockPublisher) Publish(e outbox.Event) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, e)
	return true
}
