package session

import (
	"context"
	"errors"
	"sync"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/backend"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/outbox"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/storage"
)

type MockBackend struct {
	mu sync.Mutex

	LoginResult backend.LoginResult
	LoginErr    error
	// LoginGate, when set, blocks Login until it is closed.
	LoginGate chan struct{}
	Entered   chan struct{}

	RegisterResult backend.LoginResult
	RegisterErr    error
	Registered     []string

	RemoteCart  []domain.CartLine
	CartErr     error
	RemoteWish  []domain.WishlistEntry
	WishErr     error
	ProfileResp domain.Identity
	ProfileErr  error
	UpdateErr   error

	Updates       []domain.IdentityUpdate
	WishlistCalls int
}

func (m *MockBackend) Login(ctx context.Context, _, _ string) (backend.LoginResult, error) {
	if m.Entered != nil {
		m.Entered <- struct{}{}
	}
	if m.LoginGate != nil {
		select {
		case <-m.LoginGate:
		case <-ctx.Done():
			return backend.LoginResult{}, ctx.Err()
		}
	}
	return m.LoginResult, m.LoginErr
}

func (m *MockBackend) Register(_ context.Context, email, _ string) (backend.LoginResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Registered = append(m.Registered, email)
	return m.RegisterResult, m.RegisterErr
}

func (m *MockBackend) Cart(context.Context, string) ([]domain.CartLine, error) {
	return m.RemoteCart, m.CartErr
}

func (m *MockBackend) Wishlist(context.Context, string) ([]domain.WishlistEntry, error) {
	m.mu.Lock()
	m.WishlistCalls++
	m.mu.Unlock()
	return m.RemoteWish, m.WishErr
}

func (m *MockBackend) Profile(context.Context, string) (domain.Identity, error) {
	return m.ProfileResp, m.ProfileErr
}

func (m *MockBackend) UpdateProfile(_ context.Context, _ string, u domain.IdentityUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.Updates = append(m.Updates, u)
	return nil
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

var errDiskFull = errors.New("disk full")

// failOnSlot wraps a memory store and rejects writes to one slot.
type failOnSlot struct {
	*storage.MemoryStorage

	mu   sync.Mutex
	slot string
}

func (f *failOnSlot) failOn(slot string) {
	f.mu.Lock()
	f.slot = slot
	f.mu.Unlock()
}

func (f *failOnSlot) Set(ctx context.Context, slot string, value []byte) error {
	f.mu.Lock()
	fail := f.slot != "" && f.slot == slot
	f.mu.Unlock()
	if fail {
		return errDiskFull
	}
	return f.MemoryStorage.Set(ctx, slot, value)
}
