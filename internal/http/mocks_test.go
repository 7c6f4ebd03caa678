package http

import (
	"context"
	"sync"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/catalog"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/checkout"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/session"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/taxonomy"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/tracking"
)

type MockCatalog struct {
	products []domain.Product
	Filters  []catalog.Filter
	Err      error
}

func (m *MockCatalog) Products(_ context.Context, f catalog.Filter) []domain.Product {
	m.Filters = append(m.Filters, f)
	return m.products
}

func (m *MockCatalog) Product(_ context.Context, id string) (domain.Product, error) {
	if m.Err != nil {
		return domain.Product{}, m.Err
	}
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, catalog.ErrProductNotFound
}

func (m *MockCatalog) Categories(_ context.Context) []domain.Category {
	return []domain.Category{{Name: "Almonds"}}
}

func (m *MockCatalog) Nav(_ context.Context) []taxonomy.NavItem {
	return taxonomy.NavOrder([]string{"Almonds"})
}

func (m *MockCatalog) Home(ctx context.Context) catalog.Home {
	return catalog.Home{Products: m.products}
}

type MockSession struct {
	mu        sync.Mutex
	state     session.State
	identity  domain.Identity
	LoginErr  error
	LogoutErr error
	Logins    int

	RegisterErr    error
	RegisterSignIn bool
	Registered     []string
}

func (m *MockSession) State() session.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *MockSession) IsAuthenticated() bool {
	return m.State() == session.Authenticated
}

func (m *MockSession) Identity() domain.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity
}

func (m *MockSession) Login(_ context.Context, identifier, _ string) (session.LoginResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logins++
	if m.LoginErr != nil {
		return session.LoginResult{}, m.LoginErr
	}
	m.state = session.Authenticated
	m.identity = domain.Identity{Email: identifier}
	return session.LoginResult{Identity: m.identity, SignedIn: true}, nil
}

func (m *MockSession) Register(_ context.Context, email, password string) (session.LoginResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(password) < session.MinPasswordLength {
		return session.LoginResult{}, session.ErrWeakPassword
	}
	if m.RegisterErr != nil {
		return session.LoginResult{}, m.RegisterErr
	}
	m.Registered = append(m.Registered, email)
	identity := domain.Identity{Email: email}
	if m.RegisterSignIn {
		m.state = session.Authenticated
		m.identity = identity
	}
	return session.LoginResult{Identity: identity, SignedIn: m.RegisterSignIn}, nil
}

func (m *MockSession) Logout(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = session.Anonymous
	m.identity = domain.Identity{}
	return m.LogoutErr
}

func (m *MockSession) SaveProfile(_ context.Context, update domain.IdentityUpdate) (domain.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != session.Authenticated {
		return domain.Identity{}, session.ErrNotAuthenticated
	}
	m.identity = update.Apply(m.identity)
	return m.identity, nil
}

type MockCheckout struct {
	Receipt checkout.Receipt
	Err     error
}

func (m *MockCheckout) Place(_ context.Context) (checkout.Receipt, error) {
	return m.Receipt, m.Err
}

type MockTracker struct {
	Err error
}

func (m *MockTracker) Track(_ context.Context, orderID string) (tracking.Status, error) {
	if m.Err != nil {
		return tracking.Status{}, m.Err
	}
	return tracking.StatusOf(domain.Order{ID: orderID, TrackingStage: "Shipped"}), nil
}

type MockHistory struct {
	Rows []tracking.OrderSummary
	Err  error
}

func (m *MockHistory) Orders(_ context.Context) ([]tracking.OrderSummary, error) {
	return m.Rows, m.Err
}

type MockNewsletter struct {
	mu     sync.Mutex
	Emails []string
	Err    error
}

func (m *MockNewsletter) Subscribe(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Emails = append(m.Emails, email)
	return nil
}
