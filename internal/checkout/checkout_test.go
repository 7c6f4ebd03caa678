package checkout

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/cart"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/storage"
)

type MockSession struct {
	AuthToken string
	Who       domain.Identity
}

func (m *MockSession) IsAuthenticated() bool     { return m.AuthToken != "" }
func (m *MockSession) Token() string             { return m.AuthToken }
func (m *MockSession) Identity() domain.Identity { return m.Who }

type MockOrders struct {
	OrderID string
	Err     error
	Token   string
	Items   []domain.OrderItem
	Total   decimal.Decimal
	Calls   int
}

func (m *MockOrders) CreateOrder(_ context.Context, token string, items []domain.OrderItem, total decimal.Decimal) (string, error) {
	m.Calls++
	m.Token = token
	m.Items = items
	m.Total = total
	if m.Err != nil {
		return "", m.Err
	}
	return m.OrderID, nil
}

func setupCheckout(t *testing.T, token string) (*Service, *cart.Store, *MockOrders) {
	t.Helper()
	store := cart.NewStore(context.Background(), storage.NewMemoryStorage("test"), nil, func() string { return "" }, zap.NewNop())
	sess := &MockSession{AuthToken: token, Who: domain.Identity{
		Email:    "asha@example.com",
		FullName: "Asha Rao",
		Phone:    "9876543210",
		Address:  "12 MG Road",
		City:     "Chennai",
		State:    "TN",
		Pincode:  "600001",
	}}
	orders := &MockOrders{OrderID: "ORD-1001"}
	return New(store, sess, orders, "", zap.NewNop()), store, orders
}

func addProduct(t *testing.T, c *cart.Store, id, name string, price int64, qty int) {
	t.Helper()
	p := domain.Product{ID: id, Name: name, Category: "Almonds", Price: decimal.NewFromInt(price)}
	require.NoError(t, c.AddItem(context.Background(), p, qty, "250g"))
}

func TestShipping(t *testing.T) {
	assert.True(t, decimal.NewFromInt(50).Equal(Shipping(decimal.NewFromInt(500))))
	assert.True(t, decimal.NewFromInt(50).Equal(Shipping(decimal.Zero)))
	assert.True(t, decimal.Zero.Equal(Shipping(decimal.NewFromInt(501))))
}

func TestPlace_RequiresAuthentication(t *testing.T) {
	svc, c, orders := setupCheckout(t, "")
	addProduct(t, c, "A", "Almonds", 100, 1)

	_, err := svc.Place(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, orders.Calls)
}

func TestPlace_RejectsEmptyCart(t *testing.T) {
	svc, _, orders := setupCheckout(t, "tok")

	_, err := svc.Place(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, orders.Calls)
}

func TestPlace_AddsShippingAndClearsCart(t *testing.T) {
	svc, c, orders := setupCheckout(t, "tok")
	addProduct(t, c, "A", "Almonds", 200, 2)

	r, err := svc.Place(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ORD-1001", r.OrderID)
	assert.True(t, decimal.NewFromInt(400).Equal(r.Subtotal))
	assert.True(t, decimal.NewFromInt(50).Equal(r.Shipping))
	assert.True(t, decimal.NewFromInt(450).Equal(r.Total))
	assert.True(t, decimal.NewFromInt(450).Equal(orders.Total))
	assert.Equal(t, "tok", orders.Token)
	require.Len(t, orders.Items, 1)
	assert.Equal(t, 2, orders.Items[0].Quantity)
	assert.Empty(t, c.Lines())
}

func TestPlace_FreeShippingAbove500(t *testing.T) {
	svc, c, _ := setupCheckout(t, "tok")
	addProduct(t, c, "A", "Almonds", 300, 2)

	r, err := svc.Place(context.Background())
	require.NoError(t, err)
	assert.True(t, decimal.Zero.Equal(r.Shipping))
	assert.True(t, decimal.NewFromInt(600).Equal(r.Total))
}

func TestPlace_FailureKeepsCart(t *testing.T) {
	svc, c, orders := setupCheckout(t, "tok")
	orders.Err = errors.New("boom")
	addProduct(t, c, "A", "Almonds", 100, 1)

	_, err := svc.Place(context.Background())
	require.Error(t, err)
	assert.Len(t, c.Lines(), 1)
}

func TestPlace_WhatsAppLink(t *testing.T) {
	svc, c, _ := setupCheckout(t, "tok")
	addProduct(t, c, "A", "Almonds", 100, 2)

	r, err := svc.Place(context.Background())
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(r.WhatsAppURL, "https://wa.me/918778699084?text="))
	u, err := url.Parse(r.WhatsAppURL)
	require.NoError(t, err)
	text := u.Query().Get("text")
	assert.Contains(t, text, "*New Order: ORD-1001*")
	assert.Contains(t, text, "*Customer:* Asha Rao")
	assert.Contains(t, text, "*Phone:* 9876543210")
	assert.Contains(t, text, "*Address:* 12 MG Road, Chennai, TN - 600001")
	assert.Contains(t, text, "• 2x Almonds (250g)")
	assert.Contains(t, text, "*Total Value:* ₹250")
	assert.NotContains(t, r.WhatsAppURL, "+")
}

func TestMessage_Fallbacks(t *testing.T) {
	msg := Message("X", domain.Identity{Email: "a@b.c"}, []domain.OrderItem{{Name: "Dates", Quantity: 1}}, decimal.NewFromInt(50))
	assert.Contains(t, msg, "*Customer:* a@b.c")
	assert.Contains(t, msg, "*Phone:* N/A")
	assert.Contains(t, msg, "• 1x Dates (Standard)")
}
