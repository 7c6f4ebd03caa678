package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/backend"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/cart"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/checkout"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/session"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/storage"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/tracking"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/wishlist"
)

type testGateway struct {
	handler    http.Handler
	cart       *cart.Store
	catalog    *MockCatalog
	session    *MockSession
	checkout   *MockCheckout
	tracker    *MockTracker
	history    *MockHistory
	newsletter *MockNewsletter
}

func setupGateway(t *testing.T) *testGateway {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStorage("test")
	g := &testGateway{
		cart:       cart.NewStore(ctx, store, nil, func() string { return "" }, zap.NewNop()),
		session:    &MockSession{},
		checkout:   &MockCheckout{},
		tracker:    &MockTracker{},
		history:    &MockHistory{},
		newsletter: &MockNewsletter{},
	}
	g.catalog = &MockCatalog{products: []domain.Product{
		{ID: "almonds-1", Name: "California Almonds", Category: "Almonds", Price: decimal.NewFromInt(300),
			Prices: map[string]decimal.Decimal{"500g": decimal.NewFromInt(560)}},
	}}
	g.handler = NewRouter(Services{
		Cart:       g.cart,
		Wishlist:   wishlist.NewStore(ctx, store, zap.NewNop()),
		Session:    g.session,
		Catalog:    g.catalog,
		Checkout:   g.checkout,
		Tracker:    g.tracker,
		History:    g.history,
		Newsletter: g.newsletter,
	}, RouterConfig{RequestTimeout: 5 * time.Second}, zap.NewNop())
	return g
}

func (g *testGateway) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	g.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	g := setupGateway(t)
	rec := g.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCart_AddUpdateRemove(t *testing.T) {
	g := setupGateway(t)

	rec := g.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "almonds-1", Quantity: 2, Variant: "500g"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp CartResponse
	decode(t, rec, &resp)
	require.Len(t, resp.Items, 1)
	assert.True(t, decimal.NewFromInt(1120).Equal(resp.Subtotal))
	assert.True(t, decimal.Zero.Equal(resp.Shipping))

	rec = g.do(t, http.MethodPut, "/api/v1/cart/items/almonds-1?variant=500g", UpdateQuantityRequestDTO{Quantity: 5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &resp)
	assert.Equal(t, 5, resp.Count)

	rec = g.do(t, http.MethodDelete, "/api/v1/cart/items/almonds-1?variant=250g", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = g.do(t, http.MethodDelete, "/api/v1/cart/items/almonds-1?variant=500g", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	assert.Empty(t, resp.Items)
	assert.Empty(t, g.cart.Lines())
}

func TestCart_Validation(t *testing.T) {
	g := setupGateway(t)

	rec := g.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "almonds-1", Quantity: 100})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = g.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "saffron", Quantity: 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = g.do(t, http.MethodPut, "/api/v1/cart/items/almonds-1", UpdateQuantityRequestDTO{Quantity: 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("{"))
	rr := httptest.NewRecorder()
	g.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var errResp ErrorResponse
	decode(t, rr, &errResp)
	assert.Equal(t, "invalid_request", errResp.Code)
}

func TestCart_ShippingBelowThreshold(t *testing.T) {
	g := setupGateway(t)
	rec := g.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "almonds-1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp CartResponse
	decode(t, rec, &resp)
	assert.True(t, decimal.NewFromInt(50).Equal(resp.Shipping))
	assert.True(t, decimal.NewFromInt(350).Equal(resp.Total))

	rec = g.do(t, http.MethodDelete, "/api/v1/cart/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	assert.True(t, decimal.Zero.Equal(resp.Total))
}

func TestWishlist(t *testing.T) {
	g := setupGateway(t)

	rec := g.do(t, http.MethodPut, "/api/v1/wishlist/almonds-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = g.do(t, http.MethodPut, "/api/v1/wishlist/almonds-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp WishlistResponse
	decode(t, rec, &resp)
	assert.Len(t, resp.Items, 1)

	rec = g.do(t, http.MethodDelete, "/api/v1/wishlist/almonds-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = g.do(t, http.MethodDelete, "/api/v1/wishlist/almonds-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSession_LoginFlow(t *testing.T) {
	g := setupGateway(t)

	rec := g.do(t, http.MethodGet, "/api/v1/session/", nil)
	var resp SessionResponse
	decode(t, rec, &resp)
	assert.Equal(t, "anonymous", resp.State)
	assert.Nil(t, resp.Identity)

	rec = g.do(t, http.MethodPatch, "/api/v1/session/", map[string]string{"phone": "123"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = g.do(t, http.MethodPost, "/api/v1/session/login", LoginRequestDTO{Identifier: "asha@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = g.do(t, http.MethodPost, "/api/v1/session/login", LoginRequestDTO{Identifier: "asha@example.com", Password: "pw"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = g.do(t, http.MethodPatch, "/api/v1/session/", map[string]string{"phone": "123"})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	require.NotNil(t, resp.Identity)
	assert.Equal(t, "123", resp.Identity.Phone)

	rec = g.do(t, http.MethodPost, "/api/v1/session/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	assert.Equal(t, "anonymous", resp.State)
}

func TestSession_LoginErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"rejected", &session.LoginError{Reason: "Invalid credentials", Err: &backend.APIError{Status: 401, Detail: "Invalid credentials"}}, http.StatusUnauthorized},
		{"unreachable", &session.LoginError{Reason: session.ReasonNetworkError, Err: fmt.Errorf("dial: %w", backend.ErrUnreachable)}, http.StatusServiceUnavailable},
		{"in progress", session.ErrLoginInProgress, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := setupGateway(t)
			g.session.LoginErr = tt.err

			rec := g.do(t, http.MethodPost, "/api/v1/session/login", LoginRequestDTO{Identifier: "a", Password: "b"})
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestCheckout(t *testing.T) {
	g := setupGateway(t)

	rec := g.do(t, http.MethodPost, "/api/v1/checkout", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	g.session.state = session.Authenticated
	g.checkout.Err = checkout.ErrEmptyCart
	rec = g.do(t, http.MethodPost, "/api/v1/checkout", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	g.checkout.Err = nil
	g.checkout.Receipt = checkout.Receipt{OrderID: "ORD-9", WhatsAppURL: "https://wa.me/1?text=x"}
	rec = g.do(t, http.MethodPost, "/api/v1/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var receipt checkout.Receipt
	decode(t, rec, &receipt)
	assert.Equal(t, "ORD-9", receipt.OrderID)
}

func TestTracking(t *testing.T) {
	g := setupGateway(t)

	rec := g.do(t, http.MethodGet, "/api/v1/orders/ORD-1/tracking", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var st tracking.Status
	decode(t, rec, &st)
	assert.Equal(t, 3, st.Step)
	assert.Len(t, st.Steps, 5)

	g.tracker.Err = fmt.Errorf("failed to get order: %w", &backend.APIError{Status: http.StatusNotFound, Detail: "Order not found"})
	rec = g.do(t, http.MethodGet, "/api/v1/orders/ORD-404/tracking", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	g.tracker.Err = fmt.Errorf("failed to get order: %w", backend.ErrUnreachable)
	rec = g.do(t, http.MethodGet, "/api/v1/orders/ORD-1/tracking", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCatalogAndTaxonomy(t *testing.T) {
	g := setupGateway(t)

	rec := g.do(t, http.MethodGet, "/api/v1/catalog/products?category=almonds&q=california", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var products []domain.Product
	decode(t, rec, &products)
	assert.Len(t, products, 1)

	rec = g.do(t, http.MethodGet, "/api/v1/catalog/products/almonds-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail ProductDetailResponse
	decode(t, rec, &detail)
	require.Len(t, detail.Variants, 1)
	assert.Equal(t, "500g", detail.Variants[0].Size)

	rec = g.do(t, http.MethodGet, "/api/v1/catalog/products/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = g.do(t, http.MethodGet, "/api/v1/taxonomy/normalize?name=Malt/Drink", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var norm map[string]interface{}
	decode(t, rec, &norm)
	assert.Equal(t, "malt-drink", norm["slug"])

	rec = g.do(t, http.MethodGet, "/api/v1/catalog/categories", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = g.do(t, http.MethodGet, "/api/v1/catalog/nav", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCart_AddWhileBackendDown(t *testing.T) {
	g := setupGateway(t)
	g.catalog.Err = fmt.Errorf("failed to load products: %w", backend.ErrUnreachable)

	rec := g.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "almonds-1", Quantity: 1})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, g.cart.Lines())

	rec = g.do(t, http.MethodGet, "/api/v1/catalog/products/almonds-1", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSession_Register(t *testing.T) {
	g := setupGateway(t)

	rec := g.do(t, http.MethodPost, "/api/v1/session/register", RegisterRequestDTO{Email: "not-an-email", Password: "secret1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = g.do(t, http.MethodPost, "/api/v1/session/register",
		RegisterRequestDTO{Email: "new@example.com", Password: "secret1", ConfirmPassword: "secret2"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = g.do(t, http.MethodPost, "/api/v1/session/register", RegisterRequestDTO{Email: "new@example.com", Password: "123"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp ErrorResponse
	decode(t, rec, &errResp)
	assert.Equal(t, "weak_password", errResp.Code)

	g.session.RegisterSignIn = true
	rec = g.do(t, http.MethodPost, "/api/v1/session/register",
		RegisterRequestDTO{Email: "new@example.com", Password: "secret1", ConfirmPassword: "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res session.LoginResult
	decode(t, rec, &res)
	assert.True(t, res.SignedIn)
	assert.Equal(t, []string{"new@example.com"}, g.session.Registered)
	assert.True(t, g.session.IsAuthenticated())
}

func TestSession_RegisterRejected(t *testing.T) {
	g := setupGateway(t)
	g.session.RegisterErr = &session.LoginError{
		Reason: "Email already registered",
		Err:    &backend.APIError{Status: http.StatusBadRequest, Detail: "Email already registered"},
	}

	rec := g.do(t, http.MethodPost, "/api/v1/session/register", RegisterRequestDTO{Email: "asha@example.com", Password: "secret1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp ErrorResponse
	decode(t, rec, &errResp)
	assert.Equal(t, "Email already registered", errResp.Error)
}

func TestOrders_History(t *testing.T) {
	g := setupGateway(t)

	rec := g.do(t, http.MethodGet, "/api/v1/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	g.session.state = session.Authenticated
	rec = g.do(t, http.MethodGet, "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	order := domain.Order{ID: "ORD-1", TrackingStage: domain.StageDelivered}
	g.history.Rows = []tracking.OrderSummary{{Order: order, Status: tracking.StatusOf(order)}}
	rec = g.do(t, http.MethodGet, "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []tracking.OrderSummary
	decode(t, rec, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "ORD-1", rows[0].Order.ID)
	assert.True(t, rows[0].Status.Final)

	g.history.Err = fmt.Errorf("failed to list orders: %w", backend.ErrUnreachable)
	rec = g.do(t, http.MethodGet, "/api/v1/orders", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSubscribe(t *testing.T) {
	g := setupGateway(t)

	rec := g.do(t, http.MethodPost, "/api/v1/subscribe", SubscribeRequestDTO{Email: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = g.do(t, http.MethodPost, "/api/v1/subscribe", SubscribeRequestDTO{Email: " asha@example.com "})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"asha@example.com"}, g.newsletter.Emails)

	g.newsletter.Err = fmt.Errorf("failed to subscribe: %w", &backend.APIError{Status: http.StatusBadRequest, Detail: "Already subscribed"})
	rec = g.do(t, http.MethodPost, "/api/v1/subscribe", SubscribeRequestDTO{Email: "asha@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
