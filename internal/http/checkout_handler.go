package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/checkout"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/tracking"
)

type CheckoutService interface {
	Place(ctx context.Context) (checkout.Receipt, error)
}

type OrderTracker interface {
	Track(ctx context.Context, orderID string) (tracking.Status, error)
}

type OrderHistory interface {
	Orders(ctx context.Context) ([]tracking.OrderSummary, error)
}

type OrdersHandler struct {
	responder
	checkout CheckoutService
	tracker  OrderTracker
	history  OrderHistory
	timeout  time.Duration
}

func NewOrdersHandler(c CheckoutService, t OrderTracker, history OrderHistory, timeout time.Duration, logger *zap.Logger) *OrdersHandler {
	return &OrdersHandler{
		responder: responder{logger: logger},
		checkout:  c,
		tracker:   t,
		history:   history,
		timeout:   timeout,
	}
}

func (h *OrdersHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	receipt, err := h.checkout.Place(ctx)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, receipt)
}

func (h *OrdersHandler) Track(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status, err := h.tracker.Track(ctx, chi.URLParam(r, "order_id"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, status)
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.history.Orders(ctx)
	if err != nil {
		h.handleError(w, err)
		return
	}
	if orders == nil {
		orders = []tracking.OrderSummary{}
	}
	h.respondJSON(w, http.StatusOK, orders)
}
