package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/checkout"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
)

type CartService interface {
	AddItem(ctx context.Context, p domain.Product, quantity int, variant string) error
	RemoveItem(ctx context.Context, productID, variant string) (bool, error)
	UpdateQuantity(ctx context.Context, productID, variant string, quantity int) error
	Clear(ctx context.Context) error
	Lines() []domain.CartLine
	Total() decimal.Decimal
	Count() int
}

type ProductFinder interface {
	Product(ctx context.Context, id string) (domain.Product, error)
}

type CartHandler struct {
	responder
	cart     CartService
	products ProductFinder
	timeout  time.Duration
}

func NewCartHandler(cart CartService, products ProductFinder, timeout time.Duration, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		responder: responder{logger: logger},
		cart:      cart,
		products:  products,
		timeout:   timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Variant   string `json:"variant"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Items    []domain.CartLine `json:"items"`
	Count    int               `json:"count"`
	Subtotal decimal.Decimal   `json:"subtotal"`
	Shipping decimal.Decimal   `json:"shipping"`
	Total    decimal.Decimal   `json:"total"`
}

func (h *CartHandler) cartResponse() CartResponse {
	lines := h.cart.Lines()
	if lines == nil {
		lines = []domain.CartLine{}
	}
	subtotal := h.cart.Total()
	shipping := decimal.Zero
	if len(lines) > 0 {
		shipping = checkout.Shipping(subtotal)
	}
	return CartResponse{
		Items:    lines,
		Count:    h.cart.Count(),
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal.Add(shipping),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if !h.decodeJSON(w, r, &req) {
		return
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		h.respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 || req.Quantity > 99 {
		h.respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	p, err := h.products.Product(ctx, req.ProductID)
	if err != nil {
		h.handleError(w, err)
		return
	}
	if err := h.cart.AddItem(ctx, p, req.Quantity, req.Variant); err != nil {
		h.handleError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, h.cartResponse())
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	var req UpdateQuantityRequestDTO
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity < 1 || req.Quantity > 99 {
		h.respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	if err := h.cart.UpdateQuantity(ctx, productID, r.URL.Query().Get("variant"), req.Quantity); err != nil {
		h.handleError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	removed, err := h.cart.RemoveItem(ctx, productID, r.URL.Query().Get("variant"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	if !removed {
		h.respondError(w, http.StatusNotFound, "not_found", "cart line not found")
		return
	}

	h.respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.cart.Clear(ctx); err != nil {
		h.handleError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, h.cartResponse())
}
