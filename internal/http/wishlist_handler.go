package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
)

type WishlistService interface {
	Add(ctx context.Context, productID string) error
	Remove(ctx context.Context, productID string) (bool, error)
	Entries() []domain.WishlistEntry
}

type WishlistHandler struct {
	responder
	wishlist WishlistService
	timeout  time.Duration
}

func NewWishlistHandler(wishlist WishlistService, timeout time.Duration, logger *zap.Logger) *WishlistHandler {
	return &WishlistHandler{
		responder: responder{logger: logger},
		wishlist:  wishlist,
		timeout:   timeout,
	}
}

type WishlistResponse struct {
	Items []domain.WishlistEntry `json:"items"`
}

func (h *WishlistHandler) response() WishlistResponse {
	entries := h.wishlist.Entries()
	if entries == nil {
		entries = []domain.WishlistEntry{}
	}
	return WishlistResponse{Items: entries}
}

func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.response())
}

func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.wishlist.Add(ctx, chi.URLParam(r, "product_id")); err != nil {
		h.handleError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, h.response())
}

func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	removed, err := h.wishlist.Remove(ctx, chi.URLParam(r, "product_id"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	if !removed {
		h.respondError(w, http.StatusNotFound, "not_found", "product is not in the wishlist")
		return
	}
	h.respondJSON(w, http.StatusOK, h.response())
}
