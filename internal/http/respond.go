package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/backend"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/cart"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/catalog"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/checkout"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/session"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/tracking"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/wishlist"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// responder is embedded by every handler for JSON output.
type responder struct {
	logger *zap.Logger
}

func (h responder) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (h responder) respondError(w http.ResponseWriter, status int, code, message string) {
	h.respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

func (h responder) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

// handleError converts storefront errors to HTTP status codes.
func (h responder) handleError(w http.ResponseWriter, err error) {
	var (
		loginErr *session.LoginError
		apiErr   *backend.APIError
	)

	switch {
	case errors.As(err, &loginErr):
		if errors.Is(err, backend.ErrUnreachable) {
			h.respondError(w, http.StatusServiceUnavailable, "service_unavailable", loginErr.Reason)
			return
		}
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusConflict) {
			h.respondError(w, apiErr.Status, "login_failed", loginErr.Reason)
			return
		}
		h.respondError(w, http.StatusUnauthorized, "login_failed", loginErr.Reason)
	case errors.Is(err, cart.ErrInvalidQuantity):
		h.respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, cart.ErrInvalidProduct), errors.Is(err, wishlist.ErrInvalidProduct):
		h.respondError(w, http.StatusBadRequest, "invalid_product_id", err.Error())
	case errors.Is(err, session.ErrWeakPassword):
		h.respondError(w, http.StatusBadRequest, "weak_password", err.Error())
	case errors.Is(err, tracking.ErrOrderIDRequired):
		h.respondError(w, http.StatusBadRequest, "invalid_order_id", err.Error())
	case errors.Is(err, catalog.ErrProductNotFound):
		h.respondError(w, http.StatusNotFound, "product_not_found", "no such product")
	case errors.Is(err, cart.ErrLineNotFound):
		h.respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, session.ErrNotAuthenticated), errors.Is(err, checkout.ErrNotAuthenticated),
		errors.Is(err, tracking.ErrNotAuthenticated):
		h.respondError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, session.ErrLoginInProgress):
		h.respondError(w, http.StatusConflict, "login_in_progress", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		h.respondError(w, http.StatusConflict, "empty_cart", err.Error())
	case backend.IsNotFound(err):
		h.respondError(w, http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, backend.ErrUnreachable):
		h.respondError(w, http.StatusServiceUnavailable, "service_unavailable", "backend unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		h.respondError(w, http.StatusGatewayTimeout, "timeout", "request timed out")
	case errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError:
		h.respondError(w, apiErr.Status, "backend_rejected", apiErr.Error())
	default:
		h.logger.Error("request failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
