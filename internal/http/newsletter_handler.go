package http

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Newsletter interface {
	Subscribe(ctx context.Context, email string) error
}

type NewsletterHandler struct {
	responder
	newsletter Newsletter
	timeout    time.Duration
}

func NewNewsletterHandler(n Newsletter, timeout time.Duration, logger *zap.Logger) *NewsletterHandler {
	return &NewsletterHandler{
		responder:  responder{logger: logger},
		newsletter: n,
		timeout:    timeout,
	}
}

type SubscribeRequestDTO struct {
	Email string `json:"email"`
}

func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SubscribeRequestDTO
	if !h.decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_email", "a valid email is required")
		return
	}

	if err := h.newsletter.Subscribe(ctx, req.Email); err != nil {
		h.handleError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"email": req.Email, "status": "subscribed"})
}
