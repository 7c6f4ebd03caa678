package http

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/session"
)

type SessionService interface {
	State() session.State
	IsAuthenticated() bool
	Identity() domain.Identity
	Login(ctx context.Context, identifier, password string) (session.LoginResult, error)
	Register(ctx context.Context, email, password string) (session.LoginResult, error)
	Logout(ctx context.Context) error
	SaveProfile(ctx context.Context, update domain.IdentityUpdate) (domain.Identity, error)
}

type SessionHandler struct {
	responder
	session SessionService
	timeout time.Duration
}

func NewSessionHandler(sess SessionService, timeout time.Duration, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		responder: responder{logger: logger},
		session:   sess,
		timeout:   timeout,
	}
}

type LoginRequestDTO struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type RegisterRequestDTO struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type SessionResponse struct {
	State    string           `json:"state"`
	Identity *domain.Identity `json:"identity,omitempty"`
}

func (h *SessionHandler) response() SessionResponse {
	resp := SessionResponse{State: h.session.State().String()}
	if h.session.IsAuthenticated() {
		id := h.session.Identity()
		resp.Identity = &id
	}
	return resp
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.response())
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req LoginRequestDTO
	if !h.decodeJSON(w, r, &req) {
		return
	}
	req.Identifier = strings.TrimSpace(req.Identifier)
	if req.Identifier == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "invalid_request", "identifier and password are required")
		return
	}

	res, err := h.session.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, res)
}

// Register creates an account. confirm_password is checked only when sent.
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req RegisterRequestDTO
	if !h.decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_email", "a valid email is required")
		return
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		h.respondError(w, http.StatusBadRequest, "password_mismatch", "passwords do not match")
		return
	}

	res, err := h.session.Register(ctx, req.Email, req.Password)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, res)
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.session.Logout(ctx); err != nil {
		h.handleError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, h.response())
}

func (h *SessionHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var update domain.IdentityUpdate
	if !h.decodeJSON(w, r, &update) {
		return
	}
	identity, err := h.session.SaveProfile(ctx, update)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, SessionResponse{State: h.session.State().String(), Identity: &identity})
}
