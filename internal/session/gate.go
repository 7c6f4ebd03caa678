// Package session tracks who is signed in on this device and cascades sign-in
// and sign-out into the cart and wishlist.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/backend"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/outbox"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/storage"
)

type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

var (
	ErrLoginInProgress  = errors.New("login already in progress")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrWeakPassword     = errors.New("password must be at least 6 characters")
)

// MinPasswordLength is enforced locally before an account is registered.
const MinPasswordLength = 6

// Reasons reported by LoginError when the backend gives no detail.
const (
	ReasonLoginFailed  = "Login failed"
	ReasonNetworkError = "Network error"
)

// LoginError is a rejected or failed login. Reason is safe to show to the user.
type LoginError struct {
	Reason string
	Err    error
}

func (e *LoginError) Error() string {
	return e.Reason
}

func (e *LoginError) Unwrap() error {
	return e.Err
}

// Backend is the part of the REST client the gate uses.
type Backend interface {
	Login(ctx context.Context, identifier, password string) (backend.LoginResult, error)
	Register(ctx context.Context, email, password string) (backend.LoginResult, error)
	Cart(ctx context.Context, token string) ([]domain.CartLine, error)
	Wishlist(ctx context.Context, token string) ([]domain.WishlistEntry, error)
	Profile(ctx context.Context, token string) (domain.Identity, error)
	UpdateProfile(ctx context.Context, token string, update domain.IdentityUpdate) error
}

type Cart interface {
	MergeRemoteHistory(ctx context.Context, remote []domain.CartLine) (int, error)
	Reset()
}

type Wishlist interface {
	Reconcile(ctx context.Context, remote []domain.WishlistEntry) (int, error)
	Reset()
}

type Publisher interface {
	Publish(e outbox.Event) bool
}

type SlotStore interface {
	Get(ctx context.Context, slot string) ([]byte, error)
	Set(ctx context.Context, slot string, value []byte) error
	Delete(ctx context.Context, slots ...string) error
}

// LoginResult reports what a successful login pulled from the backend.
// SignedIn is false only after a registration the backend did not sign in.
type LoginResult struct {
	Identity      domain.Identity `json:"identity"`
	SignedIn      bool            `json:"signed_in"`
	CartAdded     int             `json:"cart_added"`
	WishlistAdded int             `json:"wishlist_added"`
}

type Gate struct {
	mu       sync.RWMutex
	state    State
	token    string
	identity domain.Identity

	storage  SlotStore
	backend  Backend
	cart     Cart
	wishlist Wishlist
	events   Publisher
	logger   *zap.Logger
}

func NewGate(store SlotStore, be Backend, cart Cart, wishlist Wishlist, events Publisher, logger *zap.Logger) *Gate {
	return &Gate{
		state:    Anonymous,
		storage:  store,
		backend:  be,
		cart:     cart,
		wishlist: wishlist,
		events:   events,
		logger:   logger.With(zap.String("component", "session")),
	}
}

func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

func (g *Gate) IsAuthenticated() bool {
	return g.State() == Authenticated
}

// Token returns the session token, or "" when not authenticated.
func (g *Gate) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.state != Authenticated {
		return ""
	}
	return g.token
}

func (g *Gate) Identity() domain.Identity {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.identity
}

// Restore resumes a persisted session. Both the token and the email must be
// present; the token is not validated. The remote wishlist is pulled on success.
func (g *Gate) Restore(ctx context.Context) bool {
	token := g.readString(ctx, storage.SlotAuthToken)
	email := g.readString(ctx, storage.SlotUserEmail)
	if token == "" || email == "" {
		return false
	}

	identity := domain.Identity{
		Email:    email,
		Username: g.readString(ctx, storage.SlotUserName),
		FullName: g.readString(ctx, storage.SlotUserFullName),
	}
	if raw, err := g.storage.Get(ctx, storage.SlotProfileComplete); err == nil {
		_ = json.Unmarshal(raw, &identity.ProfileComplete)
	}

	g.mu.Lock()
	if g.state != Anonymous {
		authenticated := g.state == Authenticated
		g.mu.Unlock()
		return authenticated
	}
	g.state = Authenticated
	g.token = token
	g.identity = identity
	g.mu.Unlock()

	g.logger.Info("session restored", zap.String("email", email))
	g.pullWishlist(ctx, token)
	return true
}

// Login validates the credentials with the backend. On success the session is
// persisted and the remote cart history and wishlist are merged in; failures
// of those pulls are logged and do not fail the login.
func (g *Gate) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	return g.authenticate(ctx, func() (backend.LoginResult, error) {
		return g.backend.Login(ctx, identifier, password)
	})
}

// Register creates an account and signs it in when the backend hands back a
// token. Without a token the gate stays as it was and the caller should log in.
func (g *Gate) Register(ctx context.Context, email, password string) (LoginResult, error) {
	if len(password) < MinPasswordLength {
		return LoginResult{}, ErrWeakPassword
	}
	return g.authenticate(ctx, func() (backend.LoginResult, error) {
		return g.backend.Register(ctx, email, password)
	})
}

func (g *Gate) authenticate(ctx context.Context, call func() (backend.LoginResult, error)) (LoginResult, error) {
	g.mu.Lock()
	if g.state == Authenticating {
		g.mu.Unlock()
		return LoginResult{}, ErrLoginInProgress
	}
	prev := g.state
	g.state = Authenticating
	g.mu.Unlock()

	res, err := call()
	if err != nil {
		g.setState(prev)
		loginErr := toLoginError(err)
		g.logger.Info("login failed", zap.String("reason", loginErr.Reason), zap.Error(err))
		return LoginResult{}, loginErr
	}
	if res.Token == "" {
		g.setState(prev)
		g.logger.Info("registered without session", zap.String("email", res.Identity.Email))
		return LoginResult{Identity: res.Identity}, nil
	}

	if err := g.persistSession(ctx, res.Token, res.Identity); err != nil {
		g.setState(prev)
		return LoginResult{}, err
	}

	g.mu.Lock()
	g.state = Authenticated
	g.token = res.Token
	g.identity = res.Identity
	g.mu.Unlock()
	g.logger.Info("logged in", zap.String("email", res.Identity.Email))

	result := LoginResult{Identity: res.Identity, SignedIn: true}
	result.CartAdded = g.pullCart(ctx, res.Token)
	result.WishlistAdded = g.pullWishlist(ctx, res.Token)
	return result, nil
}

func toLoginError(err error) *LoginError {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		reason := apiErr.Detail
		if reason == "" {
			reason = ReasonLoginFailed
		}
		return &LoginError{Reason: reason, Err: err}
	}
	return &LoginError{Reason: ReasonNetworkError, Err: err}
}

func (g *Gate) setState(s State) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
}

// persistSession writes the identity slots. If any write fails the slots are
// put back the way they were so no half-written session survives a restart.
func (g *Gate) persistSession(ctx context.Context, token string, identity domain.Identity) error {
	prev := g.snapshotSlots(ctx)
	if err := g.writeSession(ctx, token, identity); err != nil {
		g.restoreSlots(ctx, prev)
		return err
	}
	return nil
}

func (g *Gate) writeSession(ctx context.Context, token string, identity domain.Identity) error {
	if err := g.writeJSON(ctx, storage.SlotAuthToken, token); err != nil {
		return err
	}
	if err := g.writeJSON(ctx, storage.SlotUserEmail, identity.Email); err != nil {
		return err
	}
	if err := g.writeJSON(ctx, storage.SlotProfileComplete, identity.ProfileComplete); err != nil {
		return err
	}
	if err := g.writeOptional(ctx, storage.SlotUserName, identity.Username); err != nil {
		return err
	}
	return g.writeOptional(ctx, storage.SlotUserFullName, identity.FullName)
}

// writeOptional stores value, or removes the slot when value is empty so a
// previous user's name does not linger.
func (g *Gate) writeOptional(ctx context.Context, slot, value string) error {
	if value != "" {
		return g.writeJSON(ctx, slot, value)
	}
	if err := g.storage.Delete(ctx, slot); err != nil {
		return fmt.Errorf("failed to clear %s: %w", slot, err)
	}
	return nil
}

func (g *Gate) snapshotSlots(ctx context.Context) map[string][]byte {
	prev := make(map[string][]byte, len(storage.IdentitySlots))
	for _, slot := range storage.IdentitySlots {
		if raw, err := g.storage.Get(ctx, slot); err == nil {
			prev[slot] = raw
		}
	}
	return prev
}

func (g *Gate) restoreSlots(ctx context.Context, prev map[string][]byte) {
	for _, slot := range storage.IdentitySlots {
		var err error
		if raw, ok := prev[slot]; ok {
			err = g.storage.Set(ctx, slot, raw)
		} else {
			err = g.storage.Delete(ctx, slot)
		}
		if err != nil {
			g.logger.Warn("failed to roll back session slot", zap.String("slot", slot), zap.Error(err))
		}
	}
}

func (g *Gate) pullCart(ctx context.Context, token string) int {
	if g.cart == nil {
		return 0
	}
	remote, err := g.backend.Cart(ctx, token)
	if err != nil {
		g.logger.Warn("failed to fetch cart history", zap.Error(err))
		return 0
	}
	added, err := g.cart.MergeRemoteHistory(ctx, remote)
	if err != nil {
		g.logger.Warn("failed to merge cart history", zap.Error(err))
		return 0
	}
	return added
}

func (g *Gate) pullWishlist(ctx context.Context, token string) int {
	if g.wishlist == nil {
		return 0
	}
	remote, err := g.backend.Wishlist(ctx, token)
	if err != nil {
		g.logger.Warn("failed to fetch wishlist", zap.Error(err))
		return 0
	}
	added, err := g.wishlist.Reconcile(ctx, remote)
	if err != nil {
		g.logger.Warn("failed to reconcile wishlist", zap.Error(err))
		return 0
	}
	return added
}

// Logout notifies the backend (best effort), clears the persisted session,
// cart and wishlist, and returns to Anonymous. The in-memory state is cleared
// even when deleting the slots fails.
func (g *Gate) Logout(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.token != "" && g.events != nil {
		g.events.Publish(outbox.NewEvent(outbox.KindLogout, g.token, ""))
	}

	slots := append([]string{storage.SlotCart, storage.SlotWishlist}, storage.IdentitySlots...)
	err := g.storage.Delete(ctx, slots...)

	if g.cart != nil {
		g.cart.Reset()
	}
	if g.wishlist != nil {
		g.wishlist.Reset()
	}
	g.state = Anonymous
	g.token = ""
	g.identity = domain.Identity{}

	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	g.logger.Info("logged out")
	return nil
}

// UpdateIdentity applies update to the signed-in identity. Username, email and
// full name are persisted when they end up non-empty.
func (g *Gate) UpdateIdentity(ctx context.Context, update domain.IdentityUpdate) (domain.Identity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Authenticated {
		return domain.Identity{}, ErrNotAuthenticated
	}
	next := update.Apply(g.identity)

	if next.Username != "" && next.Username != g.identity.Username {
		if err := g.writeJSON(ctx, storage.SlotUserName, next.Username); err != nil {
			return g.identity, err
		}
	}
	if next.Email != "" && next.Email != g.identity.Email {
		if err := g.writeJSON(ctx, storage.SlotUserEmail, next.Email); err != nil {
			return g.identity, err
		}
	}
	if next.FullName != "" && next.FullName != g.identity.FullName {
		if err := g.writeJSON(ctx, storage.SlotUserFullName, next.FullName); err != nil {
			return g.identity, err
		}
	}
	if update.ProfileComplete != nil {
		if err := g.writeJSON(ctx, storage.SlotProfileComplete, next.ProfileComplete); err != nil {
			return g.identity, err
		}
	}

	g.identity = next
	return next, nil
}

// RefreshProfile fetches the profile from the backend and merges its
// non-empty fields into the identity.
func (g *Gate) RefreshProfile(ctx context.Context) (domain.Identity, error) {
	token := g.Token()
	if token == "" {
		return domain.Identity{}, ErrNotAuthenticated
	}
	profile, err := g.backend.Profile(ctx, token)
	if err != nil {
		return g.Identity(), err
	}
	return g.UpdateIdentity(ctx, updateFromProfile(profile))
}

// SaveProfile sends update to the backend and applies it locally once accepted.
func (g *Gate) SaveProfile(ctx context.Context, update domain.IdentityUpdate) (domain.Identity, error) {
	token := g.Token()
	if token == "" {
		return domain.Identity{}, ErrNotAuthenticated
	}
	if err := g.backend.UpdateProfile(ctx, token, update); err != nil {
		return g.Identity(), err
	}
	return g.UpdateIdentity(ctx, update)
}

func updateFromProfile(p domain.Identity) domain.IdentityUpdate {
	str := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	complete := p.ProfileComplete
	return domain.IdentityUpdate{
		Email:           str(p.Email),
		Username:        str(p.Username),
		FullName:        str(p.FullName),
		Phone:           str(p.Phone),
		Address:         str(p.Address),
		City:            str(p.City),
		State:           str(p.State),
		Pincode:         str(p.Pincode),
		ProfileComplete: &complete,
	}
}

func (g *Gate) readString(ctx context.Context, slot string) string {
	raw, err := g.storage.Get(ctx, slot)
	if err != nil {
		if !errors.Is(err, storage.ErrSlotNotFound) {
			g.logger.Warn("failed to read session slot", zap.String("slot", slot), zap.Error(err))
		}
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		g.logger.Warn("corrupted session slot", zap.String("slot", slot), zap.Error(err))
		return ""
	}
	return s
}

func (g *Gate) writeJSON(ctx context.Context, slot string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", slot, err)
	}
	if err := g.storage.Set(ctx, slot, data); err != nil {
		return fmt.Errorf("failed to persist %s: %w", slot, err)
	}
	return nil
}
