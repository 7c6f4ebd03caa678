package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
)

// LoginResult is a successful credential check.
type LoginResult struct {
	Token    string
	Identity domain.Identity
}

type loginResponse struct {
	Token           flexString  `json:"token"`
	Email           flexString  `json:"email"`
	Username        flexString  `json:"username"`
	FullName        flexString  `json:"full_name"`
	ProfileComplete flexBool    `json:"profile_complete"`
	User            identityDTO `json:"user"`
}

// Login validates the credentials. identifier is an email or a username.
// Rejections come back as *APIError carrying the backend's detail.
func (c *Client) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	body := map[string]string{"identifier": identifier, "password": password}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &resp); err != nil {
		return LoginResult{}, err
	}
	if resp.Token == "" {
		return LoginResult{}, &APIError{Status: http.StatusUnauthorized}
	}
	return resp.toResult(), nil
}

// Register creates an account. The backend usually signs the new user in
// right away; when it does not, the result carries no token.
func (c *Client) Register(ctx context.Context, email, password string) (LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", body, &resp); err != nil {
		return LoginResult{}, err
	}
	res := resp.toResult()
	if res.Identity.Email == "" {
		res.Identity.Email = email
	}
	return res, nil
}

func (r loginResponse) toResult() LoginResult {
	identity := r.User.toDomain()
	if identity.Email == "" {
		identity.Email = string(r.Email)
	}
	if identity.Username == "" {
		identity.Username = string(r.Username)
	}
	if identity.FullName == "" {
		identity.FullName = string(r.FullName)
	}
	identity.ProfileComplete = bool(r.ProfileComplete)

	return LoginResult{
		Token:    string(r.Token),
		Identity: identity,
	}
}

func (c *Client) Logout(ctx context.Context, token string) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

func (c *Client) Profile(ctx context.Context, token string) (domain.Identity, error) {
	var dto identityDTO
	if err := c.do(ctx, http.MethodGet, "/user/profile", token, nil, &dto); err != nil {
		return domain.Identity{}, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return dto.toDomain(), nil
}

// UpdateProfile sends only the fields set in update.
func (c *Client) UpdateProfile(ctx context.Context, token string, update domain.IdentityUpdate) error {
	if err := c.do(ctx, http.MethodPut, "/user/profile", token, update, nil); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
