package portal

import (
	"context"
	"sync"
	"time"

	"github.com/osamhq/portal/internal/api"
)

// AuthService signs users in and manages their account.
type AuthService struct {
	c *api.Client
}

func NewAuthService(c *api.Client) *AuthService {
	return &AuthService{c: c}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token.
func (s *AuthService) Login(ctx context.Context, username, password string) (TokenResponse, error) {
	return api.Post[TokenResponse](ctx, s.c, "/auth/login",
		loginRequest{Username: username, Password: password},
		&api.CallOptions{Label: "auth.login"})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// Register creates an account. Role defaults to editor server-side.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (User, error) {
	return api.Post[User](ctx, s.c, "/auth/register",
		registerRequest{Username: username, Email: email, Password: password},
		&api.CallOptions{Label: "auth.register"})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type changePasswordResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ChangePassword rotates the current user's password.
func (s *AuthService) ChangePassword(ctx context.Context, current, next string) error {
	_, err := api.Post[changePasswordResponse](ctx, s.c, "/auth/change-password",
		changePasswordRequest{CurrentPassword: current, NewPassword: next, ConfirmPassword: next},
		&api.CallOptions{Label: "auth.change-password"})
	return err
}

// Me returns the authenticated user.
func (s *AuthService) Me(ctx context.Context) (User, error) {
	return api.Get[User](ctx, s.c, "/auth/me", &api.CallOptions{Label: "auth.me"})
}

// TokenStore is an in-memory CredentialProvider fed by Login results.
// Safe for concurrent use.
type TokenStore struct {
	mu     sync.RWMutex
	token  string
	expiry time.Time
}

func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Store records a token valid for expiresIn seconds.
func (t *TokenStore) Store(token string, expiresIn int) {
	t.mu.Lock()
	t.token = token
	t.expiry = time.Now().Add(time.Duration(expiresIn) * time.Second)
	t.mu.Unlock()
}

// Clear drops the stored token.
func (t *TokenStore) Clear() {
	t.mu.Lock()
	t.token = ""
	t.expiry = time.Time{}
	t.mu.Unlock()
}

// Token implements api.CredentialProvider. An expired or absent token yields
// the empty string; the call then goes out anonymous and the server's 401 is
// surfaced normally.
func (t *TokenStore) Token(ctx context.Context) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.token == "" || (!t.expiry.IsZero() && time.Now().After(t.expiry)) {
		return "", nil
	}
	return t.token, nil
}
