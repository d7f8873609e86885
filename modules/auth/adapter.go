package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/taskstream/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort is the interface other modules use to access auth operations.
type AuthPort interface {
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error)
	LoginWithProvider(ctx context.Context, provider string) (*AuthResponse, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*SessionResponse, error)
	ValidateToken(ctx context.Context, token string) (*user.Claims, error)
}

// Adapter implements AuthPort using the service container.
type Adapter struct {
	container mono.ServiceContainer
}

// NewAdapter creates a new auth adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{container: container}
}

var _ AuthPort = (*Adapter)(nil)

func call[T any](a *Adapter, ctx context.Context, service string, req any, resp *T) error {
	if err := helper.CallRequestReplyService(
		ctx, a.container, service, json.Marshal, json.Unmarshal, req, resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}

// Login verifies credentials and establishes a session.
func (a *Adapter) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	req := LoginRequest{Email: email, Password: password}
	var resp AuthResponse
	if err := call(a, ctx, "login", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a new account and establishes a session.
func (a *Adapter) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := call(a, ctx, "signup", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LoginWithProvider performs a social login.
func (a *Adapter) LoginWithProvider(ctx context.Context, provider string) (*AuthResponse, error) {
	req := ProviderLoginRequest{Provider: provider}
	var resp AuthResponse
	if err := call(a, ctx, "login-with-provider", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout destroys the current session.
func (a *Adapter) Logout(ctx context.Context) error {
	req := LogoutRequest{}
	var resp LogoutResponse
	return call(a, ctx, "logout", &req, &resp)
}

// Session returns the current authentication state.
func (a *Adapter) Session(ctx context.Context) (*SessionResponse, error) {
	req := SessionRequest{}
	var resp SessionResponse
	if err := call(a, ctx, "session", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ValidateToken validates a session token and returns its claims.
func (a *Adapter) ValidateToken(ctx context.Context, token string) (*user.Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse
	if err := call(a, ctx, "validate-token", &req, &resp); err != nil {
		return nil, err
	}
	if !resp.Valid {
		return nil, ErrInvalidToken
	}
	return &user.Claims{UserID: resp.UserID, Email: resp.Email}, nil
}
