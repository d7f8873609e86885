package auth

import (
	"github.com/example/taskstream/domain/user"
)

// LoginRequest carries credentials for a password login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest carries a new account registration.
type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ProviderLoginRequest carries a social login.
type ProviderLoginRequest struct {
	Provider string `json:"provider"`
}

// LogoutRequest destroys the current session.
type LogoutRequest struct{}

// LogoutResponse acknowledges a logout.
type LogoutResponse struct {
	LoggedOut bool `json:"logged_out"`
}

// SessionRequest asks for the current authentication state.
type SessionRequest struct{}

// SessionResponse describes the current authentication state.
type SessionResponse struct {
	Phase         Phase      `json:"phase"`
	Authenticated bool       `json:"authenticated"`
	User          *user.User `json:"user,omitempty"`
}

// AuthResponse is returned by login, signup and provider login.
type AuthResponse struct {
	User  *user.User `json:"user"`
	Token string     `json:"token"`
}

// ValidateTokenRequest carries a bearer token for validation.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse carries the claims of a valid token.
type ValidateTokenResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
}
