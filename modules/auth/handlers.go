package auth

import (
	"context"

	"github.com/go-monolith/mono"
)

// Request-reply handlers. These adapt the bus-facing request types onto the
// Service, which owns the actual state machine.

func (m *Module) login(ctx context.Context, req LoginRequest, _ *mono.Msg) (AuthResponse, error) {
	u, token, err := m.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{User: u, Token: token}, nil
}

func (m *Module) signup(ctx context.Context, req SignupRequest, _ *mono.Msg) (AuthResponse, error) {
	u, token, err := m.service.Signup(ctx, req)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{User: u, Token: token}, nil
}

func (m *Module) loginWithProvider(ctx context.Context, req ProviderLoginRequest, _ *mono.Msg) (AuthResponse, error) {
	u, token, err := m.service.LoginWithProvider(ctx, req.Provider)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{User: u, Token: token}, nil
}

func (m *Module) logout(ctx context.Context, _ LogoutRequest, _ *mono.Msg) (LogoutResponse, error) {
	m.service.Logout(ctx)
	return LogoutResponse{LoggedOut: true}, nil
}

func (m *Module) session(_ context.Context, _ SessionRequest, _ *mono.Msg) (SessionResponse, error) {
	state := m.service.State()
	return SessionResponse{
		Phase:         state.Phase,
		Authenticated: state.IsAuthenticated(),
		User:          state.User,
	}, nil
}

func (m *Module) validateToken(_ context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(req.Token)
	if err != nil {
		return ValidateTokenResponse{}, err
	}
	return ValidateTokenResponse{
		Valid:  true,
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}
