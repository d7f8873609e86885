package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/example/taskstream/domain/user"
	"github.com/example/taskstream/events"
	"github.com/example/taskstream/modules/sessionstore"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Simulated network latency, mirroring the behaviour of the frontend the
// demo directory was built against. Tests construct the service with zero
// latency.
const (
	DefaultLoginLatency    = 1000 * time.Millisecond
	DefaultProviderLatency = 1500 * time.Millisecond
)

// Service owns the authentication state machine and coordinates the
// directory, password hasher, token manager and session store around it.
// All state transitions go through apply, which runs Reduce and executes
// the resulting persistence effect while holding the mutex.
type Service struct {
	mu    sync.Mutex
	state State

	directory Directory
	hasher    *PasswordHasher
	tokens    *TokenManager
	sessions  sessionstore.Store
	eventBus  mono.EventBus

	// group collapses concurrent identical operations so a double-submitted
	// login runs the credential check exactly once.
	group singleflight.Group

	loginLatency    time.Duration
	providerLatency time.Duration
}

// NewService creates an authentication service with simulated latency.
func NewService(dir Directory, hasher *PasswordHasher, tokens *TokenManager, sessions sessionstore.Store) *Service {
	return &Service{
		state:           InitialState(),
		directory:       dir,
		hasher:          hasher,
		tokens:          tokens,
		sessions:        sessions,
		loginLatency:    DefaultLoginLatency,
		providerLatency: DefaultProviderLatency,
	}
}

// SetEventBus wires the event bus used for auth event publishing.
func (s *Service) SetEventBus(bus mono.EventBus) {
	s.eventBus = bus
}

// SetLatency overrides the simulated operation latencies.
func (s *Service) SetLatency(login, provider time.Duration) {
	s.loginLatency = login
	s.providerLatency = provider
}

// State returns a snapshot of the current authentication state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// apply runs one transition and executes its persistence effect. Session
// store failures are logged, never fatal: the in-memory state is the
// source of truth and persistence is best effort.
func (s *Service) apply(ctx context.Context, e Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, effect := Reduce(s.state, e)
	s.state = next

	switch effect {
	case EffectPersistSession:
		if err := s.sessions.Save(ctx, next.User); err != nil {
			log.Printf("[auth] Failed to persist session: %v", err)
		}
	case EffectClearSession:
		if err := s.sessions.Clear(ctx); err != nil {
			log.Printf("[auth] Failed to clear session: %v", err)
		}
	}
	return next
}

// Initialize restores the persisted session, if any, and moves the machine
// out of the uninitialized phase. A missing or unreadable session blob
// resolves to unauthenticated; it is never an error.
func (s *Service) Initialize(ctx context.Context) State {
	u, err := s.sessions.Load(ctx)
	if err != nil {
		if !errors.Is(err, sessionstore.ErrNoSession) {
			log.Printf("[auth] Failed to load persisted session: %v", err)
		}
		return s.apply(ctx, Event{Type: EventInitialized})
	}
	log.Printf("[auth] Restored session for %s", u.Email)
	return s.apply(ctx, Event{Type: EventInitialized, User: u})
}

// sleep waits for the configured latency or until the context is done.
func (s *Service) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Login verifies credentials and establishes a session. Unknown emails and
// wrong passwords both surface as ErrInvalidCredentials; the internal cause
// is only logged. Concurrent logins for the same email share one attempt.
func (s *Service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	type loginResult struct {
		user  *user.User
		token string
	}

	v, err, _ := s.group.Do("login:"+email, func() (any, error) {
		s.apply(ctx, Event{Type: EventOperationStarted})

		if err := s.sleep(ctx, s.loginLatency); err != nil {
			s.apply(ctx, Event{Type: EventOperationFailed})
			return nil, err
		}

		u, err := s.authenticate(ctx, email, password)
		if err != nil {
			s.apply(ctx, Event{Type: EventOperationFailed})
			s.publishAuthFailed(email, ErrInvalidCredentials.Error())
			return nil, ErrInvalidCredentials
		}

		token, err := s.tokens.Generate(u)
		if err != nil {
			s.apply(ctx, Event{Type: EventOperationFailed})
			return nil, fmt.Errorf("failed to generate token: %w", err)
		}

		s.apply(ctx, Event{Type: EventOperationSucceeded, User: u})
		s.publishLoggedIn(u, "")
		log.Printf("[auth] User logged in: %s", u.Email)
		return loginResult{user: u, token: token}, nil
	})
	if err != nil {
		return nil, "", err
	}
	res := v.(loginResult)
	return res.user, res.token, nil
}

// authenticate checks the email and password against the directory.
func (s *Service) authenticate(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		log.Printf("[auth] Login rejected for %s: %v", email, err)
		return nil, err
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		log.Printf("[auth] Login rejected for %s: %v", email, ErrWrongPassword)
		return nil, ErrWrongPassword
	}
	return u, nil
}

// Signup validates the registration, creates the account and establishes a
// session. Validation runs before any directory mutation, so a rejected
// signup leaves the directory untouched.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*user.User, string, error) {
	if err := validateSignup(req); err != nil {
		return nil, "", err
	}

	type signupResult struct {
		user  *user.User
		token string
	}

	v, err, _ := s.group.Do("signup:"+req.Email, func() (any, error) {
		s.apply(ctx, Event{Type: EventOperationStarted})

		if err := s.sleep(ctx, s.loginLatency); err != nil {
			s.apply(ctx, Event{Type: EventOperationFailed})
			return nil, err
		}

		exists, err := s.directory.EmailExists(ctx, req.Email)
		if err != nil {
			s.apply(ctx, Event{Type: EventOperationFailed})
			return nil, err
		}
		if exists {
			s.apply(ctx, Event{Type: EventOperationFailed})
			s.publishAuthFailed(req.Email, ErrUserExists.Error())
			return nil, ErrUserExists
		}

		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			s.apply(ctx, Event{Type: EventOperationFailed})
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}

		u := &user.User{
			ID:           uuid.New().String(),
			Email:        req.Email,
			Name:         strings.TrimSpace(req.Name),
			PasswordHash: hash,
			CreatedAt:    time.Now(),
		}
		if err := s.directory.Insert(ctx, u); err != nil {
			s.apply(ctx, Event{Type: EventOperationFailed})
			return nil, err
		}

		token, err := s.tokens.Generate(u)
		if err != nil {
			s.apply(ctx, Event{Type: EventOperationFailed})
			return nil, fmt.Errorf("failed to generate token: %w", err)
		}

		s.apply(ctx, Event{Type: EventOperationSucceeded, User: u})
		s.publishSignedUp(u)
		log.Printf("[auth] User signed up: %s", u.Email)
		return signupResult{user: u, token: token}, nil
	})
	if err != nil {
		return nil, "", err
	}
	res := v.(signupResult)
	return res.user, res.token, nil
}

// validateSignup enforces the registration rules.
func validateSignup(req SignupRequest) error {
	if len(strings.TrimSpace(req.Name)) < 2 {
		return ErrNameTooShort
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return ErrInvalidEmail
	}
	if len(req.Password) < 6 {
		return ErrWeakPassword
	}
	if req.Password != req.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

// providerProfiles maps supported providers to the synthesized identity
// details.
var providerProfiles = map[string]struct {
	title  string
	avatar string
}{
	"google": {
		title:  "Google",
		avatar: "https://images.unsplash.com/photo-1633332755192-727a05c4013d?w=32&h=32&fit=crop&crop=face",
	},
	"github": {
		title:  "GitHub",
		avatar: "https://images.unsplash.com/photo-1535713875002-d1d0cf377fde?w=32&h=32&fit=crop&crop=face",
	},
}

// LoginWithProvider simulates a social login. The synthesized identity is
// deterministic per provider and is not registered in the directory.
func (s *Service) LoginWithProvider(ctx context.Context, provider string) (*user.User, string, error) {
	profile, ok := providerProfiles[provider]
	if !ok {
		return nil, "", ErrUnknownProvider
	}

	type loginResult struct {
		user  *user.User
		token string
	}

	v, err, _ := s.group.Do("provider:"+provider, func() (any, error) {
		s.apply(ctx, Event{Type: EventOperationStarted})

		if err := s.sleep(ctx, s.providerLatency); err != nil {
			s.apply(ctx, Event{Type: EventOperationFailed})
			return nil, err
		}

		u := &user.User{
			ID:        uuid.New().String(),
			Email:     fmt.Sprintf("user@%s.com", provider),
			Name:      profile.title + " User",
			Avatar:    profile.avatar,
			CreatedAt: time.Now(),
		}

		token, err := s.tokens.Generate(u)
		if err != nil {
			s.apply(ctx, Event{Type: EventOperationFailed})
			return nil, fmt.Errorf("failed to generate token: %w", err)
		}

		s.apply(ctx, Event{Type: EventOperationSucceeded, User: u})
		s.publishLoggedIn(u, provider)
		log.Printf("[auth] User logged in via %s: %s", provider, u.Email)
		return loginResult{user: u, token: token}, nil
	})
	if err != nil {
		return nil, "", err
	}
	res := v.(loginResult)
	return res.user, res.token, nil
}

// Logout destroys the session. Logging out while unauthenticated is a
// harmless no-op that still resolves to the unauthenticated phase.
func (s *Service) Logout(ctx context.Context) {
	prev := s.State()
	s.apply(ctx, Event{Type: EventLoggedOut})
	if prev.User != nil {
		s.publishLoggedOut(prev.User)
		log.Printf("[auth] User logged out: %s", prev.User.Email)
	}
}

// ValidateToken verifies a session token and returns its claims.
func (s *Service) ValidateToken(token string) (*user.Claims, error) {
	return s.tokens.Validate(token)
}

func (s *Service) publishLoggedIn(u *user.User, provider string) {
	if s.eventBus == nil {
		return
	}
	err := events.UserLoggedInV1.Publish(s.eventBus, events.AuthEvent{
		UserID:     u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Provider:   provider,
		OccurredAt: time.Now(),
	}, nil)
	if err != nil {
		log.Printf("[auth] Failed to publish UserLoggedIn event: %v", err)
	}
}

func (s *Service) publishSignedUp(u *user.User) {
	if s.eventBus == nil {
		return
	}
	err := events.UserSignedUpV1.Publish(s.eventBus, events.AuthEvent{
		UserID:     u.ID,
		Email:      u.Email,
		Name:       u.Name,
		OccurredAt: time.Now(),
	}, nil)
	if err != nil {
		log.Printf("[auth] Failed to publish UserSignedUp event: %v", err)
	}
}

func (s *Service) publishLoggedOut(u *user.User) {
	if s.eventBus == nil {
		return
	}
	err := events.UserLoggedOutV1.Publish(s.eventBus, events.AuthEvent{
		UserID:     u.ID,
		Email:      u.Email,
		Name:       u.Name,
		OccurredAt: time.Now(),
	}, nil)
	if err != nil {
		log.Printf("[auth] Failed to publish UserLoggedOut event: %v", err)
	}
}

func (s *Service) publishAuthFailed(email, reason string) {
	if s.eventBus == nil {
		return
	}
	err := events.AuthFailedV1.Publish(s.eventBus, events.AuthEvent{
		Email:      email,
		Reason:     reason,
		OccurredAt: time.Now(),
	}, nil)
	if err != nil {
		log.Printf("[auth] Failed to publish AuthFailed event: %v", err)
	}
}
