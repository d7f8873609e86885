package auth

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/taskstream/modules/sessionstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/taskstream/domain/user"
)

func newTestService(t *testing.T) (*Service, *sessionstore.MemoryStore) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.User{}))

	dir := NewGormDirectory(db)
	hasher := NewPasswordHasher()
	require.NoError(t, SeedMockUsers(context.Background(), dir, hasher))

	sessions := sessionstore.NewMemoryStore()
	svc := NewService(dir, hasher, NewTokenManager(DefaultTokenConfig()), sessions)
	svc.SetLatency(0, 0)
	return svc, sessions
}

func TestLoginSuccess(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()

	u, token, err := svc.Login(ctx, "john@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", u.Name)
	assert.Equal(t, "john@example.com", u.Email)
	assert.NotEmpty(t, token)

	state := svc.State()
	assert.Equal(t, PhaseAuthenticated, state.Phase)
	assert.True(t, state.IsAuthenticated())
	assert.True(t, sessions.Has(), "session should be persisted")

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, u.Email, claims.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, sessions := newTestService(t)

	_, _, err := svc.Login(context.Background(), "john@example.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	state := svc.State()
	assert.Equal(t, PhaseUnauthenticated, state.Phase)
	assert.Nil(t, state.User)
	assert.False(t, sessions.Has())
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "password")
	// Unknown email and wrong password must be indistinguishable.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, errors.Is(err, ErrUserNotFound))
}

// countingDirectory wraps a Directory and counts FindByEmail calls.
type countingDirectory struct {
	Directory
	lookups atomic.Int64
}

func (d *countingDirectory) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	d.lookups.Add(1)
	return d.Directory.FindByEmail(ctx, email)
}

func TestConcurrentLoginsShareOneAttempt(t *testing.T) {
	svc, _ := newTestService(t)
	counting := &countingDirectory{Directory: svc.directory}
	svc.directory = counting
	// Enough latency that every goroutine joins the in-flight attempt.
	svc.SetLatency(50*time.Millisecond, 0)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.Login(ctx, "john@example.com", "password")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "login %d", i)
	}
	assert.Equal(t, PhaseAuthenticated, svc.State().Phase)
	assert.Equal(t, int64(1), counting.lookups.Load(),
		"concurrent identical logins should share one directory lookup")
}

func TestSignupSuccess(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()

	u, token, err := svc.Signup(ctx, SignupRequest{
		Name:            "New User",
		Email:           "new@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "New User", u.Name)
	assert.NotEmpty(t, u.ID)
	assert.NotEmpty(t, token)
	assert.True(t, sessions.Has())

	// The new account can log in afterwards.
	svc.Logout(ctx)
	logged, _, err := svc.Login(ctx, "new@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  SignupRequest
		want error
	}{
		{
			name: "name too short",
			req:  SignupRequest{Name: "A", Email: "a@example.com", Password: "secret1", ConfirmPassword: "secret1"},
			want: ErrNameTooShort,
		},
		{
			name: "whitespace name too short",
			req:  SignupRequest{Name: "  B  ", Email: "b@example.com", Password: "secret1", ConfirmPassword: "secret1"},
			want: ErrNameTooShort,
		},
		{
			name: "invalid email",
			req:  SignupRequest{Name: "Carol", Email: "not-an-email", Password: "secret1", ConfirmPassword: "secret1"},
			want: ErrInvalidEmail,
		},
		{
			name: "weak password",
			req:  SignupRequest{Name: "Carol", Email: "carol@example.com", Password: "short", ConfirmPassword: "short"},
			want: ErrWeakPassword,
		},
		{
			name: "password mismatch",
			req:  SignupRequest{Name: "Carol", Email: "carol@example.com", Password: "secret1", ConfirmPassword: "secret2"},
			want: ErrPasswordMismatch,
		},
		{
			name: "duplicate email",
			req:  SignupRequest{Name: "John Again", Email: "john@example.com", Password: "secret1", ConfirmPassword: "secret1"},
			want: ErrUserExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Signup(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// None of the rejected signups reached the directory.
	for _, email := range []string{"a@example.com", "b@example.com", "carol@example.com"} {
		exists, err := svc.directory.EmailExists(ctx, email)
		require.NoError(t, err)
		assert.False(t, exists, "%s should not be registered", email)
	}
}

func TestLoginWithProvider(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()

	u, token, err := svc.LoginWithProvider(ctx, "google")
	require.NoError(t, err)
	assert.Equal(t, "user@google.com", u.Email)
	assert.Equal(t, "Google User", u.Name)
	assert.NotEmpty(t, token)
	assert.True(t, sessions.Has())

	// Provider identities are synthesized, never registered.
	exists, err := svc.directory.EmailExists(ctx, "user@google.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLoginWithUnknownProvider(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.LoginWithProvider(context.Background(), "myspace")
	assert.ErrorIs(t, err, ErrUnknownProvider)
	assert.Equal(t, PhaseUninitialized, svc.State().Phase,
		"rejected provider must not start an operation")
}

func TestLogoutClearsSession(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "jane@example.com", "password")
	require.NoError(t, err)
	require.True(t, sessions.Has())

	svc.Logout(ctx)
	state := svc.State()
	assert.Equal(t, PhaseUnauthenticated, state.Phase)
	assert.Nil(t, state.User)
	assert.False(t, sessions.Has())
}

func TestInitializeRestoresSession(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()

	require.NoError(t, sessions.Save(ctx, &user.User{
		ID: "1", Email: "john@example.com", Name: "John Doe",
	}))

	state := svc.Initialize(ctx)
	assert.Equal(t, PhaseAuthenticated, state.Phase)
	require.NotNil(t, state.User)
	assert.Equal(t, "John Doe", state.User.Name)
}

func TestInitializeWithoutSession(t *testing.T) {
	svc, _ := newTestService(t)

	state := svc.Initialize(context.Background())
	assert.Equal(t, PhaseUnauthenticated, state.Phase)
	assert.Nil(t, state.User)
}

func TestInitializeWithCorruptSession(t *testing.T) {
	svc, sessions := newTestService(t)
	sessions.Corrupt()

	state := svc.Initialize(context.Background())
	assert.Equal(t, PhaseUnauthenticated, state.Phase)
	assert.Nil(t, state.User)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
