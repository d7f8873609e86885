// Package auth provides authentication services: a pure state machine over
// the session lifecycle, a GORM-backed user directory, JWT session tokens
// and durable session persistence through the sessionstore module.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/example/taskstream/domain/user"
	"github.com/example/taskstream/events"
	"github.com/example/taskstream/modules/sessionstore"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Module provides authentication services.
type Module struct {
	db       *gorm.DB
	service  *Service
	sessions sessionstore.Store
	eventBus mono.EventBus
	dbPath   string
	secret   string
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
)

// NewModule creates a new auth module.
func NewModule() *Module {
	dbPath := os.Getenv("AUTH_DB_PATH")
	if dbPath == "" {
		dbPath = "taskstream_users.db"
	}
	secret := os.Getenv("AUTH_JWT_SECRET")
	return &Module{dbPath: dbPath, secret: secret}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "auth"
}

// SetSessionStore wires the durable session store. Must be called before
// Start; main wires it from the sessionstore module.
func (m *Module) SetSessionStore(store sessionstore.Store) {
	m.sessions = store
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
	if m.service != nil {
		m.service.SetEventBus(bus)
	}
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.UserLoggedInV1.ToBase(),
		events.UserSignedUpV1.ToBase(),
		events.UserLoggedOutV1.ToBase(),
		events.AuthFailedV1.ToBase(),
	}
}

// Start opens the user directory, seeds the demo accounts and restores any
// persisted session.
func (m *Module) Start(ctx context.Context) error {
	if m.sessions == nil {
		return fmt.Errorf("auth module requires a session store (call SetSessionStore before Start)")
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&user.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	dir := NewGormDirectory(db)
	hasher := NewPasswordHasher()
	if err := SeedMockUsers(ctx, dir, hasher); err != nil {
		return fmt.Errorf("failed to seed mock users: %w", err)
	}

	tokenConfig := DefaultTokenConfig()
	if m.secret != "" {
		tokenConfig.SecretKey = m.secret
	}

	m.service = NewService(dir, hasher, NewTokenManager(tokenConfig), m.sessions)
	m.service.SetEventBus(m.eventBus)

	state := m.service.Initialize(ctx)
	log.Printf("[auth] Module started (database: %s, phase: %s)", m.dbPath, state.Phase)
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil || m.service == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "module not started",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	registered, err := NewGormDirectory(m.db).Count(ctx)
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to count users: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"phase":            string(m.service.State().Phase),
			"registered_users": registered,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
// The framework prefixes service names with "services.auth." on the bus.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "login", json.Unmarshal, json.Marshal, m.login,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "signup", json.Unmarshal, json.Marshal, m.signup,
	); err != nil {
		return fmt.Errorf("failed to register signup service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "login-with-provider", json.Unmarshal, json.Marshal, m.loginWithProvider,
	); err != nil {
		return fmt.Errorf("failed to register login-with-provider service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "logout", json.Unmarshal, json.Marshal, m.logout,
	); err != nil {
		return fmt.Errorf("failed to register logout service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "session", json.Unmarshal, json.Marshal, m.session,
	); err != nil {
		return fmt.Errorf("failed to register session service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "validate-token", json.Unmarshal, json.Marshal, m.validateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-token service: %w", err)
	}

	log.Printf("[auth] Registered services: services.auth.{login,signup,login-with-provider,logout,session,validate-token}")
	return nil
}
