package sessionstore

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-monolith/mono"
	"github.com/redis/go-redis/v9"
)

// Module provides the durable session store as a mono module. The backend
// is selected with SESSION_BACKEND: "redis" (default) or "memory".
type Module struct {
	store   Store
	client  *redis.Client
	backend string
	addr    string
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new session store module. The store is usable
// immediately so dependent modules can be wired before Start.
func NewModule() *Module {
	backend := os.Getenv("SESSION_BACKEND")
	if backend == "" {
		backend = "redis"
	}
	addr := os.Getenv("SESSION_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	m := &Module{backend: backend, addr: addr}
	switch backend {
	case "memory":
		m.store = NewMemoryStore()
	default:
		m.client = redis.NewClient(&redis.Options{
			Addr:         addr,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		m.store = NewRedisStore(m.client, "taskstream:")
	}
	return m
}

// Name returns the module name.
func (m *Module) Name() string {
	return "sessionstore"
}

// Store returns the configured session store.
func (m *Module) Store() Store {
	return m.store
}

// Start verifies connectivity to the backend.
func (m *Module) Start(ctx context.Context) error {
	if m.client != nil {
		if err := m.client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to Redis at %s: %w", m.addr, err)
		}
		log.Printf("[sessionstore] Connected to Redis at %s", m.addr)
		return nil
	}
	log.Println("[sessionstore] Using in-memory session store (sessions will not survive restarts)")
	return nil
}

// Stop closes the Redis connection if one is open.
func (m *Module) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			return fmt.Errorf("failed to close Redis connection: %w", err)
		}
	}
	log.Println("[sessionstore] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.client != nil {
		if err := m.client.Ping(ctx).Err(); err != nil {
			return mono.HealthStatus{
				Healthy: false,
				Message: fmt.Sprintf("redis ping failed: %v", err),
			}
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"backend": m.backend,
		},
	}
}
