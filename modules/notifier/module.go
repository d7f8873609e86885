// Package notifier turns task and auth events into user-facing toast
// notifications, retains a short history and pushes them to WebSocket
// clients through a broadcast hub.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/example/taskstream/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Module consumes task and auth events and broadcasts notifications.
type Module struct {
	hub       *Hub
	history   *history
	cancelHub context.CancelFunc
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new notifier module.
func NewModule() *Module {
	return &Module{
		hub:     NewHub(),
		history: newHistory(),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "notifier"
}

// Start launches the WebSocket hub.
func (m *Module) Start(_ context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelHub = cancel
	go m.hub.Run(ctx)
	log.Println("[notifier] Module started - notification hub running")
	return nil
}

// Stop shuts down the hub.
func (m *Module) Stop(_ context.Context) error {
	clientCount := m.hub.ClientCount()
	if m.cancelHub != nil {
		m.cancelHub()
		m.hub.Wait()
	}
	log.Printf("[notifier] Module stopped - %d clients were connected", clientCount)
	return nil
}

// Health returns the health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"connected_clients":      m.hub.ClientCount(),
			"retained_notifications": m.history.size(),
		},
	}
}

// Hub returns the WebSocket hub for the API module to attach connections to.
func (m *Module) Hub() *Hub {
	return m.hub
}

// RecentRequest asks for recent notifications.
type RecentRequest struct {
	Limit int `json:"limit,omitempty"`
}

// RecentResponse carries recent notifications, newest first.
type RecentResponse struct {
	Notifications []*Notification `json:"notifications"`
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "recent", json.Unmarshal, json.Marshal, m.recentNotifications,
	); err != nil {
		return fmt.Errorf("failed to register recent service: %w", err)
	}
	log.Printf("[notifier] Registered services: services.notifier.recent")
	return nil
}

func (m *Module) recentNotifications(_ context.Context, req RecentRequest, _ *mono.Msg) (RecentResponse, error) {
	return RecentResponse{Notifications: m.history.recent(req.Limit)}, nil
}

// RegisterEventConsumers subscribes to all task and auth events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(
		registry, events.TaskCreatedV1, m.handleTaskCreated, m,
	); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.TaskUpdatedV1, m.handleTaskUpdated, m,
	); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.TaskStatusChangedV1, m.handleStatusChanged, m,
	); err != nil {
		return fmt.Errorf("failed to register TaskStatusChanged consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.TaskDeletedV1, m.handleTaskDeleted, m,
	); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.UserLoggedInV1, m.handleUserLoggedIn, m,
	); err != nil {
		return fmt.Errorf("failed to register UserLoggedIn consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.UserSignedUpV1, m.handleUserSignedUp, m,
	); err != nil {
		return fmt.Errorf("failed to register UserSignedUp consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.UserLoggedOutV1, m.handleUserLoggedOut, m,
	); err != nil {
		return fmt.Errorf("failed to register UserLoggedOut consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.AuthFailedV1, m.handleAuthFailed, m,
	); err != nil {
		return fmt.Errorf("failed to register AuthFailed consumer: %w", err)
	}

	log.Println("[notifier] Registered event consumers: TaskCreated, TaskUpdated, TaskStatusChanged, TaskDeleted, UserLoggedIn, UserSignedUp, UserLoggedOut, AuthFailed")
	return nil
}

// notify retains a notification and broadcasts it.
func (m *Module) notify(title, description string, variant Variant) {
	n := newNotification(title, description, variant)
	m.history.add(n)
	m.hub.Broadcast(n)
}

// Event handlers

func (m *Module) handleTaskCreated(_ context.Context, _ events.TaskEvent, _ *mono.Msg) error {
	m.notify("Task created", "Your task has been created successfully.", VariantDefault)
	return nil
}

func (m *Module) handleTaskUpdated(_ context.Context, _ events.TaskEvent, _ *mono.Msg) error {
	m.notify("Task updated", "Your task has been updated successfully.", VariantDefault)
	return nil
}

func (m *Module) handleStatusChanged(_ context.Context, event events.TaskEvent, _ *mono.Msg) error {
	m.notify("Task updated", fmt.Sprintf("Task status changed to %s.", event.Status), VariantDefault)
	return nil
}

func (m *Module) handleTaskDeleted(_ context.Context, _ events.TaskEvent, _ *mono.Msg) error {
	m.notify("Task deleted", "Your task has been deleted successfully.", VariantDestructive)
	return nil
}

func (m *Module) handleUserLoggedIn(_ context.Context, event events.AuthEvent, _ *mono.Msg) error {
	if event.Provider != "" {
		m.notify("Welcome!", fmt.Sprintf("Successfully logged in with %s", titleCase(event.Provider)), VariantDefault)
		return nil
	}
	m.notify("Welcome back!", fmt.Sprintf("Successfully logged in as %s", event.Name), VariantDefault)
	return nil
}

func (m *Module) handleUserSignedUp(_ context.Context, event events.AuthEvent, _ *mono.Msg) error {
	m.notify("Account created!", fmt.Sprintf("Welcome to TaskStream, %s!", event.Name), VariantDefault)
	return nil
}

func (m *Module) handleUserLoggedOut(_ context.Context, _ events.AuthEvent, _ *mono.Msg) error {
	m.notify("Logged out", "You have been successfully logged out", VariantDefault)
	return nil
}

func (m *Module) handleAuthFailed(_ context.Context, event events.AuthEvent, _ *mono.Msg) error {
	m.notify("Login failed", event.Reason, VariantDestructive)
	return nil
}

// titleCase uppercases the first letter only, matching the display style of
// provider names ("google" -> "Google").
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
