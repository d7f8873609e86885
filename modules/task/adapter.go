package task

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/taskstream/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort is the interface other modules use to access task operations.
type TaskPort interface {
	Create(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error)
	Get(ctx context.Context, id, userID, email string) (*TaskResponse, error)
	List(ctx context.Context, req ListTasksRequest) (*ListTasksResponse, error)
	Update(ctx context.Context, req UpdateTaskRequest) (*TaskResponse, error)
	ChangeStatus(ctx context.Context, req ChangeStatusRequest) (*TaskResponse, error)
	Delete(ctx context.Context, id, userID string) (*DeleteTaskResponse, error)
	Stats(ctx context.Context, userID string) (*domain.Stats, error)
}

// Adapter implements TaskPort using the service container.
type Adapter struct {
	container mono.ServiceContainer
}

// NewAdapter creates a new task adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{container: container}
}

var _ TaskPort = (*Adapter)(nil)

func call[T any](a *Adapter, ctx context.Context, service string, req any, resp *T) error {
	if err := helper.CallRequestReplyService(
		ctx, a.container, service, json.Marshal, json.Unmarshal, req, resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}

// Create creates a new task.
func (a *Adapter) Create(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := call(a, ctx, "create", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get returns a single task visible to the user.
func (a *Adapter) Get(ctx context.Context, id, userID, email string) (*TaskResponse, error) {
	req := GetTaskRequest{ID: id, UserID: userID, Email: email}
	var resp TaskResponse
	if err := call(a, ctx, "get", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// List returns the filtered task view.
func (a *Adapter) List(ctx context.Context, req ListTasksRequest) (*ListTasksResponse, error) {
	var resp ListTasksResponse
	if err := call(a, ctx, "list", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Update merges the provided fields onto an existing task.
func (a *Adapter) Update(ctx context.Context, req UpdateTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := call(a, ctx, "update", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChangeStatus transitions a task to a new status.
func (a *Adapter) ChangeStatus(ctx context.Context, req ChangeStatusRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := call(a, ctx, "change-status", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes a task. Deleting an unknown ID is not an error.
func (a *Adapter) Delete(ctx context.Context, id, userID string) (*DeleteTaskResponse, error) {
	req := DeleteTaskRequest{ID: id, UserID: userID}
	var resp DeleteTaskResponse
	if err := call(a, ctx, "delete", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stats returns aggregates over the user's own tasks.
func (a *Adapter) Stats(ctx context.Context, userID string) (*domain.Stats, error) {
	req := StatsRequest{UserID: userID}
	var resp domain.Stats
	if err := call(a, ctx, "stats", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
