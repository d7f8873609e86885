package task

import (
	"time"

	domain "github.com/example/taskstream/domain/task"
)

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	SharedWith  []string   `json:"shared_with,omitempty"`
	UserID      string     `json:"user_id"`
}

// GetTaskRequest represents a single-task lookup.
type GetTaskRequest struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}

// ListTasksRequest represents a filtered task listing request.
type ListTasksRequest struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Search string `json:"search,omitempty"`
	Filter string `json:"filter,omitempty"`
}

// ListTasksResponse contains the derived task view.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// UpdateTaskRequest merges the provided fields onto an existing task.
// Nil fields are left unchanged.
type UpdateTaskRequest struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	// ClearDueDate removes the due date; a nil DueDate alone leaves it
	// unchanged.
	ClearDueDate bool      `json:"clear_due_date,omitempty"`
	AssignedTo   *string   `json:"assigned_to,omitempty"`
	SharedWith   *[]string `json:"shared_with,omitempty"`
}

// ChangeStatusRequest transitions a task to a new status.
type ChangeStatusRequest struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

// DeleteTaskRequest removes a task by ID.
type DeleteTaskRequest struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

// DeleteTaskResponse reports whether a task was actually removed.
type DeleteTaskResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// StatsRequest asks for stat aggregates over the user's own tasks.
type StatsRequest struct {
	UserID string `json:"user_id"`
}

// TaskResponse is the wire representation of a task.
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	SharedWith  []string   `json:"shared_with"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	UserID      string     `json:"user_id"`
}

func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		AssignedTo:  t.AssignedTo,
		SharedWith:  t.SharedWith,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		UserID:      t.UserID,
	}
}
