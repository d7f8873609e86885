package api

import "time"

// LoginRequest represents a login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest represents a signup request body.
type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// AuthResponse carries the authenticated user and session token.
type AuthResponse struct {
	User  any    `json:"user"`
	Token string `json:"token"`
}

// CreateTaskRequest represents a task creation request body.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	SharedWith  []string   `json:"shared_with,omitempty"`
}

// UpdateTaskRequest represents a task update request body. Absent fields
// are left unchanged.
type UpdateTaskRequest struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Status       *string    `json:"status,omitempty"`
	Priority     *string    `json:"priority,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ClearDueDate bool       `json:"clear_due_date,omitempty"`
	AssignedTo   *string    `json:"assigned_to,omitempty"`
	SharedWith   *[]string  `json:"shared_with,omitempty"`
}

// ChangeStatusRequest represents a status transition request body.
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// HealthResponse represents the health endpoint payload.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
