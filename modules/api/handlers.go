package api

import (
	"log"
	"strconv"
	"strings"

	"github.com/example/taskstream/modules/auth"
	"github.com/example/taskstream/modules/notifier"
	"github.com/example/taskstream/modules/task"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const defaultNotificationLimit = 20

// setupRoutes configures all HTTP routes.
func (m *Module) setupRoutes() {
	m.app.Get("/health", m.healthHandler)

	// WebSocket endpoint for notification streaming
	m.app.Use("/ws/notifications", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	m.app.Get("/ws/notifications", websocket.New(m.handleWebSocket))

	api := m.app.Group("/api/v1")

	// Authentication
	api.Post("/auth/login", m.login)
	api.Post("/auth/signup", m.signup)
	api.Post("/auth/provider/:provider", m.loginWithProvider)
	api.Post("/auth/logout", m.logout)
	api.Get("/auth/session", m.session)

	// Task management (requires a valid session token)
	tasks := api.Group("/tasks", AuthMiddleware(m.authAdapter))
	tasks.Get("/", m.listTasks)
	tasks.Post("/", m.createTask)
	tasks.Get("/stats", m.taskStats)
	tasks.Get("/:id", m.getTask)
	tasks.Patch("/:id", m.updateTask)
	tasks.Patch("/:id/status", m.changeStatus)
	tasks.Delete("/:id", m.deleteTask)

	// Notification history (requires a valid session token)
	api.Get("/notifications", AuthMiddleware(m.authAdapter), m.recentNotifications)
}

// healthHandler handles GET /health.
func (m *Module) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module":            "api",
			"connected_clients": m.hub.ClientCount(),
		},
	})
}

// Authentication handlers

func (m *Module) login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	resp, err := m.authAdapter.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return m.handleServiceError(c, err)
	}

	return c.JSON(AuthResponse{User: resp.User, Token: resp.Token})
}

func (m *Module) signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := m.authAdapter.Signup(c.UserContext(), auth.SignupRequest{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return m.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(AuthResponse{User: resp.User, Token: resp.Token})
}

func (m *Module) loginWithProvider(c *fiber.Ctx) error {
	provider := c.Params("provider")
	if provider == "" {
		return badRequest(c, "Provider is required")
	}

	resp, err := m.authAdapter.LoginWithProvider(c.UserContext(), provider)
	if err != nil {
		return m.handleServiceError(c, err)
	}

	return c.JSON(AuthResponse{User: resp.User, Token: resp.Token})
}

func (m *Module) logout(c *fiber.Ctx) error {
	if err := m.authAdapter.Logout(c.UserContext()); err != nil {
		return m.handleServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (m *Module) session(c *fiber.Ctx) error {
	resp, err := m.authAdapter.Session(c.UserContext())
	if err != nil {
		return m.handleServiceError(c, err)
	}
	return c.JSON(resp)
}

// Task handlers

func (m *Module) listTasks(c *fiber.Ctx) error {
	claims := claimsFromContext(c)

	resp, err := m.taskAdapter.List(c.UserContext(), task.ListTasksRequest{
		UserID: claims.UserID,
		Email:  claims.Email,
		Search: c.Query("search"),
		Filter: c.Query("filter"),
	})
	if err != nil {
		return m.handleServiceError(c, err)
	}
	return c.JSON(resp)
}

func (m *Module) createTask(c *fiber.Ctx) error {
	claims := claimsFromContext(c)

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := m.taskAdapter.Create(c.UserContext(), task.CreateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
		SharedWith:  req.SharedWith,
		UserID:      claims.UserID,
	})
	if err != nil {
		return m.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (m *Module) getTask(c *fiber.Ctx) error {
	claims := claimsFromContext(c)

	resp, err := m.taskAdapter.Get(c.UserContext(), c.Params("id"), claims.UserID, claims.Email)
	if err != nil {
		return m.handleServiceError(c, err)
	}
	return c.JSON(resp)
}

func (m *Module) updateTask(c *fiber.Ctx) error {
	claims := claimsFromContext(c)

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := m.taskAdapter.Update(c.UserContext(), task.UpdateTaskRequest{
		ID:           c.Params("id"),
		UserID:       claims.UserID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
		AssignedTo:   req.AssignedTo,
		SharedWith:   req.SharedWith,
	})
	if err != nil {
		return m.handleServiceError(c, err)
	}
	return c.JSON(resp)
}

func (m *Module) changeStatus(c *fiber.Ctx) error {
	claims := claimsFromContext(c)

	var req ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := m.taskAdapter.ChangeStatus(c.UserContext(), task.ChangeStatusRequest{
		ID:     c.Params("id"),
		UserID: claims.UserID,
		Status: req.Status,
	})
	if err != nil {
		return m.handleServiceError(c, err)
	}
	return c.JSON(resp)
}

func (m *Module) deleteTask(c *fiber.Ctx) error {
	claims := claimsFromContext(c)

	resp, err := m.taskAdapter.Delete(c.UserContext(), c.Params("id"), claims.UserID)
	if err != nil {
		return m.handleServiceError(c, err)
	}
	return c.JSON(resp)
}

func (m *Module) taskStats(c *fiber.Ctx) error {
	claims := claimsFromContext(c)

	resp, err := m.taskAdapter.Stats(c.UserContext(), claims.UserID)
	if err != nil {
		return m.handleServiceError(c, err)
	}
	return c.JSON(resp)
}

// Notification handlers

func (m *Module) recentNotifications(c *fiber.Ctx) error {
	limit := defaultNotificationLimit
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 50 {
			limit = parsed
		}
	}

	notifications, err := m.notifierAdapter.Recent(c.UserContext(), limit)
	if err != nil {
		return m.handleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"notifications": notifications})
}

// handleWebSocket handles WebSocket connections at /ws/notifications.
func (m *Module) handleWebSocket(c *websocket.Conn) {
	client := &notifier.Client{
		ID:   uuid.New().String(),
		Conn: c,
	}

	m.hub.Register(client)
	defer func() {
		m.hub.Unregister(client)
		log.Printf("[api] WebSocket client disconnected: %s", client.ID)
	}()

	log.Printf("[api] WebSocket client connected: %s", client.ID)

	// Notifications flow one way; drain reads until the client closes.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[api] Client %s closed connection", client.ID)
			}
			break
		}
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

// handleServiceError maps errors returned across the service bus onto HTTP
// statuses. Bus errors arrive flattened to strings, so matching is by
// message.
func (m *Module) handleServiceError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "invalid email or password"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid email or password",
		})
	case strings.Contains(errStr, "task not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Task not found",
		})
	case strings.Contains(errStr, "already exists"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "User with this email already exists",
		})
	case strings.Contains(errStr, "name must be at least"),
		strings.Contains(errStr, "invalid email address"),
		strings.Contains(errStr, "password must be at least"),
		strings.Contains(errStr, "passwords do not match"),
		strings.Contains(errStr, "unknown login provider"),
		strings.Contains(errStr, "title is required"),
		strings.Contains(errStr, "invalid task status"),
		strings.Contains(errStr, "invalid task priority"),
		strings.Contains(errStr, "unknown filter"):
		return badRequest(c, trimServiceError(errStr))
	default:
		// Log the actual error but don't expose it to the client
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// trimServiceError strips the adapter's "<service> request failed: " prefix
// so validation messages read cleanly.
func trimServiceError(errStr string) string {
	if i := strings.LastIndex(errStr, ": "); i >= 0 {
		return errStr[i+2:]
	}
	return errStr
}
