package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/taskstream/modules/api"
	"github.com/example/taskstream/modules/auth"
	"github.com/example/taskstream/modules/notifier"
	"github.com/example/taskstream/modules/sessionstore"
	"github.com/example/taskstream/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== TaskStream - Task Management Monolith ===")

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Create modules
	sessionModule := sessionstore.NewModule()
	authModule := auth.NewModule()
	taskModule := task.NewModule()
	notifierModule := notifier.NewModule()
	apiModule := api.NewModule()

	// Wire dependencies not exposed via ServiceContainer
	authModule.SetSessionStore(sessionModule.Store())
	apiModule.SetHub(notifierModule.Hub())

	// Register modules with the framework.
	// Order: independent modules first, then modules with dependencies
	// - sessionstore: durable session persistence
	// - auth: authentication state machine + user directory
	// - task: task CRUD, filtering and stats
	// - notifier: event consumer broadcasting toast notifications
	// - api: Fiber HTTP/WebSocket surface (depends on auth, task, notifier)
	app.Register(sessionModule)
	app.Register(authModule)
	app.Register(taskModule)
	app.Register(notifierModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("Demo accounts: john@example.com / jane@example.com (password: password)")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%s):", port)
	log.Println("  GET    /health                    - Health check")
	log.Println("  POST   /api/v1/auth/login         - Log in with email + password")
	log.Println("  POST   /api/v1/auth/signup        - Create an account")
	log.Println("  POST   /api/v1/auth/provider/:p   - Social login (google, github)")
	log.Println("  POST   /api/v1/auth/logout        - Destroy the session")
	log.Println("  GET    /api/v1/auth/session       - Current authentication state")
	log.Println("  GET    /api/v1/tasks              - List tasks (?search=&filter=)")
	log.Println("  POST   /api/v1/tasks              - Create a task")
	log.Println("  GET    /api/v1/tasks/stats        - Task stat aggregates")
	log.Println("  GET    /api/v1/tasks/:id          - Get a task")
	log.Println("  PATCH  /api/v1/tasks/:id          - Update task fields")
	log.Println("  PATCH  /api/v1/tasks/:id/status   - Change task status")
	log.Println("  DELETE /api/v1/tasks/:id          - Delete a task")
	log.Println("  GET    /api/v1/notifications      - Recent notifications")
	log.Println("")
	log.Printf("WebSocket Endpoint (ws://localhost:%s/ws/notifications):", port)
	log.Println("  Streams toast notifications for task and auth events")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
