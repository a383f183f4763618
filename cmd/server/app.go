package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/novatasks-api/internal/api"
	"github.com/phrazzld/novatasks-api/internal/config"
	"github.com/phrazzld/novatasks-api/internal/events"
	"github.com/phrazzld/novatasks-api/internal/platform/database"
	"github.com/phrazzld/novatasks-api/internal/service"
	"github.com/phrazzld/novatasks-api/internal/service/auth"
	"github.com/phrazzld/novatasks-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore store.UserStore
	taskStore store.TaskStore

	// Service interfaces
	jwtService     auth.JWTService
	passwordHasher auth.PasswordHasher
	taskService    service.TaskService
	userService    service.UserService

	// Event system
	eventEmitter *events.InMemoryEventEmitter
	feedHub      *api.FeedHub
}

// newApplication creates a new application instance with all dependencies initialized.
// The database connection must be open; migrations are the caller's concern.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordHasher = auth.NewBcryptVerifier(cfg.Auth.BCryptCost)

	app.userStore = database.NewSQLUserStore(db, logger)
	app.taskStore = database.NewSQLTaskStore(db, logger)

	// Task events fan out to the live feed.
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.feedHub = api.NewFeedHub(cfg.Server.CORSOrigins, logger)
	app.eventEmitter.RegisterHandler(app.feedHub)

	app.taskService, err = service.NewTaskService(app.taskStore, app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.userService, err = service.NewUserService(
		app.userStore,
		app.taskStore,
		app.passwordHasher,
		app.eventEmitter,
		service.UserServiceOptions{AllowAdminSignup: cfg.Auth.AllowAdminSignup},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.feedHub != nil {
		app.feedHub.Close()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
