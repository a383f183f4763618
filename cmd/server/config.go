package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/novatasks-api/internal/config"
	"github.com/phrazzld/novatasks-api/internal/platform/logger"
)

// loadAppConfig loads the application configuration from environment variables or config file.
// Returns the loaded config and any loading error.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// setupAppLogger configures and initializes the application logger based on config settings.
// Returns the configured logger or an error if setup fails.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver)
	l.Debug("Auth configuration",
		"jwt_secret_present", cfg.Auth.JWTSecret != "",
		"allow_admin_signup", cfg.Auth.AllowAdminSignup)

	return l, nil
}
