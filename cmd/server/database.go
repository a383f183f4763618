package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/novatasks-api/internal/config"
	"github.com/phrazzld/novatasks-api/internal/platform/database"
)

// setupAppDatabase establishes a connection to the database and configures connection pools.
// Returns the database connection if successful, or an error if the connection fails.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}
	return db, nil
}
