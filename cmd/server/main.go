// Package main implements the entry point for the NovaTasks API server,
// a multi-user task manager backed by SQLite.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/phrazzld/novatasks-api/internal/domain"
	"github.com/phrazzld/novatasks-api/internal/platform/database"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "novatasks",
	Short:         "novatasks - multi-user task manager API",
	SilenceUsage:  true,
	SilenceErrors: false,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Apply pending migrations and start the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status|reset|version]",
	Short:     "Run a schema migration command (default up)",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{database.MigrateUp, database.MigrateDown, database.MigrateStatus, database.MigrateReset, database.MigrateVersion},
	RunE:      runMigrate,
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user and every task they own",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserDelete,
}

func init() {
	userCmd.AddCommand(userDeleteCmd)
	rootCmd.AddCommand(serveCmd, migrateCmd, userCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// runServe loads configuration, migrates the schema and serves until a
// shutdown signal arrives.
func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	app, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	if err := database.Migrate(ctx, app.db, app.config.Database.Driver, database.MigrateUp, app.logger); err != nil {
		app.cleanup()
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return app.Run(ctx)
}

// runMigrate runs a single goose command and exits.
func runMigrate(cmd *cobra.Command, args []string) error {
	command := database.MigrateUp
	if len(args) == 1 {
		command = args[0]
	}

	ctx := cmd.Context()
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}
	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return database.Migrate(ctx, db, cfg.Database.Driver, command, logger)
}

// runUserDelete removes an account and its tasks with administrative rights.
func runUserDelete(cmd *cobra.Command, args []string) error {
	userID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", args[0], err)
	}

	ctx := cmd.Context()
	app, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer app.cleanup()

	operator := domain.Caller{Role: domain.RoleAdmin}
	if err := app.userService.DeleteUser(ctx, operator, userID); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "deleted user %s\n", userID)
	return nil
}

// bootstrap performs the shared startup sequence: configuration, logging,
// database and dependency wiring.
func bootstrap(ctx context.Context) (*application, error) {
	cfg, err := loadAppConfig()
	if err != nil {
		return nil, err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return nil, err
	}

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return app, nil
}
