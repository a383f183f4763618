package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite3/*.sql migrations/postgres/*.sql
var embeddedMigrations embed.FS

// MigrationTableName is the table goose uses to track applied migrations.
const MigrationTableName = "schema_migrations"

// goose keeps its dialect, base FS and logger in package globals.
var gooseMu sync.Mutex

// Migration commands accepted by Migrate.
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateReset   = "reset"
	MigrateStatus  = "status"
	MigrateVersion = "version"
)

// Migrate runs a goose command against db using the embedded migrations for driver.
func Migrate(ctx context.Context, db *sql.DB, driver, command string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(
		slog.String("component", "migrations"),
		slog.String("command", command),
		slog.String("driver", driver),
	)

	dialect, dir, err := migrationSource(driver)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embeddedMigrations)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(&gooseLogger{log: log})
	goose.SetTableName(MigrationTableName)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	log.Debug("running migration command")

	switch command {
	case MigrateUp:
		err = goose.UpContext(ctx, db, dir)
	case MigrateDown:
		err = goose.DownContext(ctx, db, dir)
	case MigrateReset:
		err = goose.ResetContext(ctx, db, dir)
	case MigrateStatus:
		err = goose.StatusContext(ctx, db, dir)
	case MigrateVersion:
		err = goose.VersionContext(ctx, db, dir)
	default:
		return fmt.Errorf(
			"unknown migration command: %s (expected up, down, reset, status or version)",
			command,
		)
	}
	if err != nil {
		log.Error("migration command failed", slog.String("error", err.Error()))
		return fmt.Errorf("migration command '%s' failed: %w", command, err)
	}

	log.Info("migration command executed successfully")
	return nil
}

// MigrationFiles lists the embedded migration files for driver.
func MigrationFiles(driver string) ([]string, error) {
	_, dir, err := migrationSource(driver)
	if err != nil {
		return nil, err
	}
	return fs.Glob(embeddedMigrations, dir+"/*.sql")
}

func migrationSource(driver string) (dialect, dir string, err error) {
	switch driver {
	case DriverSQLite:
		return "sqlite3", "migrations/sqlite3", nil
	case DriverPostgres:
		return "postgres", "migrations/postgres", nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// gooseLogger forwards goose output to slog. Fatalf does not exit; the
// error is returned to the caller instead.
type gooseLogger struct {
	log *slog.Logger
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info(fmt.Sprintf(format, v...))
}

func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Error(fmt.Sprintf(format, v...))
}
