package database_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/novatasks-api/internal/config"
	"github.com/phrazzld/novatasks-api/internal/domain"
	"github.com/phrazzld/novatasks-api/internal/platform/database"
	"github.com/stretchr/testify/require"
)

// openTestDB returns a migrated private in-memory SQLite database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	db, err := database.Open(ctx, config.DatabaseConfig{
		Driver: database.DriverSQLite,
		DSN:    "file::memory:",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(ctx, db, database.DriverSQLite, database.MigrateUp, nil))
	return db
}

func createUser(t *testing.T, users *database.SQLUserStore, name string, role domain.Role) *domain.User {
	t.Helper()

	user, err := domain.NewUser(name, name+"@example.com", "secret1", role)
	require.NoError(t, err)
	user.HashedPassword = "$2a$10$" + uuid.NewString()
	user.Password = ""
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func newTask(t *testing.T, ownerID uuid.UUID, title string, createdAt time.Time) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(ownerID, title, "do "+title, "")
	require.NoError(t, err)
	task.CreatedAt = createdAt
	task.UpdatedAt = createdAt
	return task
}
