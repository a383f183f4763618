package database_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/phrazzld/novatasks-api/internal/config"
	"github.com/phrazzld/novatasks-api/internal/domain"
	"github.com/phrazzld/novatasks-api/internal/platform/database"
	"github.com/phrazzld/novatasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPostgresStores runs the store round trip against a real PostgreSQL
// server when NOVATASKS_TEST_PG_DSN is set. The schema is reset first.
func TestPostgresStores(t *testing.T) {
	dsn := os.Getenv("NOVATASKS_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("NOVATASKS_TEST_PG_DSN not set, skipping PostgreSQL integration test")
	}

	ctx := context.Background()
	db, err := database.Open(ctx, config.DatabaseConfig{Driver: database.DriverPostgres, DSN: dsn}, nil)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, database.Migrate(ctx, db, database.DriverPostgres, database.MigrateReset, nil))
	require.NoError(t, database.Migrate(ctx, db, database.DriverPostgres, database.MigrateUp, nil))

	users := database.NewSQLUserStore(db, nil)
	tasks := database.NewSQLTaskStore(db, nil)

	alice := createUser(t, users, "alice", domain.RoleUser)
	task := newTask(t, alice.ID, "A", time.Now().UTC().Truncate(time.Microsecond))
	require.NoError(t, tasks.Insert(ctx, task))

	all, err := tasks.FindAll(ctx, store.TaskFilter{}, store.FindOptions{IncludeOwner: true})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "alice", all[0].Owner.Name)

	dup := *alice
	err = users.Create(ctx, &dup)
	assert.ErrorIs(t, err, store.ErrEmailExists)

	require.NoError(t, users.Delete(ctx, alice.ID))
	_, err = tasks.FindByID(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}
