package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/novatasks-api/internal/domain"
	"github.com/phrazzld/novatasks-api/internal/platform/logger"
	"github.com/phrazzld/novatasks-api/internal/store"
)

const taskColumns = `t.id, t.user_id, t.title, t.description, t.status, t.created_at, t.updated_at`

// SQLTaskStore implements the store.TaskStore interface on database/sql.
type SQLTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLTaskStore creates a TaskStore backed by db, which may be a *sql.DB or a *sql.Tx.
// If logger is nil, a default logger will be used.
func NewSQLTaskStore(db store.DBTX, logger *slog.Logger) *SQLTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SQLTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure SQLTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*SQLTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *SQLTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &SQLTaskStore{db: tx, logger: s.logger}
}

// FindByID implements store.TaskStore.FindByID
func (s *SQLTaskStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, store.NewStoreError("task", "find", "query failed", MapError(err))
	}

	return task, nil
}

// FindAll implements store.TaskStore.FindAll
func (s *SQLTaskStore) FindAll(
	ctx context.Context,
	filter store.TaskFilter,
	opts store.FindOptions,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var b strings.Builder
	b.WriteString(`SELECT ` + taskColumns)
	if opts.IncludeOwner {
		b.WriteString(`, u.name, u.email FROM tasks t JOIN users u ON u.id = t.user_id`)
	} else {
		b.WriteString(` FROM tasks t`)
	}

	var args []any
	if filter.OwnerID != nil {
		b.WriteString(` WHERE t.user_id = $1`)
		args = append(args, *filter.OwnerID)
	}
	b.WriteString(` ORDER BY t.created_at, t.id`)

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "find_all", "query failed", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		var (
			task   *domain.Task
			errRow error
		)
		if opts.IncludeOwner {
			task, errRow = scanTaskWithOwner(rows)
		} else {
			task, errRow = scanTask(rows)
		}
		if errRow != nil {
			log.Error("failed to scan task row", slog.String("error", errRow.Error()))
			return nil, store.NewStoreError("task", "find_all", "scan failed", errRow)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "find_all", "row iteration failed", err)
	}

	log.Debug("found tasks",
		slog.Int("count", len(tasks)),
		slog.Bool("include_owner", opts.IncludeOwner),
		slog.Bool("filtered", filter.OwnerID != nil))
	return tasks, nil
}

// Insert implements store.TaskStore.Insert
func (s *SQLTaskStore) Insert(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during insert",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, user_id, title, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		string(task.Status),
		task.CreatedAt.UTC(),
		task.UpdatedAt.UTC(),
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task insert",
				slog.String("task_id", task.ID.String()),
				slog.String("owner_id", task.OwnerID.String()))
			return store.NewStoreError("task", "insert",
				fmt.Sprintf("user with ID %s not found", task.OwnerID), MapError(err))
		}
		log.Error("failed to insert task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "insert", "insert failed", MapError(err))
	}

	log.Debug("task inserted",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", task.OwnerID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// UpdateByID implements store.TaskStore.UpdateByID
func (s *SQLTaskStore) UpdateByID(
	ctx context.Context,
	id uuid.UUID,
	patch domain.TaskPatch,
	updatedAt time.Time,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	add("updated_at", updatedAt.UTC())

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, store.NewStoreError("task", "update", "update failed", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("task not found for update", slog.String("task_id", id.String()))
		return nil, err
	}

	log.Info("task updated", slog.String("task_id", id.String()))
	return s.FindByID(ctx, id)
}

// DeleteByID implements store.TaskStore.DeleteByID
func (s *SQLTaskStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return store.NewStoreError("task", "delete", "delete failed", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("task not found for delete", slog.String("task_id", id.String()))
		return err
	}

	log.Info("task deleted", slog.String("task_id", id.String()))
	return nil
}

// DeleteByOwner implements store.TaskStore.DeleteByOwner
func (s *SQLTaskStore) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE user_id = $1`, ownerID)
	if err != nil {
		log.Error("failed to delete tasks by owner",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return 0, store.NewStoreError("task", "delete_by_owner", "delete failed", MapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, store.NewStoreError("task", "delete_by_owner", "rows affected unavailable", err)
	}

	log.Info("tasks deleted for owner",
		slog.String("owner_id", ownerID.String()),
		slog.Int64("count", n))
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task   domain.Task
		status string
	)
	if err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&status,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	task.Status = domain.TaskStatus(status)
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return &task, nil
}

func scanTaskWithOwner(row rowScanner) (*domain.Task, error) {
	var (
		task   domain.Task
		status string
		owner  domain.OwnerProjection
	)
	if err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&status,
		&task.CreatedAt,
		&task.UpdatedAt,
		&owner.Name,
		&owner.Email,
	); err != nil {
		return nil, err
	}
	task.Status = domain.TaskStatus(status)
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	task.Owner = &owner
	return &task, nil
}
