package database

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/novatasks-api/internal/domain"
	"github.com/phrazzld/novatasks-api/internal/platform/logger"
	"github.com/phrazzld/novatasks-api/internal/store"
)

// SQLUserStore implements the store.UserStore interface on database/sql.
type SQLUserStore struct {
	db     store.DBTX
	sqlDB  *sql.DB
	logger *slog.Logger
}

// NewSQLUserStore creates a UserStore backed by db.
// If logger is nil, a default logger will be used.
func NewSQLUserStore(db *sql.DB, logger *slog.Logger) *SQLUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SQLUserStore{
		db:     db,
		sqlDB:  db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure SQLUserStore implements store.UserStore interface
var _ store.UserStore = (*SQLUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *SQLUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &SQLUserStore{db: tx, sqlDB: s.sqlDB, logger: s.logger}
}

// DB implements store.UserStore.DB
func (s *SQLUserStore) DB() *sql.DB {
	return s.sqlDB
}

// Create implements store.UserStore.Create
func (s *SQLUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user.HashedPassword == "" {
		return domain.NewValidationError("password", "must be hashed before storage", domain.ErrValidation)
	}
	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	query := `
		INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		strings.ToLower(user.Email),
		user.HashedPassword,
		string(user.Role),
		user.CreatedAt.UTC(),
		user.UpdatedAt.UTC(),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("email already exists", slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return store.NewStoreError("user", "create", "insert failed", MapError(err))
	}

	log.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *SQLUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, `WHERE id = $1`, id, slog.String("user_id", id.String()))
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *SQLUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return s.getOne(ctx, `WHERE email = $1`, normalized)
}

func (s *SQLUserStore) getOne(ctx context.Context, where string, arg any, attrs ...any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(attrs...)

	query := `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users
	` + where

	var (
		user domain.User
		role string
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.HashedPassword,
		&role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found")
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user", slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "get", "query failed", MapError(err))
	}

	user.Role = domain.Role(role)
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return &user, nil
}

// Delete implements store.UserStore.Delete
func (s *SQLUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return store.NewStoreError("user", "delete", "delete failed", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		log.Debug("user not found for delete", slog.String("user_id", id.String()))
		return err
	}

	log.Info("user deleted", slog.String("user_id", id.String()))
	return nil
}
