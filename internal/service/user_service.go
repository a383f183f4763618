package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/novatasks-api/internal/authz"
	"github.com/phrazzld/novatasks-api/internal/domain"
	"github.com/phrazzld/novatasks-api/internal/events"
	"github.com/phrazzld/novatasks-api/internal/platform/logger"
	"github.com/phrazzld/novatasks-api/internal/service/auth"
	"github.com/phrazzld/novatasks-api/internal/store"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// UserService provides account operations.
type UserService interface {
	// Register creates a new account with a hashed password.
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	// Authenticate returns the user matching email and password,
	// or ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// DeleteUser removes an account and every task it owns in one transaction.
	// Only the account holder or an admin may do this.
	DeleteUser(ctx context.Context, caller domain.Caller, userID uuid.UUID) error
}

// UserServiceOptions tunes registration policy.
type UserServiceOptions struct {
	// AllowAdminSignup permits role "admin" at registration.
	AllowAdminSignup bool
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	users   store.UserStore
	tasks   store.TaskStore
	hasher  auth.PasswordHasher
	emitter events.EventEmitter
	opts    UserServiceOptions
	logger  *slog.Logger
}

// NewUserService creates a new UserService.
// It returns an error if any of the required dependencies are nil.
func NewUserService(
	users store.UserStore,
	tasks store.TaskStore,
	hasher auth.PasswordHasher,
	emitter events.EventEmitter,
	opts UserServiceOptions,
	logger *slog.Logger,
) (*UserServiceImpl, error) {
	if users == nil {
		return nil, &ServiceError{Service: "user_service", Message: "user store cannot be nil"}
	}
	if tasks == nil {
		return nil, &ServiceError{Service: "user_service", Message: "task store cannot be nil"}
	}
	if hasher == nil {
		return nil, &ServiceError{Service: "user_service", Message: "password hasher cannot be nil"}
	}
	if emitter == nil {
		return nil, &ServiceError{Service: "user_service", Message: "event emitter cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserServiceImpl{
		users:   users,
		tasks:   tasks,
		hasher:  hasher,
		emitter: emitter,
		opts:    opts,
		logger:  logger.With("component", "user_service"),
	}, nil
}

var _ UserService = (*UserServiceImpl)(nil)

// Register implements UserService.
func (s *UserServiceImpl) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if input.Role == domain.RoleAdmin && !s.opts.AllowAdminSignup {
		log.Warn("admin self-registration rejected", "email", input.Email)
		return nil, ErrAdminSignupDisabled
	}

	user, err := domain.NewUser(input.Name, input.Email, input.Password, input.Role)
	if err != nil {
		log.Debug("rejected invalid registration", "error", err)
		return nil, err
	}

	hash, err := s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, &StoreFailure{Operation: "register", Err: err}
	}
	user.HashedPassword = hash
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration with existing email", "email", user.Email)
		} else {
			log.Error("failed to create user", "error", err, "email", user.Email)
		}
		return nil, translateStoreError("register", err)
	}

	log.Info("user registered",
		"user_id", user.ID,
		"role", user.Role)
	return user, nil
}

// Authenticate implements UserService.
func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown email")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user for login", "error", err)
		return nil, translateStoreError("authenticate", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser implements UserService.
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		log := logger.FromContextOrDefault(ctx, s.logger)
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("user not found", "user_id", userID)
		} else {
			log.Error("failed to retrieve user", "error", err, "user_id", userID)
		}
		return nil, translateStoreError("get_user", err)
	}
	return user, nil
}

// DeleteUser implements UserService.
// The owned tasks are deleted explicitly inside the transaction as well as by
// the foreign key cascade, so the result does not depend on the driver
// enforcing foreign keys.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, caller domain.Caller, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if authz.PermitUser(caller, userID) == authz.Deny {
		log.Warn("caller not authorized to delete user",
			"caller_id", caller.ID,
			"user_id", userID)
		return authz.ErrNotAuthorized
	}

	var removed []*domain.Task
	err := store.RunInTransaction(ctx, s.users.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txUsers := s.users.WithTx(tx)
		txTasks := s.tasks.WithTx(tx)

		if _, err := txUsers.GetByID(ctx, userID); err != nil {
			return err
		}

		owned, err := txTasks.FindAll(ctx, store.TaskFilter{OwnerID: &userID}, store.FindOptions{})
		if err != nil {
			return err
		}

		count, err := txTasks.DeleteByOwner(ctx, userID)
		if err != nil {
			return err
		}

		if err := txUsers.Delete(ctx, userID); err != nil {
			return err
		}

		removed = owned
		log.Debug("deleted user tasks in transaction",
			"user_id", userID,
			"task_count", count)
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("attempted to delete non-existent user", "user_id", userID)
		} else {
			log.Error("failed to delete user", "error", err, "user_id", userID)
		}
		return translateStoreError("delete_user", err)
	}

	log.Info("user deleted",
		"user_id", userID,
		"caller_id", caller.ID,
		"task_count", len(removed))

	for _, task := range removed {
		event := events.NewTaskEvent(events.TaskDeleted, task, caller.ID)
		if err := s.emitter.EmitEvent(ctx, event); err != nil {
			log.Warn("failed to emit task event",
				"error", err,
				"event_type", events.TaskDeleted,
				"task_id", task.ID)
		}
	}
	return nil
}
