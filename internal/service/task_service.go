package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/novatasks-api/internal/authz"
	"github.com/phrazzld/novatasks-api/internal/domain"
	"github.com/phrazzld/novatasks-api/internal/events"
	"github.com/phrazzld/novatasks-api/internal/platform/logger"
	"github.com/phrazzld/novatasks-api/internal/store"
)

// CreateTaskInput carries the client-settable fields of a new task.
// The owner is always the caller.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
}

// TaskService provides task operations on behalf of an authenticated caller.
type TaskService interface {
	// List returns every task for admins, with the owner projection attached,
	// and only the caller's own tasks otherwise.
	List(ctx context.Context, caller domain.Caller) ([]*domain.Task, error)

	// Get returns a single task the caller may read.
	Get(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.Task, error)

	// Create stores a new task owned by the caller.
	Create(ctx context.Context, caller domain.Caller, input CreateTaskInput) (*domain.Task, error)

	// Update merges patch into a task the caller may modify and returns the result.
	Update(ctx context.Context, caller domain.Caller, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// Delete removes a task the caller may delete.
	Delete(ctx context.Context, caller domain.Caller, id uuid.UUID) error
}

type taskServiceImpl struct {
	tasks   store.TaskStore
	emitter events.EventEmitter
	logger  *slog.Logger
	now     func() time.Time
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, &ServiceError{Service: "task_service", Message: "task store cannot be nil"}
	}
	if emitter == nil {
		return nil, &ServiceError{Service: "task_service", Message: "event emitter cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:   tasks,
		emitter: emitter,
		logger:  logger.With("component", "task_service"),
		now:     time.Now,
	}, nil
}

// List implements TaskService.
func (s *taskServiceImpl) List(ctx context.Context, caller domain.Caller) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	scope := authz.ScopeFor(caller)
	filter := store.TaskFilter{}
	opts := store.FindOptions{}
	if ownerID, ok := scope.OwnerID(); ok {
		filter.OwnerID = &ownerID
	} else {
		opts.IncludeOwner = true
	}

	tasks, err := s.tasks.FindAll(ctx, filter, opts)
	if err != nil {
		log.Error("failed to list tasks",
			"error", err,
			"caller_id", caller.ID,
			"scope_all", scope.All())
		return nil, translateStoreError("list_tasks", err)
	}

	log.Debug("listed tasks",
		"caller_id", caller.ID,
		"scope_all", scope.All(),
		"count", len(tasks))
	return tasks, nil
}

// Get implements TaskService.
func (s *taskServiceImpl) Get(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.Task, error) {
	return s.load(ctx, "get_task", caller, id, authz.ActionRead)
}

// Create implements TaskService.
func (s *taskServiceImpl) Create(
	ctx context.Context,
	caller domain.Caller,
	input CreateTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(caller.ID, input.Title, input.Description, input.Status)
	if err != nil {
		log.Debug("rejected invalid task",
			"error", err,
			"caller_id", caller.ID)
		return nil, err
	}

	if err := s.tasks.Insert(ctx, task); err != nil {
		log.Error("failed to insert task",
			"error", err,
			"caller_id", caller.ID,
			"task_id", task.ID)
		return nil, translateStoreError("create_task", err)
	}

	log.Info("task created",
		"task_id", task.ID,
		"owner_id", task.OwnerID)
	s.emit(ctx, events.TaskCreated, task, caller)
	return task, nil
}

// Update implements TaskService.
func (s *taskServiceImpl) Update(
	ctx context.Context,
	caller domain.Caller,
	id uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	existing, err := s.load(ctx, "update_task", caller, id, authz.ActionModify)
	if err != nil {
		return nil, err
	}

	// The merged record must satisfy every bound before anything is written.
	merged := existing.Apply(patch, s.now())
	if err := merged.Validate(); err != nil {
		log.Debug("rejected invalid task update",
			"error", err,
			"task_id", id)
		return nil, err
	}

	updated, err := s.tasks.UpdateByID(ctx, id, patch, merged.UpdatedAt)
	if err != nil {
		log.Error("failed to update task",
			"error", err,
			"task_id", id)
		return nil, translateStoreError("update_task", err)
	}

	log.Info("task updated",
		"task_id", id,
		"caller_id", caller.ID)
	s.emit(ctx, events.TaskUpdated, updated, caller)
	return updated, nil
}

// Delete implements TaskService.
func (s *taskServiceImpl) Delete(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	existing, err := s.load(ctx, "delete_task", caller, id, authz.ActionDelete)
	if err != nil {
		return err
	}

	if err := s.tasks.DeleteByID(ctx, id); err != nil {
		log.Error("failed to delete task",
			"error", err,
			"task_id", id)
		return translateStoreError("delete_task", err)
	}

	log.Info("task deleted",
		"task_id", id,
		"caller_id", caller.ID)
	s.emit(ctx, events.TaskDeleted, existing, caller)
	return nil
}

// load fetches a task and asks the gate whether caller may perform action on it.
// A missing task is reported before any authorization decision.
func (s *taskServiceImpl) load(
	ctx context.Context,
	operation string,
	caller domain.Caller,
	id uuid.UUID,
	action authz.Action,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task not found", "task_id", id, "operation", operation)
		} else {
			log.Error("failed to fetch task",
				"error", err,
				"task_id", id,
				"operation", operation)
		}
		return nil, translateStoreError(operation, err)
	}

	if err := authz.Authorize(caller, task, action); err != nil {
		log.Warn("caller not authorized for task",
			"caller_id", caller.ID,
			"task_id", id,
			"action", action)
		return nil, err
	}

	return task, nil
}

// emit publishes a task event. Failures are logged and never returned: the
// mutation has already been committed.
func (s *taskServiceImpl) emit(ctx context.Context, eventType events.EventType, task *domain.Task, caller domain.Caller) {
	event := events.NewTaskEvent(eventType, task, caller.ID)
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to emit task event",
			"error", err,
			"event_type", eventType,
			"task_id", task.ID)
	}
}
