package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/novatasks-api/internal/authz"
	"github.com/phrazzld/novatasks-api/internal/domain"
	"github.com/phrazzld/novatasks-api/internal/events"
	"github.com/phrazzld/novatasks-api/internal/mocks"
	"github.com/phrazzld/novatasks-api/internal/service"
	"github.com/phrazzld/novatasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type taskFixture struct {
	tasks   *mocks.TaskStore
	emitter *mocks.EventEmitter
	svc     service.TaskService
	alice   domain.Caller
	bob     domain.Caller
	admin   domain.Caller
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()

	tasks := new(mocks.TaskStore)
	emitter := &mocks.EventEmitter{}
	svc, err := service.NewTaskService(tasks, emitter, testLogger)
	require.NoError(t, err)

	return &taskFixture{
		tasks:   tasks,
		emitter: emitter,
		svc:     svc,
		alice:   domain.Caller{ID: uuid.New(), Role: domain.RoleUser},
		bob:     domain.Caller{ID: uuid.New(), Role: domain.RoleUser},
		admin:   domain.Caller{ID: uuid.New(), Role: domain.RoleAdmin},
	}
}

func ownedTask(t *testing.T, ownerID uuid.UUID) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(ownerID, "Write report", "Quarterly numbers", domain.TaskStatusPending)
	require.NoError(t, err)
	return task
}

func ptr[T any](v T) *T {
	return &v
}

func TestNewTaskService(t *testing.T) {
	_, err := service.NewTaskService(nil, &mocks.EventEmitter{}, testLogger)
	var svcErr *service.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "task_service", svcErr.Service)

	_, err = service.NewTaskService(new(mocks.TaskStore), nil, testLogger)
	assert.Error(t, err)

	svc, err := service.NewTaskService(new(mocks.TaskStore), &mocks.EventEmitter{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestTaskService_List(t *testing.T) {
	t.Run("admin sees every task with owner projection", func(t *testing.T) {
		f := newTaskFixture(t)
		all := []*domain.Task{ownedTask(t, f.alice.ID), ownedTask(t, f.bob.ID)}
		f.tasks.On("FindAll", mock.Anything, store.TaskFilter{}, store.FindOptions{IncludeOwner: true}).
			Return(all, nil)

		got, err := f.svc.List(context.Background(), f.admin)

		require.NoError(t, err)
		assert.Len(t, got, 2)
		f.tasks.AssertExpectations(t)
	})

	t.Run("user sees only own tasks", func(t *testing.T) {
		f := newTaskFixture(t)
		own := []*domain.Task{ownedTask(t, f.alice.ID)}
		f.tasks.On("FindAll", mock.Anything,
			mock.MatchedBy(func(filter store.TaskFilter) bool {
				return filter.OwnerID != nil && *filter.OwnerID == f.alice.ID
			}),
			store.FindOptions{}).
			Return(own, nil)

		got, err := f.svc.List(context.Background(), f.alice)

		require.NoError(t, err)
		assert.Equal(t, own, got)
		f.tasks.AssertExpectations(t)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newTaskFixture(t)
		f.tasks.On("FindAll", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("disk I/O error"))

		_, err := f.svc.List(context.Background(), f.alice)

		var failure *service.StoreFailure
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, "disk I/O error", err.Error())
		assert.Equal(t, "list_tasks", failure.Operation)
	})
}

func TestTaskService_Get(t *testing.T) {
	t.Run("owner can read", func(t *testing.T) {
		f := newTaskFixture(t)
		task := ownedTask(t, f.alice.ID)
		f.tasks.On("FindByID", mock.Anything, task.ID).Return(task, nil)

		got, err := f.svc.Get(context.Background(), f.alice, task.ID)

		require.NoError(t, err)
		assert.Equal(t, task, got)
	})

	t.Run("admin can read any task", func(t *testing.T) {
		f := newTaskFixture(t)
		task := ownedTask(t, f.alice.ID)
		f.tasks.On("FindByID", mock.Anything, task.ID).Return(task, nil)

		_, err := f.svc.Get(context.Background(), f.admin, task.ID)
		assert.NoError(t, err)
	})

	t.Run("other user is not authorized", func(t *testing.T) {
		f := newTaskFixture(t)
		task := ownedTask(t, f.alice.ID)
		f.tasks.On("FindByID", mock.Anything, task.ID).Return(task, nil)

		got, err := f.svc.Get(context.Background(), f.bob, task.ID)

		assert.ErrorIs(t, err, authz.ErrNotAuthorized)
		assert.Nil(t, got)
	})

	t.Run("not found is reported before authorization", func(t *testing.T) {
		f := newTaskFixture(t)
		id := uuid.New()
		f.tasks.On("FindByID", mock.Anything, id).Return(nil, store.ErrTaskNotFound)

		_, err := f.svc.Get(context.Background(), f.bob, id)

		assert.ErrorIs(t, err, service.ErrTaskNotFound)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NotErrorIs(t, err, authz.ErrNotAuthorized)
	})
}

func TestTaskService_Create(t *testing.T) {
	t.Run("owner is forced to the caller", func(t *testing.T) {
		f := newTaskFixture(t)
		f.tasks.On("Insert", mock.Anything, mock.MatchedBy(func(task *domain.Task) bool {
			return task.OwnerID == f.alice.ID &&
				task.Status == domain.TaskStatusPending &&
				task.ID != uuid.Nil
		})).Return(nil)

		got, err := f.svc.Create(context.Background(), f.alice, service.CreateTaskInput{
			Title:       "Write report",
			Description: "Quarterly numbers",
		})

		require.NoError(t, err)
		assert.Equal(t, f.alice.ID, got.OwnerID)
		assert.Equal(t, domain.TaskStatusPending, got.Status)
		assert.False(t, got.CreatedAt.IsZero())
		f.tasks.AssertExpectations(t)

		require.Len(t, f.emitter.Events(), 1)
		event := f.emitter.Events()[0]
		assert.Equal(t, events.TaskCreated, event.Type)
		assert.Equal(t, got.ID, event.Task.ID)
		assert.Equal(t, f.alice.ID, event.ActorID)
	})

	t.Run("validation failure never reaches the store", func(t *testing.T) {
		f := newTaskFixture(t)

		_, err := f.svc.Create(context.Background(), f.alice, service.CreateTaskInput{
			Title:       "",
			Description: "Quarterly numbers",
		})

		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "title", validationErr.Field)
		f.tasks.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		assert.Empty(t, f.emitter.Events())
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		f := newTaskFixture(t)

		_, err := f.svc.Create(context.Background(), f.alice, service.CreateTaskInput{
			Title:       "Write report",
			Description: "Quarterly numbers",
			Status:      "blocked",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("store failure is forwarded", func(t *testing.T) {
		f := newTaskFixture(t)
		storeErr := store.NewStoreError("task", "insert", "user not found", store.ErrInvalidEntity)
		f.tasks.On("Insert", mock.Anything, mock.Anything).Return(storeErr)

		_, err := f.svc.Create(context.Background(), f.alice, service.CreateTaskInput{
			Title:       "Write report",
			Description: "Quarterly numbers",
		})

		var failure *service.StoreFailure
		require.ErrorAs(t, err, &failure)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.Equal(t, storeErr.Error(), err.Error())
	})

	t.Run("emitter failure does not fail the operation", func(t *testing.T) {
		f := newTaskFixture(t)
		f.emitter.Err = errors.New("feed closed")
		f.tasks.On("Insert", mock.Anything, mock.Anything).Return(nil)

		_, err := f.svc.Create(context.Background(), f.alice, service.CreateTaskInput{
			Title:       "Write report",
			Description: "Quarterly numbers",
		})

		assert.NoError(t, err)
	})
}

func TestTaskService_Update(t *testing.T) {
	t.Run("owner updates status", func(t *testing.T) {
		f := newTaskFixture(t)
		task := ownedTask(t, f.alice.ID)
		patch := domain.TaskPatch{Status: ptr(domain.TaskStatusCompleted)}
		updated := task.Apply(patch, time.Now())

		f.tasks.On("FindByID", mock.Anything, task.ID).Return(task, nil)
		f.tasks.On("UpdateByID", mock.Anything, task.ID, patch, mock.AnythingOfType("time.Time")).
			Return(updated, nil)

		got, err := f.svc.Update(context.Background(), f.alice, task.ID, patch)

		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, got.Status)
		assert.Equal(t, f.alice.ID, got.OwnerID)
		assert.Equal(t, []events.EventType{events.TaskUpdated}, f.emitter.Types())
		f.tasks.AssertExpectations(t)
	})

	t.Run("admin may update another user's task", func(t *testing.T) {
		f := newTaskFixture(t)
		task := ownedTask(t, f.alice.ID)
		patch := domain.TaskPatch{Title: ptr("Renamed")}

		f.tasks.On("FindByID", mock.Anything, task.ID).Return(task, nil)
		f.tasks.On("UpdateByID", mock.Anything, task.ID, patch, mock.Anything).
			Return(task.Apply(patch, time.Now()), nil)

		got, err := f.svc.Update(context.Background(), f.admin, task.ID, patch)

		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)
		assert.Equal(t, f.alice.ID, got.OwnerID)
	})

	t.Run("non-owner is rejected without a write", func(t *testing.T) {
		f := newTaskFixture(t)
		task := ownedTask(t, f.alice.ID)
		f.tasks.On("FindByID", mock.Anything, task.ID).Return(task, nil)

		_, err := f.svc.Update(context.Background(), f.bob, task.ID, domain.TaskPatch{Title: ptr("x")})

		assert.ErrorIs(t, err, authz.ErrNotAuthorized)
		f.tasks.AssertNotCalled(t, "UpdateByID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.emitter.Events())
	})

	t.Run("empty title is rejected", func(t *testing.T) {
		f := newTaskFixture(t)
		task := ownedTask(t, f.alice.ID)
		f.tasks.On("FindByID", mock.Anything, task.ID).Return(task, nil)

		_, err := f.svc.Update(context.Background(), f.alice, task.ID, domain.TaskPatch{Title: ptr("")})

		assert.ErrorIs(t, err, domain.ErrValidation)
		f.tasks.AssertNotCalled(t, "UpdateByID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		f := newTaskFixture(t)
		task := ownedTask(t, f.alice.ID)
		f.tasks.On("FindByID", mock.Anything, task.ID).Return(task, nil)

		status := domain.TaskStatus("archived")
		_, err := f.svc.Update(context.Background(), f.alice, task.ID, domain.TaskPatch{Status: &status})

		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("missing task", func(t *testing.T) {
		f := newTaskFixture(t)
		id := uuid.New()
		f.tasks.On("FindByID", mock.Anything, id).Return(nil, store.ErrTaskNotFound)

		_, err := f.svc.Update(context.Background(), f.alice, id, domain.TaskPatch{Title: ptr("x")})

		assert.ErrorIs(t, err, service.ErrTaskNotFound)
	})

	t.Run("task deleted between read and write", func(t *testing.T) {
		f := newTaskFixture(t)
		task := ownedTask(t, f.alice.ID)
		f.tasks.On("FindByID", mock.Anything, task.ID).Return(task, nil)
		f.tasks.On("UpdateByID", mock.Anything, task.ID, mock.Anything, mock.Anything).
			Return(nil, store.ErrTaskNotFound)

		_, err := f.svc.Update(context.Background(), f.alice, task.ID, domain.TaskPatch{Title: ptr("x")})

		assert.ErrorIs(t, err, service.ErrTaskNotFound)
		assert.Empty(t, f.emitter.Events())
	})
}

func TestTaskService_Delete(t *testing.T) {
	t.Run("owner deletes, second delete is not found", func(t *testing.T) {
		f := newTaskFixture(t)
		task := ownedTask(t, f.alice.ID)
		f.tasks.On("FindByID", mock.Anything, task.ID).Return(task, nil).Once()
		f.tasks.On("DeleteByID", mock.Anything, task.ID).Return(nil).Once()
		f.tasks.On("FindByID", mock.Anything, task.ID).Return(nil, store.ErrTaskNotFound).Once()

		require.NoError(t, f.svc.Delete(context.Background(), f.alice, task.ID))
		err := f.svc.Delete(context.Background(), f.alice, task.ID)

		assert.ErrorIs(t, err, service.ErrTaskNotFound)
		f.tasks.AssertNumberOfCalls(t, "DeleteByID", 1)

		require.Len(t, f.emitter.Events(), 1)
		event := f.emitter.Events()[0]
		assert.Equal(t, events.TaskDeleted, event.Type)
		assert.Equal(t, task.ID, event.Task.ID)
		assert.Equal(t, f.alice.ID, event.OwnerID())
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		f := newTaskFixture(t)
		task := ownedTask(t, f.alice.ID)
		f.tasks.On("FindByID", mock.Anything, task.ID).Return(task, nil)

		err := f.svc.Delete(context.Background(), f.bob, task.ID)

		assert.ErrorIs(t, err, authz.ErrNotAuthorized)
		f.tasks.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
	})

	t.Run("admin deletes another user's task", func(t *testing.T) {
		f := newTaskFixture(t)
		task := ownedTask(t, f.bob.ID)
		f.tasks.On("FindByID", mock.Anything, task.ID).Return(task, nil)
		f.tasks.On("DeleteByID", mock.Anything, task.ID).Return(nil)

		assert.NoError(t, f.svc.Delete(context.Background(), f.admin, task.ID))
		assert.Equal(t, f.admin.ID, f.emitter.Events()[0].ActorID)
	})
}
