package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/novatasks-api/internal/domain"
	"github.com/phrazzld/novatasks-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TaskStore is a mock of store.TaskStore for use with testify/mock
type TaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*TaskStore)(nil)

// FindByID is a mock implementation of store.TaskStore.FindByID
func (m *TaskStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// FindAll is a mock implementation of store.TaskStore.FindAll
func (m *TaskStore) FindAll(
	ctx context.Context,
	filter store.TaskFilter,
	opts store.FindOptions,
) ([]*domain.Task, error) {
	args := m.Called(ctx, filter, opts)
	if tasks, ok := args.Get(0).([]*domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// Insert is a mock implementation of store.TaskStore.Insert
func (m *TaskStore) Insert(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// UpdateByID is a mock implementation of store.TaskStore.UpdateByID
func (m *TaskStore) UpdateByID(
	ctx context.Context,
	id uuid.UUID,
	patch domain.TaskPatch,
	updatedAt time.Time,
) (*domain.Task, error) {
	args := m.Called(ctx, id, patch, updatedAt)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// DeleteByID is a mock implementation of store.TaskStore.DeleteByID
func (m *TaskStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// DeleteByOwner is a mock implementation of store.TaskStore.DeleteByOwner
func (m *TaskStore) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

// WithTx returns the mock itself; transactional behaviour is covered by the SQL store tests.
func (m *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
