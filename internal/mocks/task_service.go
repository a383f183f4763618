package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/novatasks-api/internal/domain"
	"github.com/phrazzld/novatasks-api/internal/service"
	"github.com/stretchr/testify/mock"
)

// TaskService is a mock of service.TaskService for use with testify/mock
type TaskService struct {
	mock.Mock
}

var _ service.TaskService = (*TaskService)(nil)

func (m *TaskService) List(ctx context.Context, caller domain.Caller) ([]*domain.Task, error) {
	args := m.Called(ctx, caller)
	if tasks, ok := args.Get(0).([]*domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskService) Get(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, caller, id)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskService) Create(
	ctx context.Context,
	caller domain.Caller,
	input service.CreateTaskInput,
) (*domain.Task, error) {
	args := m.Called(ctx, caller, input)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskService) Update(
	ctx context.Context,
	caller domain.Caller,
	id uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	args := m.Called(ctx, caller, id, patch)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskService) Delete(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}
