package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/novatasks-api/internal/domain"
	"github.com/phrazzld/novatasks-api/internal/service"
	"github.com/stretchr/testify/mock"
)

// UserService is a mock of service.UserService for use with testify/mock
type UserService struct {
	mock.Mock
}

var _ service.UserService = (*UserService)(nil)

func (m *UserService) Register(ctx context.Context, input service.RegisterInput) (*domain.User, error) {
	args := m.Called(ctx, input)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserService) DeleteUser(ctx context.Context, caller domain.Caller, userID uuid.UUID) error {
	args := m.Called(ctx, caller, userID)
	return args.Error(0)
}
