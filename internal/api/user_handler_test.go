package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/novatasks-api/internal/authz"
	"github.com/phrazzld/novatasks-api/internal/mocks"
	"github.com/phrazzld/novatasks-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUserHandler_Delete(t *testing.T) {
	target := uuid.New()

	tests := []struct {
		name        string
		id          string
		serviceErr  error
		wantStatus  int
		wantMessage string
		wantCall    bool
	}{
		{name: "deleted", id: target.String(), wantStatus: http.StatusOK, wantCall: true},
		{
			name:        "someone else's account",
			id:          target.String(),
			serviceErr:  authz.ErrNotAuthorized,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Not authorized",
			wantCall:    true,
		},
		{
			name:        "unknown account",
			id:          target.String(),
			serviceErr:  service.ErrUserNotFound,
			wantStatus:  http.StatusNotFound,
			wantMessage: "User not found",
			wantCall:    true,
		},
		{name: "malformed id", id: "42", wantStatus: http.StatusNotFound, wantMessage: "User not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mocks.UserService{}
			handler := NewUserHandler(users, nil)
			if tt.wantCall {
				users.On("DeleteUser", mock.Anything, adminCaller, target).Return(tt.serviceErr)
			}

			rec := httptest.NewRecorder()
			req := newTestRequest(t, http.MethodDelete, "/api/v1/users/"+tt.id, nil, &adminCaller,
				map[string]string{"id": tt.id})
			handler.Delete(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			env := decodeEnvelope(t, rec)
			if tt.wantMessage == "" {
				assert.True(t, env.Success)
				assert.JSONEq(t, `{}`, string(env.Data))
			} else {
				assert.Equal(t, tt.wantMessage, env.Message)
			}
			users.AssertExpectations(t)
		})
	}
}
