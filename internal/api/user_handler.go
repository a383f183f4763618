package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/novatasks-api/internal/api/shared"
	"github.com/phrazzld/novatasks-api/internal/platform/logger"
	"github.com/phrazzld/novatasks-api/internal/service"
)

// UserHandler handles the /users endpoints.
type UserHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users service.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		users:  users,
		logger: logger.With("component", "user_handler"),
	}
}

// Delete handles DELETE /users/{id}. The account's tasks are removed with it.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := handleCallerAndPathUUID(w, r, "id", MsgUserNotFound)
	if !ok {
		return
	}

	if err := h.users.DeleteUser(r.Context(), caller, id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("user deleted",
		"user_id", id,
		"actor_id", caller.ID)

	shared.RespondWithData(w, r, http.StatusOK, struct{}{})
}
