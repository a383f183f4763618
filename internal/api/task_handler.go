package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/novatasks-api/internal/api/shared"
	"github.com/phrazzld/novatasks-api/internal/domain"
	"github.com/phrazzld/novatasks-api/internal/platform/logger"
	"github.com/phrazzld/novatasks-api/internal/service"
)

// TaskHandler handles the /tasks endpoints.
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With("component", "task_handler"),
	}
}

// List handles GET /tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	tasks, err := h.tasks.List(r.Context(), caller)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithList(w, r, http.StatusOK, newTaskResponses(tasks))
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := handleCallerAndPathUUID(w, r, "id", MsgTaskNotFound)
	if !ok {
		return
	}

	task, err := h.tasks.Get(r.Context(), caller, id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, newTaskResponse(task))
}

// Create handles POST /tasks. The new task is owned by the caller.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	task, err := h.tasks.Create(r.Context(), caller, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("task created",
		"task_id", task.ID,
		"owner_id", task.OwnerID)

	shared.RespondWithData(w, r, http.StatusCreated, newTaskResponse(task))
}

// Update handles PUT /tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := handleCallerAndPathUUID(w, r, "id", MsgTaskNotFound)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	task, err := h.tasks.Update(r.Context(), caller, id, req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, newTaskResponse(task))
}

// Delete handles DELETE /tasks/{id}. A successful delete returns an empty object.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := handleCallerAndPathUUID(w, r, "id", MsgTaskNotFound)
	if !ok {
		return
	}

	if err := h.tasks.Delete(r.Context(), caller, id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("task deleted", "task_id", id)

	shared.RespondWithData(w, r, http.StatusOK, struct{}{})
}
