package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/novatasks-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
// Field constraints are enforced by domain.NewUser.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of an account. The password hash never leaves the server.
type UserResponse struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// CreateTaskRequest defines the payload for creating a task.
// Owner fields in the body are not decoded; the owner is always the caller.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
}

// UpdateTaskRequest defines the payload for updating a task.
// Absent or null fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// TaskResponse is the JSON shape of a task.
//
// UserID repeats OwnerID under the name existing clients read. User is only
// present in the admin listing.
type TaskResponse struct {
	ID          uuid.UUID               `json:"id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Status      domain.TaskStatus       `json:"status"`
	OwnerID     uuid.UUID               `json:"ownerId"`
	UserID      uuid.UUID               `json:"userId"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
	User        *domain.OwnerProjection `json:"User,omitempty"`
}

// FeedMessage is one frame of the live task feed.
type FeedMessage struct {
	Type      string       `json:"type"`
	Task      TaskResponse `json:"task"`
	ActorID   uuid.UUID    `json:"actorId"`
	CreatedAt time.Time    `json:"createdAt"`
}

// toPatch converts the request into a domain patch.
func (req UpdateTaskRequest) toPatch() domain.TaskPatch {
	patch := domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		patch.Status = &status
	}
	return patch
}

func newUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

func newTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		OwnerID:     task.OwnerID,
		UserID:      task.OwnerID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		User:        task.Owner,
	}
}

func newTaskResponses(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, newTaskResponse(task))
	}
	return out
}
