package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/novatasks-api/internal/api/shared"
	"github.com/phrazzld/novatasks-api/internal/domain"
	"github.com/phrazzld/novatasks-api/internal/platform/logger"
	"github.com/phrazzld/novatasks-api/internal/service"
	"github.com/phrazzld/novatasks-api/internal/service/auth"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	users      service.UserService
	jwtService auth.JWTService
	validator  *validator.Validate
	logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	users service.UserService,
	jwtService auth.JWTService,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:      users,
		jwtService: jwtService,
		validator:  validator.New(),
		logger:     logger.With("component", "auth_handler"),
	}
}

// Register handles the /auth/register endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, user)
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest,
			"Please provide an email and password", err)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	h.respondWithToken(w, r, http.StatusOK, user)
}

// Me handles the /auth/me endpoint and returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetUser(r.Context(), caller.ID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, newUserResponse(user))
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user *domain.User) {
	token, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Error("failed to generate token",
			"error", err,
			"user_id", user.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithToken(w, r, status, token, newUserResponse(user))
}
