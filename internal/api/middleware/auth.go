package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/phrazzld/novatasks-api/internal/api/shared"
	"github.com/phrazzld/novatasks-api/internal/domain"
	"github.com/phrazzld/novatasks-api/internal/service/auth"
	"github.com/phrazzld/novatasks-api/internal/store"
)

// MsgNotAuthorizedRoute is the body message for every authentication failure.
const MsgNotAuthorizedRoute = "Not authorized to access this route"

// UserLookup loads the account a token was issued for.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	users      UserLookup
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
	}
}

// Authenticate validates the bearer token, loads the user it names and stores
// the user as a domain.Caller in the request context.
//
// The role comes from the user row on every request, so a role change takes
// effect without reissuing tokens. WebSocket upgrade requests may pass the
// token as the "token" query parameter instead of a header.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, MsgNotAuthorizedRoute)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgNotAuthorizedRoute, err)
			return
		}

		user, err := m.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgNotAuthorizedRoute, err,
					shared.WithElevatedLogLevel())
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			return
		}

		ctx := shared.WithCaller(r.Context(), user.Caller())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from the Authorization header, or from the
// query string of a WebSocket handshake.
func bearerToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", false
		}
		return parts[1], true
	}

	if websocket.IsWebSocketUpgrade(r) {
		if token := r.URL.Query().Get("token"); token != "" {
			return token, true
		}
	}
	return "", false
}

// GetCaller extracts the authenticated caller from the request context.
func GetCaller(r *http.Request) (domain.Caller, bool) {
	return shared.CallerFromContext(r.Context())
}
