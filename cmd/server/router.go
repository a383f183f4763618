package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"
	"github.com/phrazzld/novatasks-api/internal/api"
	apiMiddleware "github.com/phrazzld/novatasks-api/internal/api/middleware"
	"github.com/phrazzld/novatasks-api/internal/api/shared"
)

// setupRouter creates and configures the application router with all routes and middleware.
// The returned handler is wrapped in CORS handling for the configured SPA origins.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.userStore)

	r.Route("/api/v1", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", authHandler.Me)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Get("/feed", app.feedHub.ServeHTTP)
				r.Get("/{id}", taskHandler.Get)
				r.Put("/{id}", taskHandler.Update)
				r.Delete("/{id}", taskHandler.Delete)
			})

			r.Delete("/users/{id}", userHandler.Delete)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	cors := handlers.CORS(
		handlers.AllowedOrigins(app.config.Server.CORSOrigins),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.ExposedHeaders([]string{shared.TraceIDHeader}),
		handlers.AllowCredentials(),
	)

	return cors(r)
}
