package auth

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/leapstack-labs/shading/internal/auth"
)

// SetupRoutes registers the auth actions and returns the handlers so the
// route tree can mount the pages.
func SetupRoutes(router chi.Router, svc *authsvc.Service, logger *slog.Logger) (*Handlers, error) {
	handlers := NewHandlers(svc, logger)

	// Registered flat: the same paths serve GET pages from the route tree.
	router.Post("/auth/login", handlers.Login)
	router.Post("/auth/register", handlers.Register)
	router.Post("/auth/forgot-password", handlers.ForgotPassword)
	router.Post("/auth/logout", handlers.Logout)

	return handlers, nil
}
