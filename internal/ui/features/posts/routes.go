package posts

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/shading/internal/posts"
)

// SetupRoutes registers the posts API and returns the page handlers.
func SetupRoutes(router chi.Router, client *posts.Client, logger *slog.Logger) (*Handlers, error) {
	handlers := NewHandlers(client, logger)

	router.Route("/api/posts", func(r chi.Router) {
		r.Post("/refresh", handlers.Refresh)
		r.Get("/{id}", handlers.Detail)
	})

	return handlers, nil
}
