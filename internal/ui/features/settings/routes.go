package settings

import "github.com/go-chi/chi/v5"

// SetupRoutes registers the settings actions and returns the page handlers.
func SetupRoutes(router chi.Router) (*Handlers, error) {
	handlers := NewHandlers()

	router.Post("/api/settings/profile", handlers.UpdateProfile)

	return handlers, nil
}
