package counter

import "github.com/go-chi/chi/v5"

// SetupRoutes registers the counter actions and returns the page handlers.
func SetupRoutes(router chi.Router) (*Handlers, error) {
	handlers := NewHandlers()

	router.Route("/api/counter", func(r chi.Router) {
		r.Post("/increment", handlers.Increment)
		r.Post("/decrement", handlers.Decrement)
		r.Post("/reset", handlers.Reset)
		r.Post("/step", handlers.SetStep)
	})

	return handlers, nil
}
