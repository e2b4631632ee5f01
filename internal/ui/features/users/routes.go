package users

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/shading/internal/querycache"
	"github.com/leapstack-labs/shading/internal/state"
	"github.com/leapstack-labs/shading/internal/ui/notifier"
)

// SetupRoutes registers the grid and CRUD actions and returns the page handlers.
func SetupRoutes(router chi.Router, store *state.Store, cache *querycache.Cache, notify *notifier.Notifier, cfg Config, logger *slog.Logger) (*Handlers, error) {
	handlers := NewHandlers(store, cache, notify, cfg, logger)

	router.Route("/api/users", func(r chi.Router) {
		r.Route("/grid", func(r chi.Router) {
			r.Post("/search", handlers.Search)
			r.Post("/sort", handlers.Sort)
			r.Post("/page", handlers.Page)
			r.Post("/page-size", handlers.PageSize)
			r.Post("/filters/open", handlers.OpenFilters)
			r.Post("/filters/close", handlers.CloseFilters)
			r.Post("/filters/apply", handlers.ApplyFilters)
			r.Post("/filters/clear", handlers.ClearFilters)
		})

		r.Get("/new", handlers.NewUser)
		r.Get("/close", handlers.CloseOverlays)
		r.Post("/", handlers.CreateUser)
		r.Get("/{id}/edit", handlers.EditUser)
		r.Get("/{id}/delete", handlers.ConfirmDelete)
		r.Put("/{id}", handlers.UpdateUser)
		r.Delete("/{id}", handlers.DeleteUser)
	})

	return handlers, nil
}
