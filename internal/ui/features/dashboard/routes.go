package dashboard

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/shading/internal/querycache"
	"github.com/leapstack-labs/shading/internal/state"
	"github.com/leapstack-labs/shading/internal/ui/notifier"
)

// SetupRoutes registers the dashboard API and returns the page handlers.
func SetupRoutes(
	router chi.Router,
	store *state.Store,
	cache *querycache.Cache,
	notify *notifier.Notifier,
	logger *slog.Logger,
) (*Handlers, error) {
	handlers := NewHandlers(store, cache, notify, logger)

	router.Get("/api/dashboard/updates", handlers.StatsUpdates)

	return handlers, nil
}
