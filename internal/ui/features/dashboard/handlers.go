// Package dashboard provides the overview and analytics pages.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/shading/internal/auth"
	"github.com/leapstack-labs/shading/internal/querycache"
	"github.com/leapstack-labs/shading/internal/state"
	"github.com/leapstack-labs/shading/internal/ui/notifier"
	"github.com/leapstack-labs/shading/pkg/core"
)

const statsKey = "users:stats"

// Handlers provides HTTP handlers for the dashboard feature.
type Handlers struct {
	store    *state.Store
	cache    *querycache.Cache
	notifier *notifier.Notifier
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store *state.Store, cache *querycache.Cache, notify *notifier.Notifier, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{store: store, cache: cache, notifier: notify, logger: logger}
}

// stats returns the cached user statistics.
func (h *Handlers) stats(ctx context.Context) (core.UserStats, error) {
	res := querycache.Query(ctx, h.cache, statsKey, h.store.UserStats, func(core.UserStats) []querycache.Tag {
		return []querycache.Tag{{Type: core.UserCacheType, ID: querycache.ListID}}
	})
	if res.IsError {
		return core.UserStats{}, fmt.Errorf("failed to load user stats: %w", res.Err)
	}
	return res.Data, nil
}

// OverviewPage renders the headline figures.
func (h *Handlers) OverviewPage(_ http.ResponseWriter, r *http.Request) (templ.Component, error) {
	stats, err := h.stats(r.Context())
	if err != nil {
		return nil, err
	}
	name := ""
	if st, ok := auth.FromContext(r.Context()); ok && st.User != nil {
		name = st.User.DisplayName()
	}
	return overviewView(name, stats), nil
}

// AnalyticsPage renders the users by role and by department.
func (h *Handlers) AnalyticsPage(_ http.ResponseWriter, r *http.Request) (templ.Component, error) {
	stats, err := h.stats(r.Context())
	if err != nil {
		return nil, err
	}
	return analyticsView(stats), nil
}

// StatsUpdates is the long-lived SSE endpoint of the overview. It patches
// the figures whenever users change. Nothing is sent up front because the
// page already rendered them.
func (h *Handlers) StatsUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates, cancel := h.notifier.Subscribe()
	defer cancel()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			stats, err := h.stats(ctx)
			if err != nil {
				_ = sse.ConsoleError(err)
				continue
			}
			if err := sse.PatchElementTempl(statCards(stats)); err != nil {
				h.logger.Debug("stats patch failed", "error", err)
				return
			}
		}
	}
}
