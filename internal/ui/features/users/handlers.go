// Package users provides the users grid with search, sorting, paging,
// staged filters and the add, edit and delete screens.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/shading/internal/grid"
	"github.com/leapstack-labs/shading/internal/querycache"
	"github.com/leapstack-labs/shading/internal/state"
	"github.com/leapstack-labs/shading/internal/ui/components"
	"github.com/leapstack-labs/shading/internal/ui/notifier"
	"github.com/leapstack-labs/shading/pkg/core"
)

// Config sets the grid defaults.
type Config struct {
	PageSize  int
	PageSizes []int
	Reseed    grid.ReseedPolicy
}

// Handlers provides HTTP handlers for the users feature.
type Handlers struct {
	store    *state.Store
	cache    *querycache.Cache
	notifier *notifier.Notifier
	cfg      Config
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store *state.Store, cache *querycache.Cache, notify *notifier.Notifier, cfg Config, logger *slog.Logger) *Handlers {
	if len(cfg.PageSizes) == 0 {
		cfg.PageSizes = grid.DefaultPageSizes
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{store: store, cache: cache, notifier: notify, cfg: cfg, logger: logger}
}

func (h *Handlers) options() []grid.Option {
	return []grid.Option{grid.WithPageSizes(h.cfg.PageSizes...), grid.WithReseedPolicy(h.cfg.Reseed)}
}

// query fetches one page through the cache. Every result is tagged with the
// user list and the ids it shows.
func (h *Handlers) query(ctx context.Context, req *grid.Request) querycache.Result[core.PaginatedResponse[core.User]] {
	return querycache.Query(ctx, h.cache, "users:grid:"+req.Key(),
		func(ctx context.Context) (core.PaginatedResponse[core.User], error) {
			return h.store.UsersGrid(ctx, req)
		},
		func(page core.PaginatedResponse[core.User]) []querycache.Tag {
			tags := make([]querycache.Tag, 0, len(page.DisplayData)+1)
			tags = append(tags, querycache.Tag{Type: core.UserCacheType, ID: querycache.ListID})
			for _, u := range page.DisplayData {
				tags = append(tags, querycache.Tag{Type: core.UserCacheType, ID: strconv.FormatInt(u.ID, 10)})
			}
			return tags
		})
}

// invalidate drops every cached users query and wakes live views.
func (h *Handlers) invalidate() {
	n := h.cache.Invalidate(querycache.Tag{Type: core.UserCacheType})
	h.logger.Debug("users cache invalidated", "entries", n)
	if h.notifier != nil {
		h.notifier.Broadcast()
	}
}

// UsersPage renders the grid in its default state.
func (h *Handlers) UsersPage(_ http.ResponseWriter, r *http.Request) (templ.Component, error) {
	s := grid.New(Filters, grid.DefaultState(h.cfg.PageSize), h.options()...)
	return pageView(s.Signals(), h.table(r.Context(), s)), nil
}

// table runs the query for s and builds the table view.
func (h *Handlers) table(ctx context.Context, s *grid.Synchronizer) components.Table {
	res := h.query(ctx, s.Request())
	t := tableView(s, res.Data)
	if res.IsError {
		h.logger.Error("users query failed", "error", res.Err)
		t.Error = "Could not load users."
	}
	return t
}

// readPage reads the browser signals. DELETE requests may come without a
// body, in which case the grid starts from its defaults.
func (h *Handlers) readPage(r *http.Request) (pageSignals, error) {
	raw := map[string]any{}
	if err := datastar.ReadSignals(r, &raw); err != nil {
		if r.Method == http.MethodDelete {
			return pageSignals{}, nil
		}
		return pageSignals{}, err
	}
	return decodePage(raw)
}

// gridAction restores the grid from the request, applies fn and patches
// the signals and the table. fn may reject the request with an error.
func (h *Handlers) gridAction(w http.ResponseWriter, r *http.Request, fn func(*grid.Synchronizer, pageSignals) error) {
	sig, err := h.readPage(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s := grid.FromSignals(Filters, sig.Grid, h.options()...)
	if err := fn(s, sig); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	t := h.table(r.Context(), s)

	sse := datastar.NewSSE(w, r)
	h.patchGrid(sse, s, t)
}

func (h *Handlers) patchGrid(sse *datastar.ServerSentEventGenerator, s *grid.Synchronizer, t components.Table) {
	if err := sse.MarshalAndPatchSignals(s.Signals()); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElementTempl(components.DataTable(t)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Search commits the toolbar search.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	h.gridAction(w, r, func(s *grid.Synchronizer, sig pageSignals) error {
		s.SetSearch(sig.Query)
		return nil
	})
}

// Sort cycles the sort of a column.
func (h *Handlers) Sort(w http.ResponseWriter, r *http.Request) {
	h.gridAction(w, r, func(s *grid.Synchronizer, _ pageSignals) error {
		column := r.URL.Query().Get("column")
		if !sortable(column) {
			return fmt.Errorf("column %q is not sortable", column)
		}
		s.ToggleSort(column)
		return nil
	})
}

// Page moves to the previous or next page, or to an explicit index.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	h.gridAction(w, r, func(s *grid.Synchronizer, _ pageSignals) error {
		q := r.URL.Query()
		switch q.Get("dir") {
		case "prev":
			s.PrevPage()
			return nil
		case "next":
			res := h.query(r.Context(), s.Request())
			if res.IsError {
				s.NextPage(-1)
				return nil
			}
			s.NextPage(res.Data.TotalRecords)
			return nil
		}
		index, err := strconv.Atoi(q.Get("index"))
		if err != nil {
			return errors.New("page needs dir=prev|next or a numeric index")
		}
		total := -1
		if res := h.query(r.Context(), s.Request()); !res.IsError {
			total = res.Data.TotalRecords
		}
		s.GoToPage(index, total)
		return nil
	})
}

// PageSize changes the number of rows per page.
func (h *Handlers) PageSize(w http.ResponseWriter, r *http.Request) {
	h.gridAction(w, r, func(s *grid.Synchronizer, _ pageSignals) error {
		raw := r.URL.Query().Get("size")
		size, err := strconv.Atoi(raw)
		if err != nil || !s.SetPageSize(size) {
			return fmt.Errorf("invalid page size %q, want one of %v", raw, s.PageSizes())
		}
		return nil
	})
}

// OpenFilters opens the overlay seeded from the committed filters.
func (h *Handlers) OpenFilters(w http.ResponseWriter, r *http.Request) {
	h.gridAction(w, r, func(s *grid.Synchronizer, _ pageSignals) error {
		s.OpenOverlay()
		return nil
	})
}

// CloseFilters closes the overlay and keeps the committed filters.
func (h *Handlers) CloseFilters(w http.ResponseWriter, r *http.Request) {
	h.gridAction(w, r, func(s *grid.Synchronizer, _ pageSignals) error {
		s.CloseOverlay()
		return nil
	})
}

// ApplyFilters commits the staged search and filters.
func (h *Handlers) ApplyFilters(w http.ResponseWriter, r *http.Request) {
	h.gridAction(w, r, func(s *grid.Synchronizer, _ pageSignals) error {
		s.ApplyStagedFilters()
		return nil
	})
}

// ClearFilters empties the overlay without committing.
func (h *Handlers) ClearFilters(w http.ResponseWriter, r *http.Request) {
	h.gridAction(w, r, func(s *grid.Synchronizer, _ pageSignals) error {
		s.ClearStagedFilters()
		return nil
	})
}
