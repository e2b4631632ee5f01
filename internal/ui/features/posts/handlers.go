// Package posts provides the cached posts feed page.
package posts

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/shading/internal/posts"
)

// Handlers provides HTTP handlers for the posts feature.
type Handlers struct {
	client *posts.Client
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(client *posts.Client, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{client: client, logger: logger}
}

// PostsPage renders the preview list. Feed failures are shown inline.
func (h *Handlers) PostsPage(_ http.ResponseWriter, r *http.Request) (templ.Component, error) {
	return postsView(h.list(r)), nil
}

// Refresh drops the cached feed and patches the list with fresh data.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	removed := h.client.Refresh()
	h.logger.Debug("posts refreshed", "invalidated", removed)

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(postList(h.list(r))); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Detail patches the body of one post.
func (h *Handlers) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}

	res := h.client.Get(r.Context(), id)

	sse := datastar.NewSSE(w, r)
	if res.IsError {
		if err := sse.PatchElementTempl(postDetailError(id, res.Err)); err != nil {
			_ = sse.ConsoleError(err)
		}
		return
	}
	if err := sse.PatchElementTempl(postDetail(res.Data)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

func (h *Handlers) list(r *http.Request) listData {
	res := h.client.Preview(r.Context())
	d := listData{Posts: res.Data, FromCache: res.FromCache, Limit: h.client.Limit()}
	if res.IsError {
		h.logger.Warn("posts feed failed", "error", res.Err)
		d.Err = res.Err.Error()
	}
	return d
}
