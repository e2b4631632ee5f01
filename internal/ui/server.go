// Package ui provides the dashboard web server.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/shading/internal/auth"
	"github.com/leapstack-labs/shading/internal/nav"
	"github.com/leapstack-labs/shading/internal/posts"
	"github.com/leapstack-labs/shading/internal/querycache"
	"github.com/leapstack-labs/shading/internal/session"
	"github.com/leapstack-labs/shading/internal/state"
	"github.com/leapstack-labs/shading/internal/ui/features/users"
	"github.com/leapstack-labs/shading/internal/ui/notifier"
	"github.com/leapstack-labs/shading/internal/ui/resources"
	"github.com/leapstack-labs/shading/internal/ui/router"
)

// Server is the main UI server.
type Server struct {
	cfg      Config
	notifier *notifier.Notifier
	reload   *notifier.Notifier
	logger   *slog.Logger
}

// Config holds configuration for the UI server.
type Config struct {
	Store *state.Store
	Cache *querycache.Cache
	Auth  *auth.Service
	Posts *posts.Client

	// Gatherer backs /metrics. Nil leaves the endpoint out.
	Gatherer prometheus.Gatherer

	Port          int
	SessionSecret string
	Grid          users.Config

	// Watch reloads dev browsers when the static assets change.
	Watch bool
	Dev   bool

	// Listener overrides the TCP listener, mainly for tests.
	Listener net.Listener

	Logger *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		cfg:      cfg,
		notifier: notifier.New(),
		reload:   notifier.New(),
		logger:   cfg.Logger,
	}
}

// Handler builds the HTTP handler with all routes mounted.
func (s *Server) Handler() (http.Handler, *nav.Tree, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	tree, err := router.SetupRoutes(r, router.Deps{
		Store:    s.cfg.Store,
		Cache:    s.cfg.Cache,
		Auth:     s.cfg.Auth,
		Posts:    s.cfg.Posts,
		Sessions: session.NewCookieStore(s.cfg.SessionSecret),
		Notifier: s.notifier,
		Reload:   s.reload,
		Gatherer: s.cfg.Gatherer,
		Grid:     s.cfg.Grid,
		Dev:      s.IsDev(),
		Logger:   s.logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, tree, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	handler, tree, err := s.Handler()
	if err != nil {
		return err
	}
	s.logger.Debug("route tree compiled", "routes", len(tree.Routes()), "sections", len(tree.Sections()))

	ln := s.cfg.Listener
	if ln == nil {
		ln, err = net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
		if err != nil {
			return fmt.Errorf("failed to listen: %w", err)
		}
	}
	s.logger.Info("starting UI server", "addr", "http://"+displayAddr(ln.Addr()))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start file watcher if enabled
	if s.cfg.Watch {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...", "streams", s.notifier.Listeners()+s.reload.Listeners())
		s.notifier.Close()
		s.reload.Close()
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func displayAddr(addr net.Addr) string {
	if tcp, ok := addr.(*net.TCPAddr); ok && tcp.IP.IsUnspecified() {
		return fmt.Sprintf("localhost:%d", tcp.Port)
	}
	return addr.String()
}

// IsDev reports whether dev features (reload stream, filesystem assets) are on.
func (s *Server) IsDev() bool {
	return s.cfg.Dev || s.cfg.Watch
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchFiles reloads dev browsers when a stylesheet or script changes.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	dir := resources.Dir()
	if err := watcher.Add(dir); err != nil {
		s.logger.Error("failed to watch static assets", "dir", dir, "error", err)
		// Don't fail - continue without watching
	}
	if resources.Embedded() {
		s.logger.Warn("assets are embedded; build with -tags dev to serve edits", "dir", dir)
	}

	// Debounce timer
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isAsset(event) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("asset changed, reloading browsers", "file", event.Name)
				s.reload.Broadcast()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

func isAsset(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	switch filepath.Ext(event.Name) {
	case ".css", ".js":
		return true
	}
	return false
}
