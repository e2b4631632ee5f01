// Package router sets up HTTP routes for the UI server.
package router

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/shading/internal/auth"
	"github.com/leapstack-labs/shading/internal/nav"
	"github.com/leapstack-labs/shading/internal/posts"
	"github.com/leapstack-labs/shading/internal/querycache"
	"github.com/leapstack-labs/shading/internal/session"
	"github.com/leapstack-labs/shading/internal/state"
	"github.com/leapstack-labs/shading/internal/ui/app"
	authFeature "github.com/leapstack-labs/shading/internal/ui/features/auth"
	counterFeature "github.com/leapstack-labs/shading/internal/ui/features/counter"
	dashboardFeature "github.com/leapstack-labs/shading/internal/ui/features/dashboard"
	postsFeature "github.com/leapstack-labs/shading/internal/ui/features/posts"
	settingsFeature "github.com/leapstack-labs/shading/internal/ui/features/settings"
	usersFeature "github.com/leapstack-labs/shading/internal/ui/features/users"
	"github.com/leapstack-labs/shading/internal/ui/notifier"
	"github.com/leapstack-labs/shading/internal/ui/resources"
)

// Deps are the collaborators shared by the features.
type Deps struct {
	Store    *state.Store
	Cache    *querycache.Cache
	Auth     *auth.Service
	Posts    *posts.Client
	Sessions sessions.Store

	// Notifier wakes live views after data changes.
	Notifier *notifier.Notifier
	// Reload tells dev browsers to reload. Nil disables the reload endpoints.
	Reload *notifier.Notifier

	// Gatherer backs /metrics. Nil leaves the endpoint out.
	Gatherer prometheus.Gatherer

	Grid   usersFeature.Config
	Dev    bool
	Logger *slog.Logger
}

func (d Deps) validate() error {
	var errs []error
	if d.Store == nil {
		errs = append(errs, errors.New("store is required"))
	}
	if d.Cache == nil {
		errs = append(errs, errors.New("cache is required"))
	}
	if d.Auth == nil {
		errs = append(errs, errors.New("auth service is required"))
	}
	if d.Posts == nil {
		errs = append(errs, errors.New("posts client is required"))
	}
	if d.Sessions == nil {
		errs = append(errs, errors.New("session store is required"))
	}
	return errors.Join(errs...)
}

// SetupRoutes configures all routes for the UI server and returns the
// compiled route tree.
func SetupRoutes(router chi.Router, deps Deps) (*nav.Tree, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Notifier == nil {
		deps.Notifier = notifier.New()
	}

	router.Use(session.NewManager(deps.Sessions, session.CookieName, deps.Logger).Middleware)

	// Hot reload endpoint for dev mode
	if deps.Dev && deps.Reload != nil {
		setupReload(router, deps.Reload)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler())

	if deps.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	// Public auth actions
	authHandlers, err := authFeature.SetupRoutes(router, deps.Auth, deps.Logger)
	if err != nil {
		return nil, err
	}

	// Everything else requires a session
	var (
		dashboard *dashboardFeature.Handlers
		counter   *counterFeature.Handlers
		feed      *postsFeature.Handlers
		settings  *settingsFeature.Handlers
		users     *usersFeature.Handlers
		setupErr  error
	)
	router.Group(func(r chi.Router) {
		r.Use(auth.Guard(auth.LoginPath))

		var errs [5]error
		dashboard, errs[0] = dashboardFeature.SetupRoutes(r, deps.Store, deps.Cache, deps.Notifier, deps.Logger)
		counter, errs[1] = counterFeature.SetupRoutes(r)
		feed, errs[2] = postsFeature.SetupRoutes(r, deps.Posts, deps.Logger)
		settings, errs[3] = settingsFeature.SetupRoutes(r)
		users, errs[4] = usersFeature.SetupRoutes(r, deps.Store, deps.Cache, deps.Notifier, deps.Grid, deps.Logger)
		setupErr = errors.Join(errs[:]...)
	})
	if setupErr != nil {
		return nil, setupErr
	}

	tree, err := app.Compile(app.Pages{
		Overview:       dashboard.OverviewPage,
		Analytics:      dashboard.AnalyticsPage,
		Posts:          feed.PostsPage,
		Users:          users.UsersPage,
		Counter:        counter.CounterPage,
		Profile:        settings.ProfilePage,
		Billing:        settings.BillingPage,
		Login:          authHandlers.LoginPage,
		Register:       authHandlers.RegisterPage,
		ForgotPassword: authHandlers.ForgotPasswordPage,
	}, app.Options{Dev: deps.Dev})
	if err != nil {
		return nil, err
	}
	tree.Mount(router)

	// Unknown pages go home
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	})

	return tree, nil
}

// setupReload serves the dev reload stream. Every browser reloads once on
// connect, so a restarted server refreshes open tabs, and again on each
// broadcast of reload.
func setupReload(router chi.Router, reload *notifier.Notifier) {
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		ch, cancel := reload.Subscribe()
		defer cancel()

		sse := datastar.NewSSE(w, r)
		doReload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(doReload)
		for {
			select {
			case _, ok := <-ch:
				if !ok {
					return
				}
				doReload()
			case <-r.Context().Done():
				return
			}
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		reload.Broadcast()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
