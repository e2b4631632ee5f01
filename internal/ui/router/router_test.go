package router

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/shading/internal/posts"
	"github.com/leapstack-labs/shading/internal/querycache"
	"github.com/leapstack-labs/shading/internal/testutil"
	"github.com/leapstack-labs/shading/internal/ui/features"
	"github.com/leapstack-labs/shading/internal/ui/notifier"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func setupRouter(t *testing.T) (http.Handler, *notifier.Notifier) {
	t.Helper()
	fx := features.SetupTestFixture(t, 10)

	reg := prometheus.NewRegistry()
	cache := querycache.New(querycache.Config{Registerer: reg})

	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"userId":1,"id":1,"title":"hello","body":"world"}]`))
	}))
	t.Cleanup(feed.Close)
	client, err := posts.New(posts.Config{BaseURL: feed.URL + "/"}, cache)
	require.NoError(t, err)

	reload := notifier.New()
	r := chi.NewRouter()
	tree, err := SetupRoutes(r, Deps{
		Store:    fx.Store,
		Cache:    cache,
		Auth:     fx.Auth,
		Posts:    client,
		Sessions: features.NewTestSessionStore(),
		Notifier: fx.Notifier,
		Reload:   reload,
		Gatherer: reg,
		Dev:      true,
		Logger:   testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	require.NotEmpty(t, tree.Sections())
	return r, reload
}

func do(h http.Handler, method, path string, body []byte, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// =============================================================================
// Setup
// =============================================================================

func TestSetupRoutes_MissingDeps(t *testing.T) {
	_, err := SetupRoutes(chi.NewRouter(), Deps{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store is required")
	assert.Contains(t, err.Error(), "session store is required")
}

// =============================================================================
// Routing
// =============================================================================

func TestRoutes_Anonymous(t *testing.T) {
	h, _ := setupRouter(t)

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
		wantLoc  string
		wantBody string
	}{
		{name: "dashboard redirects", method: http.MethodGet, path: "/", wantCode: http.StatusFound, wantLoc: "/auth/login"},
		{name: "users redirects with from", method: http.MethodGet, path: "/data/users", wantCode: http.StatusFound, wantLoc: "/auth/login?from=%2Fdata%2Fusers"},
		{name: "api is guarded", method: http.MethodPost, path: "/api/counter/increment", wantCode: http.StatusFound},
		{name: "login page", method: http.MethodGet, path: "/auth/login", wantCode: http.StatusOK, wantBody: "<title>Sign in - Shading</title>"},
		{name: "register page", method: http.MethodGet, path: "/auth/register", wantCode: http.StatusOK, wantBody: "register"},
		{name: "unknown path goes home", method: http.MethodGet, path: "/nope", wantCode: http.StatusFound, wantLoc: "/"},
		{name: "static assets", method: http.MethodGet, path: "/static/app.css", wantCode: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", wantCode: http.StatusOK},
		{name: "hot reload", method: http.MethodGet, path: "/hotreload", wantCode: http.StatusOK, wantBody: "OK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, tt.method, tt.path, nil)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantLoc != "" {
				assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
			}
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRoutes_SignInFlow(t *testing.T) {
	h, _ := setupRouter(t)

	rec := do(h, http.MethodPost, "/auth/login", []byte(`{"email":"ada@example.com","password":"secret","from":"/data/users"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/data/users")
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies, "session cookie is set before the stream starts")

	rec = do(h, http.MethodGet, "/", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Signed in as <strong>ada</strong>")
	assert.Contains(t, rec.Body.String(), `href="/data/users"`)

	rec = do(h, http.MethodGet, "/data/users", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="users-table"`)

	rec = do(h, http.MethodGet, "/data/posts", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hello")

	rec = do(h, http.MethodGet, "/metrics", nil)
	assert.Contains(t, rec.Body.String(), "shading_querycache_misses_total")

	rec = do(h, http.MethodGet, "/auth/login", nil, cookies...)
	assert.Equal(t, http.StatusFound, rec.Code, "signed-in users skip the login page")
}
