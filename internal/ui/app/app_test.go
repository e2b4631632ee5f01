package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/shading/internal/auth"
	"github.com/leapstack-labs/shading/internal/nav"
	"github.com/leapstack-labs/shading/internal/session"
	"github.com/leapstack-labs/shading/internal/ui/components"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func named(name string) nav.Page {
	return func(http.ResponseWriter, *http.Request) (templ.Component, error) {
		return components.Text("page:" + name), nil
	}
}

func testPages() Pages {
	return Pages{
		Overview:       named("overview"),
		Analytics:      named("analytics"),
		Posts:          named("posts"),
		Users:          named("users"),
		Counter:        named("counter"),
		Profile:        named("profile"),
		Billing:        named("billing"),
		Login:          named("login"),
		Register:       named("register"),
		ForgotPassword: named("forgot"),
	}
}

// signedIn attaches an authenticated session to every request.
func signedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := session.NewMemory()
		m.SetToken(auth.DefaultToken)
		m.SetUser(&session.User{Email: "ada@example.com", Name: "Ada"})
		next.ServeHTTP(w, r.WithContext(session.WithStore(r.Context(), m)))
	})
}

func serve(t *testing.T, tree *nav.Tree, path string, mw ...func(http.Handler) http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Use(mw...)
	tree.Mount(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

// =============================================================================
// Sidebar
// =============================================================================

func TestCompile_Sections(t *testing.T) {
	tree, err := Compile(testPages(), Options{})
	require.NoError(t, err)

	want := []nav.Section{
		{Title: "Dashboard", Order: 1, Links: []nav.Link{
			{Title: "Overview", To: "/", Icon: "layout-dashboard", End: true},
			{Title: "Analytics", To: "/analytics", Icon: "line-chart"},
		}},
		{Title: "Data", Order: 2, Links: []nav.Link{
			{Title: "Posts feed", To: "/data/posts", Icon: "list-tree"},
			{Title: "Users", To: "/data/users", Icon: "users"},
		}},
		{Title: "State demos", Order: 3, Links: []nav.Link{
			{Title: "Counter", To: "/state/counter", Icon: "activity"},
		}},
		{Title: "Settings", Order: 4, Links: []nav.Link{
			{Title: "Profile", To: "/settings/profile", Icon: "user-cog"},
			{Title: "Billing", To: "/settings/billing", Icon: "wallet"},
		}},
	}
	assert.Equal(t, want, tree.Sections())
}

func TestCompile_WithoutPages(t *testing.T) {
	tree, err := Compile(Pages{}, Options{})
	require.NoError(t, err)

	var mounted []string
	for _, r := range tree.Routes() {
		if r.Mounted {
			mounted = append(mounted, r.Path)
		}
	}
	assert.Equal(t, []string{
		"/", "/overview", "/analytics",
		"/data", "/data/posts", "/data/users",
		"/state", "/state/counter",
		"/settings", "/settings/profile", "/settings/billing",
		"/auth", "/auth/login", "/auth/register", "/auth/forgot-password",
	}, mounted)

	rec := serve(t, tree, "/auth/login")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrPageUnavailable.Error())
}

// =============================================================================
// Routing
// =============================================================================

func TestRoutes(t *testing.T) {
	tree, err := Compile(testPages(), Options{})
	require.NoError(t, err)

	tests := []struct {
		path string
		want []string
	}{
		{"/", []string{"page:overview", "Signed in as <strong>Ada</strong>"}},
		{"/overview", []string{"page:overview"}},
		{"/analytics", []string{"page:analytics", `aria-current="page" href="/analytics"`}},
		{"/data", []string{"page:posts"}},
		{"/data/users", []string{"page:users"}},
		{"/state", []string{"page:counter"}},
		{"/settings", []string{"page:profile", `class="tab active" href="/settings/profile"`}},
		{"/settings/billing", []string{"page:billing", "<h1>Settings</h1>"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(t, tree, tt.path, signedIn)
			require.Equal(t, http.StatusOK, rec.Code)
			for _, w := range tt.want {
				assert.Contains(t, rec.Body.String(), w)
			}
		})
	}
}

func TestRoutes_Guarded(t *testing.T) {
	tree, err := Compile(testPages(), Options{})
	require.NoError(t, err)

	rec := serve(t, tree, "/data/users")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login?from=%2Fdata%2Fusers", rec.Header().Get("Location"))

	rec = serve(t, tree, "/auth/register")
	assert.Equal(t, http.StatusOK, rec.Code, "auth pages are public")
	assert.Contains(t, rec.Body.String(), "page:register")
	assert.Contains(t, rec.Body.String(), "<title>Sign in - Shading</title>")
}

func TestRoutes_CustomGuard(t *testing.T) {
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
	}
	tree, err := Compile(testPages(), Options{Guard: deny})
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, serve(t, tree, "/analytics").Code)
}
