// Package features provides shared test utilities for UI feature tests.
package features

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/shading/internal/auth"
	"github.com/leapstack-labs/shading/internal/querycache"
	"github.com/leapstack-labs/shading/internal/session"
	"github.com/leapstack-labs/shading/internal/state"
	"github.com/leapstack-labs/shading/internal/testutil"
	"github.com/leapstack-labs/shading/internal/ui/notifier"
)

// TestSecret signs cookies in tests.
const TestSecret = "test-secret-key-32-bytes-long!!"

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Store    *state.Store
	Cache    *querycache.Cache
	Auth     *auth.Service
	Session  *session.Memory
	Notifier *notifier.Notifier
}

// SetupTestFixture creates an in-memory SQLite store seeded with seed demo
// users, a cache, an auth service without login delay and a fresh session.
func SetupTestFixture(t *testing.T, seed int) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)

	store, err := state.Open("sqlite", ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate())
	if seed > 0 {
		_, err := store.Seed(context.Background(), seed)
		require.NoError(t, err)
	}

	return &TestFixture{
		Store:    store,
		Cache:    querycache.New(querycache.Config{Logger: logger}),
		Auth:     auth.NewService(auth.Config{Logger: logger}),
		Session:  session.NewMemory(),
		Notifier: notifier.New(),
	}
}

// SignIn stores a demo token and user in the fixture session.
func (f *TestFixture) SignIn(email, name string) {
	f.Session.SetToken(auth.DefaultToken)
	f.Session.SetUser(&session.User{Email: email, Name: name})
}

// Request builds a request carrying the fixture session and, when the
// session is signed in, the auth state the guard would attach.
func (f *TestFixture) Request(method, target string, signals any) *http.Request {
	if signals == nil {
		signals = map[string]any{}
	}
	b, err := json.Marshal(signals)
	if err != nil {
		panic(err)
	}
	r := httptest.NewRequest(method, target, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	ctx := session.WithStore(r.Context(), f.Session)
	if st := auth.Hydrate(f.Session); st.IsAuthenticated() {
		ctx = auth.WithState(ctx, st)
	}
	return r.WithContext(ctx)
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewTestSessionStore creates a cookie session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return session.NewCookieStore(TestSecret)
}
