package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Nop / context
// =============================================================================

func TestFromContext_FallsBackToNop(t *testing.T) {
	s := FromContext(context.Background())
	require.IsType(t, Nop{}, s)

	s.SetToken("abc")
	s.SetUser(&User{Email: "a@b.c"})
	s.SetInt("counter", 3)

	_, ok := s.Token()
	assert.False(t, ok)
	assert.Nil(t, s.User())
	_, ok = s.Int("counter")
	assert.False(t, ok)
	assert.Empty(t, s.ClientID())
}

func TestFromContext_ReturnsAttachedStore(t *testing.T) {
	mem := NewMemory()
	ctx := WithStore(context.Background(), mem)
	assert.Same(t, mem, FromContext(ctx))
}

// =============================================================================
// Memory
// =============================================================================

func TestMemory_TokenAndUser(t *testing.T) {
	m := NewMemory()

	_, ok := m.Token()
	assert.False(t, ok)

	m.SetToken("demo-bearer-token")
	tok, ok := m.Token()
	assert.True(t, ok)
	assert.Equal(t, "demo-bearer-token", tok)

	m.SetUser(&User{Email: "ada@example.com", Name: "ada"})
	assert.Equal(t, &User{Email: "ada@example.com", Name: "ada"}, m.User())

	m.SetUser(nil)
	assert.Nil(t, m.User())

	m.ClearToken()
	_, ok = m.Token()
	assert.False(t, ok)
}

func TestMemory_CorruptUserReadsNil(t *testing.T) {
	m := NewMemory()
	m.SetRawUser("{not json")
	assert.Nil(t, m.User())
}

func TestMemory_ClientIDStable(t *testing.T) {
	m := NewMemory()
	assert.NotEmpty(t, m.ClientID())
	assert.Equal(t, m.ClientID(), m.ClientID())
	assert.NotEqual(t, m.ClientID(), NewMemory().ClientID())
}

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name    string
		user    *User
		want    string
		initial string
	}{
		{"nil", nil, "", "?"},
		{"name wins", &User{Email: "ada@example.com", Name: "ada"}, "ada", "A"},
		{"email fallback", &User{Email: "bob@example.com"}, "bob@example.com", "B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.DisplayName())
			assert.Equal(t, tt.initial, tt.user.Initial())
		})
	}
}

// =============================================================================
// Manager
// =============================================================================

func newTestManager() *Manager {
	return NewManager(NewCookieStore("test-secret-key-32-bytes-long!!"), "", nil)
}

func TestManager_PersistsAcrossRequests(t *testing.T) {
	m := newTestManager()

	login := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := FromContext(r.Context())
		s.SetToken("demo-bearer-token")
		s.SetUser(&User{Email: "ada@example.com", Name: "ada"})
		s.SetInt("counter", 7)
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	login.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)

	var gotUser *User
	var gotToken string
	var gotCounter int
	read := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := FromContext(r.Context())
		gotToken, _ = s.Token()
		gotUser = s.User()
		gotCounter, _ = s.Int("counter")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	read.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "demo-bearer-token", gotToken)
	assert.Equal(t, &User{Email: "ada@example.com", Name: "ada"}, gotUser)
	assert.Equal(t, 7, gotCounter)
}

func TestManager_SavesWithoutBody(t *testing.T) {
	m := newTestManager()
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).SetInt("counter", 1)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestManager_ReadOnlyRequestSetsNoCookie(t *testing.T) {
	m := newTestManager()
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = FromContext(r.Context()).Token()
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, rec.Result().Cookies())
}

func TestManager_CorruptCookieStartsFresh(t *testing.T) {
	m := newTestManager()
	var ok bool
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = FromContext(r.Context()).Token()
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, ok)
}

func TestManager_ClientIDPersists(t *testing.T) {
	m := newTestManager()
	var ids []string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, FromContext(r.Context()).ClientID())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, ids, 2)
	assert.NotEmpty(t, ids[0])
	assert.Equal(t, ids[0], ids[1])
}

func TestSaveWriter_KeepsFlusher(t *testing.T) {
	m := newTestManager()
	var flusher bool
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, flusher = w.(http.Flusher)
		FromContext(r.Context()).SetToken("t")
		w.(http.Flusher).Flush()
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, flusher)
	assert.True(t, rec.Flushed)
	assert.Len(t, rec.Result().Cookies(), 1)
}
