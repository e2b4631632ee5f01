package session

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// CookieName is the default name of the session cookie.
const CookieName = "shading_session"

// NewCookieStore creates the signed cookie store used by the server.
func NewCookieStore(secret string) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(86400 * 30) // 30 days
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}

// gorillaStore adapts one request's gorilla session to Store.
type gorillaStore struct {
	mu    sync.Mutex
	sess  *sessions.Session
	dirty bool
}

func (g *gorillaStore) get(key string) (any, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, ok := g.sess.Values[key]
	return v, ok
}

func (g *gorillaStore) set(key string, v any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sess.Values[key] = v
	g.dirty = true
}

func (g *gorillaStore) del(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.sess.Values[key]; ok {
		delete(g.sess.Values, key)
		g.dirty = true
	}
}

func (g *gorillaStore) Token() (string, bool) {
	v, ok := g.get(TokenKey)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (g *gorillaStore) SetToken(token string) { g.set(TokenKey, token) }
func (g *gorillaStore) ClearToken()           { g.del(TokenKey) }

func (g *gorillaStore) User() *User {
	v, ok := g.get(UserKey)
	if !ok {
		return nil
	}
	raw, _ := v.(string)
	return decodeUser(raw)
}

func (g *gorillaStore) SetUser(u *User) {
	if u == nil {
		g.ClearUser()
		return
	}
	g.set(UserKey, encodeUser(u))
}

func (g *gorillaStore) ClearUser() { g.del(UserKey) }

func (g *gorillaStore) ClientID() string {
	if v, ok := g.get(ClientIDKey); ok {
		if id, ok := v.(string); ok && id != "" {
			return id
		}
	}
	id := uuid.NewString()
	g.set(ClientIDKey, id)
	return id
}

func (g *gorillaStore) Int(key string) (int, bool) {
	v, ok := g.get(key)
	if !ok {
		return 0, false
	}
	n, ok := v.(int)
	return n, ok
}

func (g *gorillaStore) SetInt(key string, v int) { g.set(key, v) }

func (g *gorillaStore) isDirty() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dirty
}

// Manager opens a session per request on top of a gorilla sessions.Store.
type Manager struct {
	store  sessions.Store
	name   string
	logger *slog.Logger
}

// NewManager creates a manager. An empty name uses CookieName.
func NewManager(store sessions.Store, name string, logger *slog.Logger) *Manager {
	if name == "" {
		name = CookieName
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{store: store, name: name, logger: logger}
}

// Middleware attaches a Store to every request and saves it before the
// first byte of the response, or after the handler if nothing was written.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.store.Get(r, m.name)
		if err != nil {
			// an unreadable cookie yields a fresh session
			m.logger.Debug("discarding unreadable session", "error", err)
		}
		gs := &gorillaStore{sess: sess}

		sw := &saveWriter{ResponseWriter: w}
		sw.save = func() {
			if !gs.isDirty() {
				return
			}
			if err := m.store.Save(r, sw.ResponseWriter, sess); err != nil {
				m.logger.Error("failed to save session", "error", err)
			}
		}

		next.ServeHTTP(sw, r.WithContext(WithStore(r.Context(), gs)))
		sw.once.Do(sw.save)
	})
}

// saveWriter runs save once, just before the response starts.
type saveWriter struct {
	http.ResponseWriter
	save func()
	once sync.Once
}

func (w *saveWriter) WriteHeader(code int) {
	w.once.Do(w.save)
	w.ResponseWriter.WriteHeader(code)
}

func (w *saveWriter) Write(b []byte) (int, error) {
	w.once.Do(w.save)
	return w.ResponseWriter.Write(b)
}

func (w *saveWriter) Flush() {
	w.once.Do(w.save)
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *saveWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
