// Package session holds the per-client state of the dashboard: the demo
// auth token, the signed-in user and small feature values.
//
// Handlers reach the store through FromContext. Manager.Middleware opens a
// cookie-backed store for every request and saves it before the response
// starts; without it FromContext returns Nop.
package session

import (
	"context"
	"encoding/json"
	"strings"
)

// Storage keys.
const (
	TokenKey    = "shading_app.auth_token"
	UserKey     = "shading_app.auth_user"
	ClientIDKey = "shading_app.client_id"
)

// User is the signed-in identity kept in the session.
type User struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// DisplayName returns the name, falling back to the email.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Initial returns the upper-cased first letter of the display name.
func (u *User) Initial() string {
	name := u.DisplayName()
	if name == "" {
		return "?"
	}
	return strings.ToUpper(name[:1])
}

// Store is the session contract. Every method must be safe to call when no
// persistent storage is available.
type Store interface {
	Token() (string, bool)
	SetToken(token string)
	ClearToken()

	User() *User
	// SetUser stores u. A nil u clears the user.
	SetUser(u *User)
	ClearUser()

	// ClientID identifies the browser across requests.
	ClientID() string

	Int(key string) (int, bool)
	SetInt(key string, v int)
}

type ctxKey struct{}

// WithStore attaches s to ctx.
func WithStore(ctx context.Context, s Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the store attached to ctx, or Nop.
func FromContext(ctx context.Context) Store {
	if s, ok := ctx.Value(ctxKey{}).(Store); ok && s != nil {
		return s
	}
	return Nop{}
}

// Nop is the store used when no storage is available. It holds nothing and
// ignores writes.
type Nop struct{}

func (Nop) Token() (string, bool)  { return "", false }
func (Nop) SetToken(string)        {}
func (Nop) ClearToken()            {}
func (Nop) User() *User            { return nil }
func (Nop) SetUser(*User)          {}
func (Nop) ClearUser()             {}
func (Nop) ClientID() string       { return "" }
func (Nop) Int(string) (int, bool) { return 0, false }
func (Nop) SetInt(string, int)     {}

// encodeUser serialises u for storage.
func encodeUser(u *User) string {
	b, _ := json.Marshal(u)
	return string(b)
}

// decodeUser parses a stored user. Corrupt values read as nil.
func decodeUser(raw string) *User {
	if raw == "" {
		return nil
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil
	}
	return &u
}
