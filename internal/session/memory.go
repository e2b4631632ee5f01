package session

import (
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store for tests and tooling.
type Memory struct {
	mu       sync.Mutex
	clientID string
	token    string
	hasToken bool
	user     string
	ints     map[string]int
}

// NewMemory returns an empty store with a fresh client id.
func NewMemory() *Memory {
	return &Memory{clientID: uuid.NewString(), ints: make(map[string]int)}
}

func (m *Memory) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.hasToken
}

func (m *Memory) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.hasToken = token, true
}

func (m *Memory) ClearToken() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.hasToken = "", false
}

func (m *Memory) User() *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return decodeUser(m.user)
}

func (m *Memory) SetUser(u *User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u == nil {
		m.user = ""
		return
	}
	m.user = encodeUser(u)
}

func (m *Memory) ClearUser() { m.SetUser(nil) }

// SetRawUser stores an already encoded user value.
func (m *Memory) SetRawUser(raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = raw
}

func (m *Memory) ClientID() string { return m.clientID }

func (m *Memory) Int(key string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.ints[key]
	return v, ok
}

func (m *Memory) SetInt(key string, v int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ints[key] = v
}
