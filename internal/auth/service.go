package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/shading/internal/session"
)

// Defaults for Config.
const (
	DefaultLoginDelay = 650 * time.Millisecond
	DefaultToken      = "demo-bearer-token"
)

// Config configures the Service.
type Config struct {
	// LoginDelay simulates the network round trip of a sign-in.
	LoginDelay time.Duration
	// Token is the bearer token handed out on success.
	Token  string
	Logger *slog.Logger
}

type attempt struct {
	token  string
	cancel context.CancelFunc
}

// Service runs sign-in attempts. Safe for concurrent use.
type Service struct {
	delay  time.Duration
	token  string
	logger *slog.Logger

	mu       sync.Mutex
	attempts map[string]*attempt
}

// NewService creates a Service. Zero fields take their defaults.
func NewService(cfg Config) *Service {
	if cfg.LoginDelay < 0 {
		cfg.LoginDelay = 0
	}
	if cfg.Token == "" {
		cfg.Token = DefaultToken
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		delay:    cfg.LoginDelay,
		token:    cfg.Token,
		logger:   cfg.Logger,
		attempts: make(map[string]*attempt),
	}
}

// Login validates creds, waits for the configured delay and commits the
// demo session to store. Cancelling ctx or starting another attempt for the
// same client aborts it.
func (s *Service) Login(ctx context.Context, store session.Store, creds Credentials) (State, error) {
	if err := creds.Validate(); err != nil {
		return State{Status: StatusError, Error: RequiredMessage}, ErrInvalidCredentials
	}

	clientID := store.ClientID()
	if clientID == "" {
		// no persistent client; attempts cannot collide
		clientID = uuid.NewString()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	token := s.begin(clientID, cancel)
	defer s.finish(clientID, token)

	s.logger.Debug("login started", "client", clientID, "attempt", token)

	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		if !s.current(clientID, token) {
			return State{Status: StatusLoading}, ErrSuperseded
		}
		return State{Status: StatusIdle}, fmt.Errorf("login: %w", ctx.Err())
	case <-timer.C:
	}

	user := &session.User{Email: creds.Email, Name: localPart(creds.Email)}

	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.attempts[clientID]; a == nil || a.token != token {
		return State{Status: StatusLoading}, ErrSuperseded
	}
	store.SetToken(s.token)
	store.SetUser(user)

	s.logger.Info("login succeeded", "email", user.Email)
	return State{Token: s.token, User: user, Status: StatusIdle}, nil
}

// Register validates reg and signs the user in immediately.
func (s *Service) Register(store session.Store, reg Registration) (State, error) {
	if err := reg.Validate(); err != nil {
		fe := fieldErrors(err)
		return State{Status: StatusError, Error: fe.Error()}, errors.Join(ErrInvalidInput, fe)
	}

	user := &session.User{Email: reg.Email, Name: reg.Name}
	store.SetToken(s.token)
	store.SetUser(user)

	s.logger.Info("registered", "email", user.Email)
	return State{Token: s.token, User: user, Status: StatusIdle}, nil
}

// ForgotPassword validates req and returns the neutral confirmation.
func (s *Service) ForgotPassword(req ResetRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", errors.Join(ErrInvalidInput, fieldErrors(err))
	}
	s.logger.Info("password reset requested")
	return ResetMessage, nil
}

// Logout clears the token and user and cancels any pending attempt.
func (s *Service) Logout(store session.Store) State {
	if id := store.ClientID(); id != "" {
		s.mu.Lock()
		if a := s.attempts[id]; a != nil {
			a.cancel()
			delete(s.attempts, id)
		}
		s.mu.Unlock()
	}
	store.ClearToken()
	store.ClearUser()
	return State{Status: StatusIdle}
}

// Status reports StatusLoading while clientID has an attempt in flight.
func (s *Service) Status(clientID string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attempts[clientID]; ok {
		return StatusLoading
	}
	return StatusIdle
}

// begin registers a new attempt and cancels the previous one.
func (s *Service) begin(clientID string, cancel context.CancelFunc) string {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev := s.attempts[clientID]; prev != nil {
		prev.cancel()
	}
	s.attempts[clientID] = &attempt{token: token, cancel: cancel}
	return token
}

func (s *Service) current(clientID, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.attempts[clientID]
	return a != nil && a.token == token
}

// finish removes the attempt if it is still the current one.
func (s *Service) finish(clientID, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.attempts[clientID]; a != nil && a.token == token {
		delete(s.attempts, clientID)
	}
}
