package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/leapstack-labs/shading/internal/session"
	"github.com/leapstack-labs/shading/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestService(t *testing.T, delay time.Duration) *Service {
	t.Helper()
	return NewService(Config{LoginDelay: delay, Logger: testutil.NewTestLogger(t)})
}

// =============================================================================
// Login
// =============================================================================

func TestLogin_Success(t *testing.T) {
	svc := newTestService(t, 0)
	store := session.NewMemory()

	st, err := svc.Login(context.Background(), store, Credentials{Email: " ada@example.com ", Password: "secret"})
	require.NoError(t, err)

	assert.True(t, st.IsAuthenticated())
	assert.Equal(t, DefaultToken, st.Token)
	assert.Equal(t, StatusIdle, st.Status)
	assert.Equal(t, &session.User{Email: "ada@example.com", Name: "ada"}, st.User)

	tok, ok := store.Token()
	assert.True(t, ok)
	assert.Equal(t, DefaultToken, tok)
	assert.Equal(t, st.User, store.User())
	assert.Equal(t, StatusIdle, svc.Status(store.ClientID()))
}

func TestLogin_Validation(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
	}{
		{"empty", Credentials{}},
		{"missing password", Credentials{Email: "ada@example.com"}},
		{"missing email", Credentials{Password: "secret"}},
		{"blank email", Credentials{Email: "   ", Password: "secret"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, 0)
			store := session.NewMemory()

			st, err := svc.Login(context.Background(), store, tt.creds)
			require.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Equal(t, StatusError, st.Status)
			assert.Equal(t, RequiredMessage, st.Error)

			_, ok := store.Token()
			assert.False(t, ok)
		})
	}
}

func TestLogin_CustomToken(t *testing.T) {
	svc := NewService(Config{Token: "other"})
	st, err := svc.Login(context.Background(), session.NewMemory(), Credentials{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "other", st.Token)
}

func TestLogin_ContextCancelled(t *testing.T) {
	svc := newTestService(t, time.Hour)
	store := session.NewMemory()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Login(ctx, store, Credentials{Email: "a@b.c", Password: "x"})
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrSuperseded)

	_, ok := store.Token()
	assert.False(t, ok)
	assert.Equal(t, StatusIdle, svc.Status(store.ClientID()))
}

func TestLogin_NewAttemptSupersedesOld(t *testing.T) {
	svc := newTestService(t, 200*time.Millisecond)
	store := session.NewMemory()

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = svc.Login(context.Background(), store, Credentials{Email: "first@example.com", Password: "x"})
	}()

	require.Eventually(t, func() bool {
		return svc.Status(store.ClientID()) == StatusLoading
	}, time.Second, time.Millisecond)

	st, err := svc.Login(context.Background(), store, Credentials{Email: "second@example.com", Password: "x"})
	wg.Wait()

	require.ErrorIs(t, firstErr, ErrSuperseded)
	require.NoError(t, err)
	assert.Equal(t, "second@example.com", st.User.Email)
	assert.Equal(t, "second@example.com", store.User().Email)
	assert.Equal(t, StatusIdle, svc.Status(store.ClientID()))
}

func TestLogin_ClientsDoNotInterfere(t *testing.T) {
	svc := newTestService(t, 20*time.Millisecond)
	stores := []*session.Memory{session.NewMemory(), session.NewMemory(), session.NewMemory()}

	var wg sync.WaitGroup
	errs := make([]error, len(stores))
	for i, s := range stores {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Login(context.Background(), s, Credentials{Email: "u@example.com", Password: "x"})
		}()
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "client %d", i)
		_, ok := stores[i].Token()
		assert.True(t, ok)
	}
}

func TestLogin_NopStore(t *testing.T) {
	svc := newTestService(t, 0)
	st, err := svc.Login(context.Background(), session.Nop{}, Credentials{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)
	assert.True(t, st.IsAuthenticated())
}

// =============================================================================
// Register / ForgotPassword / Logout / Hydrate
// =============================================================================

func TestRegister(t *testing.T) {
	svc := newTestService(t, 0)
	store := session.NewMemory()

	st, err := svc.Register(store, Registration{Name: "Ada Lovelace", Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, &session.User{Email: "ada@example.com", Name: "Ada Lovelace"}, store.User())
	assert.True(t, st.IsAuthenticated())
}

func TestRegister_FieldErrors(t *testing.T) {
	svc := newTestService(t, 0)
	store := session.NewMemory()

	st, err := svc.Register(store, Registration{Email: "nope"})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, StatusError, st.Status)

	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, FieldErrors{
		"name":     "Name is required",
		"email":    "Enter a valid email address",
		"password": "Password is required",
	}, fe)

	_, ok := store.Token()
	assert.False(t, ok)
}

func TestForgotPassword(t *testing.T) {
	svc := newTestService(t, 0)

	msg, err := svc.ForgotPassword(ResetRequest{Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, ResetMessage, msg)

	_, err = svc.ForgotPassword(ResetRequest{})
	require.ErrorIs(t, err, ErrInvalidInput)
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Email is required", fe["email"])
}

func TestLogoutAndHydrate(t *testing.T) {
	svc := newTestService(t, 0)
	store := session.NewMemory()
	_, err := svc.Login(context.Background(), store, Credentials{Email: "ada@example.com", Password: "x"})
	require.NoError(t, err)

	st := Hydrate(store)
	assert.True(t, st.IsAuthenticated())
	assert.Equal(t, "ada", st.User.Name)

	st = svc.Logout(store)
	assert.False(t, st.IsAuthenticated())
	assert.False(t, Hydrate(store).IsAuthenticated())
	assert.Nil(t, store.User())
}

func TestHydrate_CorruptUser(t *testing.T) {
	store := session.NewMemory()
	store.SetToken("t")
	store.SetRawUser("{")

	st := Hydrate(store)
	assert.True(t, st.IsAuthenticated())
	assert.Nil(t, st.User)
}
