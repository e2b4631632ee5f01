package ui

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/shading/internal/posts"
	"github.com/leapstack-labs/shading/internal/testutil"
	"github.com/leapstack-labs/shading/internal/ui/features"
)

func newTestServer(t *testing.T, ln net.Listener) *Server {
	t.Helper()
	fx := features.SetupTestFixture(t, 5)
	client, err := posts.New(posts.Config{BaseURL: "http://127.0.0.1:1/"}, fx.Cache)
	require.NoError(t, err)

	return NewServer(Config{
		Store:         fx.Store,
		Cache:         fx.Cache,
		Auth:          fx.Auth,
		Posts:         client,
		SessionSecret: features.TestSecret,
		Listener:      ln,
		Logger:        testutil.NewTestLogger(t),
	})
}

func TestServer_ServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := newTestServer(t, ln)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	client := &http.Client{
		Timeout:       2 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}
	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = client.Get("http://" + ln.Addr().String() + "/auth/login")
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	ch, _ := srv.Notifier().Subscribe()
	_, open := <-ch
	assert.False(t, open, "shutdown closes the update stream")
}

func TestServer_HandlerRejectsMissingDeps(t *testing.T) {
	_, _, err := NewServer(Config{}).Handler()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to setup routes")
}

func TestServer_IsDev(t *testing.T) {
	assert.False(t, NewServer(Config{}).IsDev())
	assert.True(t, NewServer(Config{Dev: true}).IsDev())
	assert.True(t, NewServer(Config{Watch: true}).IsDev())
}

func TestIsAsset(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "static/app.css", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "static/app.js", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "static/app.css", Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: "static/logo.svg", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.event.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, isAsset(tt.event))
		})
	}
}
