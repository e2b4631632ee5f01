package notifier

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func received(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	case <-time.After(100 * time.Millisecond):
		return false
	}
}

// =============================================================================
// Subscriptions
// =============================================================================

func TestNotifier_SubscribeCancel(t *testing.T) {
	n := New()

	ch, cancel := n.Subscribe()
	require.NotNil(t, ch)
	assert.Equal(t, 1, n.Listeners())

	cancel()
	assert.Equal(t, 0, n.Listeners())

	_, ok := <-ch
	assert.False(t, ok, "cancel closes the channel")

	assert.NotPanics(t, cancel, "cancel is idempotent")
}

func TestNotifier_Broadcast(t *testing.T) {
	n := New()

	ch1, cancel1 := n.Subscribe()
	ch2, cancel2 := n.Subscribe()
	defer cancel1()
	defer cancel2()

	n.Broadcast()

	assert.True(t, received(ch1), "ch1 did not receive broadcast")
	assert.True(t, received(ch2), "ch2 did not receive broadcast")
}

func TestNotifier_Broadcast_Coalesces(t *testing.T) {
	n := New()

	ch, cancel := n.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		n.Broadcast()
		n.Broadcast()
		n.Broadcast()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Broadcast blocked on an undrained listener")
	}

	assert.True(t, received(ch))
	assert.False(t, received(ch), "pending pings collapse into one")
}

// =============================================================================
// Close
// =============================================================================

func TestNotifier_Close(t *testing.T) {
	n := New()

	ch, cancel := n.Subscribe()
	n.Close()

	_, ok := <-ch
	assert.False(t, ok, "close ends open subscriptions")
	assert.Equal(t, 0, n.Listeners())
	assert.NotPanics(t, cancel)
	assert.NotPanics(t, n.Close)
	assert.NotPanics(t, n.Broadcast)

	late, lateCancel := n.Subscribe()
	defer lateCancel()
	_, ok = <-late
	assert.False(t, ok, "subscriptions after close start closed")
}

func TestNotifier_Concurrent(t *testing.T) {
	n := New()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, cancel := n.Subscribe()
			n.Broadcast()
			cancel()
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, n.Listeners())
}
