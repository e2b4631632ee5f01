// Package notifier fans out change pings to the open SSE streams.
package notifier

import "sync"

// Notifier pings every subscriber when something changed. A ping carries
// no payload; subscribers re-read whatever they render.
type Notifier struct {
	mu        sync.Mutex
	listeners map[chan struct{}]struct{}
	closed    bool
}

// New creates a Notifier.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan struct{}]struct{}),
	}
}

// Subscribe registers a listener. The returned cancel func must be called
// once the stream ends; it is safe to call more than once. After Close the
// channel is returned already closed.
func (n *Notifier) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		close(ch)
		return ch, func() {}
	}
	n.listeners[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() { n.remove(ch) })
	}
}

func (n *Notifier) remove(ch chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.listeners[ch]; ok {
		delete(n.listeners, ch)
		close(ch)
	}
}

// Broadcast pings all listeners without blocking. A listener that has not
// drained its previous ping keeps that one.
func (n *Notifier) Broadcast() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for ch := range n.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Listeners returns the number of open subscriptions.
func (n *Notifier) Listeners() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}

// Close closes every listener channel so the streams return, and refuses
// new subscriptions.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	for ch := range n.listeners {
		delete(n.listeners, ch)
		close(ch)
	}
}
