// Package counter provides the per-session counter demo.
package counter

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/shading/internal/session"
)

// Session keys.
const (
	ValueKey = "counter.value"
	StepKey  = "counter.step"
)

// ErrStep is shown for a step that is not a positive whole number.
const ErrStep = "Step must be a whole number greater than 0"

// Counter is the state kept in the session.
type Counter struct {
	Value int
	Step  int
}

// Load reads the counter from store. The step defaults to 1.
func Load(store session.Store) Counter {
	c := Counter{Step: 1}
	if v, ok := store.Int(ValueKey); ok {
		c.Value = v
	}
	if s, ok := store.Int(StepKey); ok && s > 0 {
		c.Step = s
	}
	return c
}

// Signals carries the step input.
type Signals struct {
	Step any `json:"step"`
}

// Handlers provides HTTP handlers for the counter feature.
type Handlers struct{}

// NewHandlers creates a new Handlers instance.
func NewHandlers() *Handlers {
	return &Handlers{}
}

// CounterPage renders the counter panel.
func (h *Handlers) CounterPage(_ http.ResponseWriter, r *http.Request) (templ.Component, error) {
	return counterView(Load(session.FromContext(r.Context()))), nil
}

// Increment adds the step.
func (h *Handlers) Increment(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, func(c Counter) Counter { c.Value += c.Step; return c })
}

// Decrement subtracts the step.
func (h *Handlers) Decrement(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, func(c Counter) Counter { c.Value -= c.Step; return c })
}

// Reset sets the value back to zero and keeps the step.
func (h *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, func(c Counter) Counter { c.Value = 0; return c })
}

// SetStep changes the step. Invalid steps leave the counter unchanged.
func (h *Handlers) SetStep(w http.ResponseWriter, r *http.Request) {
	var sig Signals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	store := session.FromContext(r.Context())
	step, err := parseStep(sig.Step)
	if err == nil {
		store.SetInt(StepKey, step)
	}

	sse := datastar.NewSSE(w, r)
	c := Load(store)
	msg := ""
	if err != nil {
		msg = ErrStep
	}
	if err := sse.PatchElementTempl(panel(c, msg)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// update applies fn to the stored counter before the response starts.
func (h *Handlers) update(w http.ResponseWriter, r *http.Request, fn func(Counter) Counter) {
	store := session.FromContext(r.Context())
	c := fn(Load(store))
	store.SetInt(ValueKey, c.Value)

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(panel(c, "")); err != nil {
		_ = sse.ConsoleError(err)
	}
}

func parseStep(v any) (int, error) {
	s := strings.TrimSpace(fmt.Sprint(v))
	if v == nil || s == "" {
		return 0, fmt.Errorf("missing step")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid step %q: %w", s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("step %d is not positive", n)
	}
	return n, nil
}
