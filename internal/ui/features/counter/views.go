package counter

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/shading/internal/ui/components"
)

const panelID = "counter-panel"

func counterView(c Counter) templ.Component {
	return templ.Join(
		templ.Raw(`<section class="counter" data-signals="`+components.Signals(map[string]int{"step": c.Step})+`"><h1>Counter</h1>`),
		templ.Raw(`<p class="lead">The value lives in your session and survives reloads.</p>`),
		panel(c, ""),
		templ.Raw(`</section>`),
	)
}

// panel is patched after every action.
func panel(c Counter, stepErr string) templ.Component {
	return templ.Join(
		templ.Raw(`<div id="`+panelID+`" class="card">`),
		templ.Raw(`<p class="counter-value">`+strconv.Itoa(c.Value)+`</p>`),
		templ.Raw(`<p class="muted">Step: `+strconv.Itoa(c.Step)+`</p>`),
		templ.Raw(`<div class="counter-actions">`),
		components.Button("-", "btn btn-outline", "@post('/api/counter/decrement')", false),
		components.Button("+", "btn btn-primary", "@post('/api/counter/increment')", false),
		components.Button("Reset", "btn btn-ghost", "@post('/api/counter/reset')", false),
		templ.Raw(`</div>`),
		components.Input(components.Field{
			Name: "step", Label: "Step", Type: "number", Bind: "step", Error: stepErr,
			OnEnter: "@post('/api/counter/step')",
		}),
		components.Button("Set step", "btn btn-outline", "@post('/api/counter/step')", false),
		templ.Raw(`</div>`),
	)
}
