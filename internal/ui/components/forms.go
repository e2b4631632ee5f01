package components

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/shading/internal/grid"
)

// Field describes one form control bound to a signal.
type Field struct {
	Name        string
	Label       string
	Type        string // text, email, password, checkbox or select
	Bind        string // signal path, e.g. "form.email"
	Placeholder string
	Options     []grid.SelectOption
	Error       string
	// OnEnter is a datastar expression run when Enter is pressed.
	OnEnter string
}

// Input renders a labelled control with its validation message.
func Input(f Field) templ.Component {
	return component(func(w *writer) {
		id := "field-" + f.Name
		w.printf(`<div class="field" id="%s-wrap">`, esc(id))
		switch f.Type {
		case "checkbox":
			w.printf(`<label class="checkbox"><input type="checkbox" id="%s" name="%s" data-bind="%s"> %s</label>`,
				esc(id), esc(f.Name), esc(f.Bind), esc(f.Label))
		case "select":
			w.printf(`<label for="%s">%s</label><select id="%s" name="%s" data-bind="%s">`,
				esc(id), esc(f.Label), esc(id), esc(f.Name), esc(f.Bind))
			for _, opt := range f.Options {
				w.printf(`<option value="%s">%s</option>`, esc(opt.Value), esc(opt.Label))
			}
			w.raw(`</select>`)
		default:
			typ := f.Type
			if typ == "" {
				typ = "text"
			}
			w.printf(`<label for="%s">%s</label><input type="%s" id="%s" name="%s" data-bind="%s"`,
				esc(id), esc(f.Label), esc(typ), esc(id), esc(f.Name), esc(f.Bind))
			if f.Placeholder != "" {
				w.printf(` placeholder="%s"`, esc(f.Placeholder))
			}
			if f.OnEnter != "" {
				w.printf(` data-on:keydown="evt.key === 'Enter' && %s"`, esc(f.OnEnter))
			}
			if f.Error != "" {
				w.raw(` aria-invalid="true"`)
			}
			w.raw(">")
		}
		if f.Error != "" {
			w.printf(`<p class="field-error">%s</p>`, esc(f.Error))
		}
		w.raw("</div>")
	})
}

// Button renders a button running action on click. Disabled buttons keep
// their action so a patch can re-enable them.
func Button(label, class, action string, disabled bool) templ.Component {
	return component(func(w *writer) {
		if class == "" {
			class = "btn"
		}
		w.printf(`<button type="button" class="%s"`, esc(class))
		if action != "" {
			w.printf(` data-on:click="%s"`, esc(action))
		}
		if disabled {
			w.raw(" disabled")
		}
		w.printf(">%s</button>", esc(label))
	})
}

// CloseButton dismisses the overlay it sits in. Escape triggers it too.
func CloseButton(label, action string) templ.Component {
	return component(func(w *writer) {
		w.printf(`<button type="button" class="btn btn-ghost" data-close data-on:click="%s">%s</button>`, esc(action), esc(label))
	})
}

// SubmitButton disables itself while the request tracked by indicator is
// in flight.
func SubmitButton(label, busyLabel, action, indicator string) templ.Component {
	return component(func(w *writer) {
		w.printf(`<button type="button" class="btn btn-primary" data-indicator="%s" data-on:click="%s" data-attr:disabled="$%s">`,
			esc(indicator), esc(action), esc(indicator))
		w.printf(`<span data-show="!$%s">%s</span><span data-show="$%s">%s</span></button>`,
			esc(indicator), esc(label), esc(indicator), esc(busyLabel))
	})
}

// Sheet is a side panel. An empty body renders the closed placeholder.
func Sheet(id, title string, body templ.Component) templ.Component {
	return component(func(w *writer) {
		if body == nil {
			w.printf(`<div id="%s"></div>`, esc(id))
			return
		}
		w.printf(`<div id="%s" class="sheet" role="dialog" aria-label="%s"><div class="sheet-panel">`, esc(id), esc(title))
		w.printf(`<h2>%s</h2>`, esc(title))
		w.child(body)
		w.raw(`</div></div>`)
	})
}

// Dialog is a modal confirmation. An empty body renders the closed placeholder.
func Dialog(id, title string, body templ.Component) templ.Component {
	return component(func(w *writer) {
		if body == nil {
			w.printf(`<div id="%s"></div>`, esc(id))
			return
		}
		w.printf(`<div id="%s" class="dialog-backdrop"><div class="dialog" role="alertdialog" aria-label="%s">`, esc(id), esc(title))
		w.printf(`<h2>%s</h2>`, esc(title))
		w.child(body)
		w.raw(`</div></div>`)
	})
}

// StatCard renders a single figure on the overview.
func StatCard(title string, value int, hint string) templ.Component {
	return component(func(w *writer) {
		w.printf(`<div class="card stat"><p class="stat-title">%s</p><p class="stat-value">%s</p>`,
			esc(title), strconv.Itoa(value))
		if hint != "" {
			w.printf(`<p class="stat-hint">%s</p>`, esc(hint))
		}
		w.raw(`</div>`)
	})
}
