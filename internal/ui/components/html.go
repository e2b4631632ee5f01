// Package components holds the shared HTML building blocks of the dashboard:
// the document shell, layouts, the data table and form controls.
package components

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// writer records the first write error so markup can be emitted without
// checking every call.
type writer struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

// printf writes formatted markup. Arguments are not escaped.
func (w *writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) child(c templ.Component) {
	if w.err != nil || c == nil {
		return
	}
	w.err = c.Render(w.ctx, w.w)
}

// component adapts a markup function to templ.Component.
func component(fn func(w *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{ctx: ctx, w: out}
		fn(w)
		return w.err
	})
}

// esc escapes s for use in text or a quoted attribute.
func esc(s string) string {
	return templ.EscapeString(s)
}

// Signals encodes v as the value of a data-signals attribute.
func Signals(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return esc(string(b))
}

// Text renders escaped text.
func Text(s string) templ.Component {
	return component(func(w *writer) { w.text(s) })
}

// Label turns a stored value such as "admin" or "human resources" into a
// display label.
func Label(s string) string {
	if s == "" {
		return "-"
	}
	// Casers keep state between calls.
	return cases.Title(language.English).String(s)
}
