package components

import (
	"github.com/a-h/templ"

	"github.com/leapstack-labs/shading/internal/ui/resources"
)

// DatastarScript is the client runtime that applies server patches.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// Document describes the HTML shell around a page.
type Document struct {
	Title string
	// Dev keeps a connection to /reload open so the browser refreshes when
	// static assets change.
	Dev bool
}

// Shell renders a complete HTML document with body inside.
func Shell(doc Document, body templ.Component) templ.Component {
	return component(func(w *writer) {
		w.raw("<!doctype html>\n<html lang=\"en\"><head><meta charset=\"utf-8\">")
		w.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		w.printf("<title>%s - Shading</title>", esc(doc.Title))
		w.printf(`<link rel="stylesheet" href="%s">`, resources.StaticPath("app.css"))
		w.printf(`<script type="module" src="%s"></script>`, DatastarScript)
		w.printf(`<script defer src="%s"></script>`, resources.StaticPath("app.js"))
		w.raw("</head><body>")
		if doc.Dev {
			w.raw(`<div id="hot-reload" data-init="@get('/reload', {openWhenHidden: true})"></div>`)
		}
		w.child(body)
		w.raw("</body></html>")
	})
}

// Alert renders a message box. An empty message renders an empty placeholder
// with the same id so it can be patched later.
func Alert(id, kind, msg string) templ.Component {
	return component(func(w *writer) {
		if msg == "" {
			w.printf(`<div id="%s"></div>`, esc(id))
			return
		}
		w.printf(`<div id="%s" class="alert alert-%s" role="alert">%s</div>`, esc(id), esc(kind), esc(msg))
	})
}
