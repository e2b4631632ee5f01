package components

import (
	"strconv"

	"github.com/a-h/templ"
)

// Page describes the section wrapping a page body.
type Page struct {
	Class string
	Title string
	Lead  string
	// Init is a Datastar expression run when the section loads.
	Init string
}

// PageSection renders a page heading, its lead and the children.
func PageSection(p Page, children ...templ.Component) templ.Component {
	return component(func(w *writer) {
		w.printf(`<section class="%s"`, esc(p.Class))
		if p.Init != "" {
			w.printf(` data-init="%s"`, esc(p.Init))
		}
		w.printf(`><h1>%s</h1>`, esc(p.Title))
		if p.Lead != "" {
			w.printf(`<p class="lead">%s</p>`, esc(p.Lead))
		}
		for _, c := range children {
			w.child(c)
		}
		w.raw(`</section>`)
	})
}

// Card wraps children in a card. An empty id or title is left out.
func Card(id, title string, children ...templ.Component) templ.Component {
	return component(func(w *writer) {
		w.raw(`<div`)
		if id != "" {
			w.printf(` id="%s"`, esc(id))
		}
		w.raw(` class="card">`)
		if title != "" {
			w.printf(`<h2>%s</h2>`, esc(title))
		}
		for _, c := range children {
			w.child(c)
		}
		w.raw(`</div>`)
	})
}

// CardGrid lays out stat cards side by side.
func CardGrid(id string, cards ...templ.Component) templ.Component {
	return component(func(w *writer) {
		w.printf(`<div id="%s" class="cards">`, esc(id))
		for _, c := range cards {
			w.child(c)
		}
		w.raw(`</div>`)
	})
}

// Muted renders a de-emphasised paragraph.
func Muted(text string) templ.Component {
	return component(func(w *writer) {
		w.printf(`<p class="muted">%s</p>`, esc(text))
	})
}

// Link is one entry of a Links row.
type Link struct {
	Label string
	Href  string
}

// Links renders links on one line separated by middle dots.
func Links(links ...Link) templ.Component {
	return component(func(w *writer) {
		w.raw(`<p>`)
		for i, l := range links {
			if i > 0 {
				w.raw(` · `)
			}
			w.printf(`<a href="%s">%s</a>`, esc(l.Href), esc(l.Label))
		}
		w.raw(`</p>`)
	})
}

// Bar is one row of a BarList.
type Bar struct {
	Label string
	Count int
}

// BarList renders counts in a card as a table whose bars are scaled to
// the first row, so rows should come largest first.
func BarList(title string, rows []Bar) templ.Component {
	return component(func(w *writer) {
		w.printf(`<div class="card"><h2>%s</h2>`, esc(title))
		if len(rows) == 0 {
			w.raw(`<p class="muted">No data yet.</p></div>`)
			return
		}
		top := rows[0].Count
		w.raw(`<table><thead><tr><th scope="col">Name</th><th scope="col">Users</th><th scope="col"></th></tr></thead><tbody>`)
		for _, row := range rows {
			width := 0
			if top > 0 {
				width = min(row.Count*100/top, 100)
			}
			w.printf(`<tr><td>%s</td><td>%s</td><td><div class="bar" style="width: %s%%"></div></td></tr>`,
				esc(row.Label), strconv.Itoa(row.Count), strconv.Itoa(width))
		}
		w.raw(`</tbody></table></div>`)
	})
}

// Disclosure is a heading that loads its detail into a placeholder below
// it when clicked.
type Disclosure struct {
	// ID names the placeholder the detail is patched into.
	ID    string
	Title string
	// URL is fetched with @get on click.
	URL string
}

// DisclosureList renders items as a list of disclosures.
func DisclosureList(class string, items []Disclosure) templ.Component {
	return component(func(w *writer) {
		w.printf(`<ul class="%s">`, esc(class))
		for _, it := range items {
			w.printf(`<li><h3><a href="#%s" data-on:click="%s">%s</a></h3><div id="%s"></div></li>`,
				esc(it.ID), esc("@get('"+it.URL+"')"), esc(it.Title), esc(it.ID))
		}
		w.raw(`</ul>`)
	})
}

// Detail fills a disclosure placeholder. A failed detail is styled as an
// error.
func Detail(id, text string, failed bool) templ.Component {
	return component(func(w *writer) {
		class := ""
		if failed {
			class = ` class="field-error"`
		}
		w.printf(`<div id="%s"><p%s>%s</p></div>`, esc(id), class, esc(text))
	})
}
