package components

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/shading/internal/auth"
	"github.com/leapstack-labs/shading/internal/nav"
	"github.com/leapstack-labs/shading/internal/session"
)

// UserBadgeID is the element id of the signed-in user badge.
const UserBadgeID = "user-badge"

// DashboardLayout is the signed-in shell: sidebar built from sections,
// header with the current user and the routed page below.
func DashboardLayout(sections []nav.Section, dev bool) nav.Layout {
	return func(r *http.Request, outlet templ.Component) templ.Component {
		st, _ := auth.FromContext(r.Context())
		body := component(func(w *writer) {
			w.raw(`<div id="app" class="dashboard">`)
			w.child(Sidebar(sections, r.URL.Path))
			w.raw(`<div class="main"><header class="topbar">`)
			w.child(UserBadge(st.User))
			w.raw(`<button type="button" class="btn btn-ghost" data-on:click="@post('/auth/logout')">Log out</button>`)
			w.raw(`</header><main id="content" class="content">`)
			w.child(outlet)
			w.raw(`</main></div></div>`)
		})
		return Shell(Document{Title: "Dashboard", Dev: dev}, body)
	}
}

// Sidebar renders the navigation sections, highlighting the link active for current.
func Sidebar(sections []nav.Section, current string) templ.Component {
	return component(func(w *writer) {
		w.raw(`<aside class="sidebar"><a class="brand" href="/">Shading</a><nav>`)
		for _, sec := range sections {
			w.raw(`<div class="nav-section">`)
			if sec.Title != "" {
				w.printf(`<h2 class="nav-title">%s</h2>`, esc(sec.Title))
			}
			w.raw("<ul>")
			for _, l := range sec.Links {
				if l.Active(current) {
					w.printf(`<li><a class="nav-link active" aria-current="page" href="%s">`, esc(l.To))
				} else {
					w.printf(`<li><a class="nav-link" href="%s">`, esc(l.To))
				}
				w.printf(`<span class="icon icon-%s" aria-hidden="true"></span>%s</a></li>`, esc(l.Icon), esc(l.Title))
			}
			w.raw("</ul></div>")
		}
		w.raw("</nav></aside>")
	})
}

// UserBadge shows who is signed in.
func UserBadge(u *session.User) templ.Component {
	return component(func(w *writer) {
		w.printf(`<div id="%s" class="user-badge">`, UserBadgeID)
		if u != nil {
			w.printf(`<span class="avatar">%s</span>Signed in as <strong>%s</strong>`, esc(u.Initial()), esc(u.DisplayName()))
		}
		w.raw("</div>")
	})
}

// AuthLayout centres the sign-in forms.
func AuthLayout(dev bool) nav.Layout {
	return func(_ *http.Request, outlet templ.Component) templ.Component {
		body := component(func(w *writer) {
			w.raw(`<div id="app" class="auth"><div class="auth-card"><div class="brand">Shading</div>`)
			w.child(outlet)
			w.raw(`</div></div>`)
		})
		return Shell(Document{Title: "Sign in", Dev: dev}, body)
	}
}

// SettingsTabs are the tabs of the settings layout.
var SettingsTabs = []nav.Link{
	{Title: "Profile", To: "/settings/profile"},
	{Title: "Billing", To: "/settings/billing"},
}

// SettingsLayout renders the settings heading and tabs around the section.
// The bare /settings path shows the first tab.
func SettingsLayout(r *http.Request, outlet templ.Component) templ.Component {
	return component(func(w *writer) {
		current := r.URL.Path
		if current == "/settings" || current == "/settings/" {
			current = SettingsTabs[0].To
		}
		w.raw(`<section class="settings"><h1>Settings</h1><nav class="tabs">`)
		for _, tab := range SettingsTabs {
			class := "tab"
			if tab.Active(current) {
				class += " active"
			}
			w.printf(`<a class="%s" href="%s">%s</a>`, class, esc(tab.To), esc(tab.Title))
		}
		w.raw(`</nav><div class="tab-panel">`)
		w.child(outlet)
		w.raw(`</div></section>`)
	})
}
