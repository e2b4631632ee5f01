package nav

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
)

// Route mirrors one configuration node after compilation.
type Route struct {
	ID      string `json:"id" yaml:"id"`
	Path    string `json:"path" yaml:"path"`
	Index   bool   `json:"index,omitempty" yaml:"index,omitempty"`
	Kind    string `json:"kind" yaml:"kind"`
	Mounted bool   `json:"mounted" yaml:"mounted"`
	Depth   int    `json:"depth" yaml:"depth"`
}

// endpoint is a page mounted at a path together with the layouts and
// middleware of its ancestors, outermost first.
type endpoint struct {
	id         string
	path       string
	page       Page
	layouts    []Layout
	middleware []func(http.Handler) http.Handler
}

// Tree is the compiled form of one or more route configurations.
type Tree struct {
	sections  []Section
	routes    []Route
	endpoints []endpoint
}

// Compile validates the given roots, derives the sidebar from the first
// root and resolves every element. It fails on the first node that cannot
// be rendered.
func Compile(roots ...*Node) (*Tree, error) {
	t := &Tree{}
	if len(roots) > 0 {
		t.sections = BuildSections(roots[0])
	}
	ctx := Context{Sections: cloneSections(t.sections)}

	seen := make(map[string]bool)
	for _, root := range roots {
		if root == nil {
			continue
		}
		if err := t.compileNode(root, "/", 0, ctx, nil, nil, seen); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Tree) compileNode(
	n *Node,
	base string,
	depth int,
	ctx Context,
	layouts []Layout,
	middleware []func(http.Handler) http.Handler,
	seen map[string]bool,
) error {
	res, err := resolveElement(n, ctx)
	if err != nil {
		return err
	}

	path := ResolveFullPath(base, n)
	middleware = append(middleware[:len(middleware):len(middleware)], n.Middleware...)
	if res.layout != nil {
		layouts = append(layouts[:len(layouts):len(layouts)], res.layout)
	}

	route := Route{ID: n.ID, Path: path, Index: n.Index, Kind: res.kind(), Depth: depth}
	mount := func(page Page) {
		if seen[path] {
			return
		}
		seen[path] = true
		route.Mounted = true
		t.endpoints = append(t.endpoints, endpoint{
			id:         n.ID,
			path:       path,
			page:       page,
			layouts:    layouts,
			middleware: middleware,
		})
	}

	switch {
	case res.page != nil:
		mount(res.page)
	case res.layout != nil && !hasIndexChild(n):
		mount(emptyOutlet)
	}

	t.routes = append(t.routes, route)

	next := childBase(base, n)
	for _, child := range n.Children {
		if err := t.compileNode(child, next, depth+1, ctx, layouts, middleware, seen); err != nil {
			return err
		}
	}
	return nil
}

func hasIndexChild(n *Node) bool {
	for _, child := range n.Children {
		if child.Index {
			return true
		}
	}
	return false
}

func emptyOutlet(http.ResponseWriter, *http.Request) (templ.Component, error) {
	return templ.NopComponent, nil
}

// Sections returns a copy of the derived sidebar.
func (t *Tree) Sections() []Section {
	return cloneSections(t.sections)
}

// Routes lists every compiled node in pre-order.
func (t *Tree) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Mount registers a GET handler on r for every mounted page.
func (t *Tree) Mount(r chi.Router) {
	for _, ep := range t.endpoints {
		var h http.Handler = ep
		for i := len(ep.middleware) - 1; i >= 0; i-- {
			h = ep.middleware[i](h)
		}
		r.Method(http.MethodGet, ep.path, h)
	}
}

func (ep endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	content, err := ep.page(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if content == nil {
		return
	}
	for i := len(ep.layouts) - 1; i >= 0; i-- {
		content = ep.layouts[i](r, content)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := content.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
