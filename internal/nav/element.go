package nav

import (
	"net/http"

	"github.com/a-h/templ"
)

// Page renders the content of a leaf route. A nil component with a nil
// error means the page already wrote the response itself.
type Page func(w http.ResponseWriter, r *http.Request) (templ.Component, error)

// Layout wraps the content rendered by a descendant route.
type Layout func(r *http.Request, outlet templ.Component) templ.Component

// Context is handed to Factory elements when the tree is compiled.
type Context struct {
	Sections []Section
}

// Element is the closed set of things a node can render:
// Static, Factory, Leaf and PassThrough.
type Element interface {
	element()
}

// Static is a fixed layout around the node's children.
type Static struct {
	Layout Layout
}

// Factory builds the node's layout from the compile-time Context.
type Factory func(Context) Layout

// Leaf renders a page.
type Leaf struct {
	Page Page
}

// PassThrough renders its children unchanged.
type PassThrough struct{}

func (Static) element()      {}
func (Factory) element()     {}
func (Leaf) element()        {}
func (PassThrough) element() {}

// resolved is the outcome of resolving a node's element.
type resolved struct {
	layout Layout // nil for pages and pass-throughs
	page   Page   // nil for layouts and pass-throughs
}

// resolveElement turns a node's element into a layout or a page.
func resolveElement(n *Node, ctx Context) (resolved, error) {
	switch el := n.Element.(type) {
	case Static:
		if el.Layout != nil {
			return resolved{layout: el.Layout}, nil
		}
	case Factory:
		if el != nil {
			if layout := el(ctx); layout != nil {
				return resolved{layout: layout}, nil
			}
		}
	case Leaf:
		if el.Page != nil {
			return resolved{page: el.Page}, nil
		}
	case PassThrough:
		return resolved{}, nil
	}
	// A node without a usable element still renders its children.
	if len(n.Children) > 0 {
		return resolved{}, nil
	}
	return resolved{}, &RouteError{ID: n.ID, Err: ErrUnrenderable}
}

// kind names the resolved element for listings.
func (r resolved) kind() string {
	switch {
	case r.page != nil:
		return "page"
	case r.layout != nil:
		return "layout"
	default:
		return "outlet"
	}
}
