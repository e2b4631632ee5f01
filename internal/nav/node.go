// Package nav compiles the declarative route tree of the dashboard into
// mountable HTTP routes and the grouped sidebar navigation.
//
// A tree is built once at startup from static configuration and never
// mutated afterwards. Compile validates it, derives the sidebar sections
// and resolves every element; Tree.Mount registers the pages on a chi router.
package nav

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnrenderable is returned for a node that has no element and no children.
var ErrUnrenderable = errors.New("route is missing an element or component")

// RouteError reports a configuration problem on a specific node.
type RouteError struct {
	ID  string
	Err error
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("route %q: %v", e.ID, e.Err)
}

func (e *RouteError) Unwrap() error { return e.Err }

// NavMeta places a node in the sidebar.
type NavMeta struct {
	Section      string
	SectionOrder *int
	LinkOrder    *int
}

// Order returns a pointer to n, for NavMeta literals.
func Order(n int) *int { return &n }

// Node is a single entry of the route configuration.
type Node struct {
	ID    string
	Path  string
	Index bool
	Label string
	Icon  string
	Nav   *NavMeta

	// Element decides what the node renders. A nil Element on a node with
	// children behaves as PassThrough.
	Element Element

	// Middleware wraps every page mounted at or below this node.
	Middleware []func(http.Handler) http.Handler

	Children []*Node
}

// Walk visits n and its descendants in pre-order with the base path each
// node resolves against. It stops at the first error returned by fn.
func (n *Node) Walk(base string, fn func(node *Node, base string) error) error {
	if err := fn(n, base); err != nil {
		return err
	}
	next := childBase(base, n)
	for _, child := range n.Children {
		if err := child.Walk(next, fn); err != nil {
			return err
		}
	}
	return nil
}
