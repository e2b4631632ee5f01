package nav

import "strings"

// ResolveFullPath returns the absolute path of n when its parent resolves to base.
// Index nodes and nodes without a path segment resolve to base itself.
func ResolveFullPath(base string, n *Node) string {
	if n.Index || n.Path == "" {
		if base == "" {
			return "/"
		}
		return base
	}

	normalizedBase := ""
	if base != "/" && base != "" {
		normalizedBase = strings.TrimSuffix(strings.TrimPrefix(base, "/"), "/")
	}
	normalizedPath := strings.TrimPrefix(n.Path, "/")

	parts := make([]string, 0, 2)
	for _, p := range []string{normalizedBase, normalizedPath} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return "/" + strings.Join(parts, "/")
}

// childBase is the base path handed to n's children. Index routes do not
// extend the path of their descendants.
func childBase(base string, n *Node) string {
	if n.Index {
		return base
	}
	return ResolveFullPath(base, n)
}
