// Package routes declares HTTP routes as nested prefix groups and registers
// them on a net/http ServeMux.
package routes

import "net/http"

// Group organizes routes and child groups under a common prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	walk(groups, func(pattern string, r Route) {
		mux.HandleFunc(pattern, r.Handler)
	})
}

// Patterns returns the ServeMux pattern of every route in groups, in
// declaration order.
func Patterns(groups ...Group) []string {
	var patterns []string
	walk(groups, func(pattern string, _ Route) {
		patterns = append(patterns, pattern)
	})
	return patterns
}

func walk(groups []Group, fn func(string, Route)) {
	for _, g := range groups {
		walkGroup("", g, fn)
	}
}

func walkGroup(parent string, g Group, fn func(string, Route)) {
	prefix := parent + g.Prefix
	for _, r := range g.Routes {
		fn(r.pattern(prefix), r)
	}
	for _, child := range g.Children {
		walkGroup(prefix, child, fn)
	}
}
