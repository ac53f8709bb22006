package web

import (
	"net/http"

	"github.com/JaimeStill/auditor/pkg/routes"
)

// Router is a ServeMux whose unmatched requests go to a notFound handler
// instead of the mux's plain-text 404.
type Router struct {
	mux      *http.ServeMux
	notFound http.Handler
}

// NewRouter creates a Router. A nil notFound keeps the ServeMux behavior.
func NewRouter(notFound http.Handler) *Router {
	return &Router{mux: http.NewServeMux(), notFound: notFound}
}

func (r *Router) HandleFunc(pattern string, handler http.HandlerFunc) {
	r.mux.HandleFunc(pattern, handler)
}

// HandleRoutes registers a flat list of routes.
func (r *Router) HandleRoutes(list []routes.Route) {
	routes.Register(r.mux, routes.Group{Routes: list})
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if r.notFound != nil {
		if _, pattern := r.mux.Handler(req); pattern == "" {
			r.notFound.ServeHTTP(w, req)
			return
		}
	}
	r.mux.ServeHTTP(w, req)
}
