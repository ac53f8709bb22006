package api

import (
	"net/http"

	"github.com/JaimeStill/auditor/pkg/routes"
)

// registerRoutes mounts every domain route group on mux and returns the
// registered patterns.
func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) []string {
	groups := []routes.Group{
		domain.Sessions.Handler().Routes(),
		domain.Pipeline.Handler(runtime.MaxUploadSize).Routes(),
	}

	routes.Register(mux, groups...)
	return routes.Patterns(groups...)
}
