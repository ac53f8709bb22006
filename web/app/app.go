// Package app serves the auditor's single-page UI.
package app

import (
	"embed"
	"net/http"

	"github.com/JaimeStill/auditor/pkg/module"
	"github.com/JaimeStill/auditor/pkg/web"
)

//go:embed templates
var templateFS embed.FS

//go:embed dist
var distFS embed.FS

//go:embed public
var publicFS embed.FS

const layout = "app"

var (
	auditorView  = web.ViewDef{Route: "/{$}", Template: "auditor.html", Title: "Universal Sustainability Auditor", Bundle: "app"}
	notFoundView = web.ViewDef{Template: "not-found.html", Title: "Not Found", Bundle: "app"}
)

// PageData is exposed to the auditor view.
type PageData struct {
	APIBase string
	Model   string
}

// NewModule creates the UI module mounted at basePath. apiBase is the path
// the page uses to reach the JSON API.
func NewModule(basePath string, data PageData) (*module.Module, error) {
	ts, err := web.NewTemplateSet(
		templateFS,
		"templates/layouts/*.html", "templates/views",
		layout, basePath,
		auditorView, notFoundView,
	)
	if err != nil {
		return nil, err
	}

	dist, err := web.DistServer(distFS, "dist", "/dist/")
	if err != nil {
		return nil, err
	}

	router := web.NewRouter(ts.Handler(notFoundView, http.StatusNotFound, nil))
	router.HandleFunc("GET "+auditorView.Route, ts.Handler(auditorView, http.StatusOK, data))
	router.HandleFunc("GET /dist/", dist)
	router.HandleRoutes(web.PublicFileRoutes(publicFS, "public", "favicon.svg"))

	return module.New(basePath, router)
}
