package web

import (
	"bytes"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"time"

	"github.com/JaimeStill/auditor/pkg/routes"
)

// DistServer serves the bundles in subdir of fsys below urlPrefix. Bundles
// are revalidated on every load so a redeploy is picked up without a hard refresh.
func DistServer(fsys fs.FS, subdir, urlPrefix string) (http.HandlerFunc, error) {
	sub, err := fs.Sub(fsys, subdir)
	if err != nil {
		return nil, fmt.Errorf("dist %s: %w", subdir, err)
	}

	server := http.StripPrefix(urlPrefix, http.FileServer(http.FS(sub)))
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		server.ServeHTTP(w, r)
	}, nil
}

// PublicFile serves a single file from subdir of fsys.
func PublicFile(fsys fs.FS, subdir, filename string) http.HandlerFunc {
	name := path.Join(subdir, filename)
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeContent(w, r, filename, time.Time{}, bytes.NewReader(data))
	}
}

// PublicFileRoutes serves each named file at the module root, e.g. /favicon.svg.
func PublicFileRoutes(fsys fs.FS, subdir string, files ...string) []routes.Route {
	routeList := make([]routes.Route, len(files))
	for i, file := range files {
		routeList[i] = routes.Route{
			Method:  "GET",
			Pattern: "/" + file,
			Handler: PublicFile(fsys, subdir, file),
		}
	}
	return routeList
}
