// Package web serves server-rendered pages and embedded static assets.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

// ViewDef describes a page: the route it answers, its template file, its
// title, and the name of its script and stylesheet bundle under dist/.
type ViewDef struct {
	Route    string
	Template string
	Title    string
	Bundle   string
}

// ViewData is the value every page template renders against.
// BasePath is the mount point of the owning module, for building URLs.
type ViewData struct {
	Title    string
	Bundle   string
	BasePath string
	Data     any
}

// TemplateSet holds one parsed template tree per view, each built from a
// shared set of layouts.
type TemplateSet struct {
	views    map[string]*template.Template
	layout   string
	basePath string
}

// NewTemplateSet parses the layouts matching layoutGlob in fsys, then clones
// them once per view and parses the view file from viewDir. layout names the
// template every view is executed through.
func NewTemplateSet(fsys fs.FS, layoutGlob, viewDir, layout, basePath string, views ...ViewDef) (*TemplateSet, error) {
	layouts, err := template.ParseFS(fsys, layoutGlob)
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}
	if layouts.Lookup(layout) == nil {
		return nil, fmt.Errorf("layout %q not defined by %s", layout, layoutGlob)
	}

	viewFS, err := fs.Sub(fsys, viewDir)
	if err != nil {
		return nil, err
	}

	set := &TemplateSet{
		views:    make(map[string]*template.Template, len(views)),
		layout:   layout,
		basePath: basePath,
	}

	for _, v := range views {
		t, err := layouts.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", v.Template, err)
		}
		if _, err := t.ParseFS(viewFS, v.Template); err != nil {
			return nil, fmt.Errorf("parse view %s: %w", v.Template, err)
		}
		set.views[v.Template] = t
	}

	return set, nil
}

// Handler renders view with the given status. data is exposed as {{ .Data }}.
func (ts *TemplateSet) Handler(view ViewDef, status int, data any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := ts.Render(view, data)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		w.Write(page)
	}
}

// Render executes view through the layout into memory.
func (ts *TemplateSet) Render(view ViewDef, data any) ([]byte, error) {
	t, ok := ts.views[view.Template]
	if !ok {
		return nil, fmt.Errorf("template not found: %s", view.Template)
	}

	var buf bytes.Buffer
	err := t.ExecuteTemplate(&buf, ts.layout, ViewData{
		Title:    view.Title,
		Bundle:   view.Bundle,
		BasePath: ts.basePath,
		Data:     data,
	})
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", view.Template, err)
	}

	return buf.Bytes(), nil
}
