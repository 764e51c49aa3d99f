// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public blog.
// It supports full-page and HTMX partial rendering, automatically detecting
// the request type via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"pressroom/internal/markdown"
	"pressroom/internal/middleware"
	"pressroom/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Shared files parsed together with every page.
const (
	layoutFile   = "base.html"
	partialsFile = "partials.html"
)

// Nav is the sidebar navigation shown on every page.
type Nav struct {
	Categories []models.Category
	Tags       []models.Tag
}

// PageData holds all data passed to page templates.
type PageData struct {
	Title     string         // Page title for <title> tag
	SiteName  string         // Set by the renderer
	Nav       Nav            // Categories and tags for the sidebar
	CSRFToken string         // CSRF token for forms and HTMX headers
	RequestID string         // Shown on error pages
	Data      map[string]any // Page-specific data
}

// Renderer handles template parsing and execution for public pages.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
	siteName  string
}

// New creates a Renderer by parsing all page templates from the embedded
// filesystem. Each page template is paired with the base layout and the
// shared partials.
func New(siteName string) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		siteName:  siteName,
		funcMap: template.FuncMap{
			// markdown renders a post body. Raw HTML in the source is dropped
			// by the converter, so the result is safe to emit.
			"markdown": func(s string) template.HTML {
				out, err := markdown.ToHTML(s)
				if err != nil {
					return template.HTML(template.HTMLEscapeString(s))
				}
				return template.HTML(out)
			},
			"excerpt": markdown.Excerpt,
			"formatDate": func(t time.Time) string {
				return t.UTC().Format("January 2, 2006")
			},
			"pluralize": func(n int, singular, plural string) string {
				if n == 1 {
					return singular
				}
				return plural
			},
		},
	}

	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == layoutFile || name == partialsFile {
			continue
		}

		tmpl, err := template.New(layoutFile).Funcs(r.funcMap).ParseFS(
			templateFS,
			"templates/"+layoutFile,
			"templates/"+partialsFile,
			"templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}

		r.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}

	return r, nil
}

// Page renders a page with status 200. See PageStatus.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	rn.PageStatus(w, r, http.StatusOK, name, data)
}

// PageStatus renders a full page, or only its "content" block for HTMX
// requests, with the given status. Output is buffered so a template error
// yields a clean 500 rather than a truncated page.
func (rn *Renderer) PageStatus(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	data.SiteName = rn.siteName
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	data.RequestID = middleware.RequestIDFromCtx(r.Context())

	execName := layoutFile
	if isHTMX(r) {
		execName = "content"
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, execName, data); err != nil {
		slog.ErrorContext(r.Context(), "template execution failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
