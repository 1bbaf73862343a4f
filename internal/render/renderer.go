// Package render serves the single server-rendered shell page for all
// non-API, non-static paths.
package render

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/oakwellhq/webstarter/internal/assets"
	"github.com/oakwellhq/webstarter/internal/config"
)

//go:embed layout/index.html
var defaultLayout embed.FS

// PageData is the template context for the shell page.
type PageData struct {
	HTML          config.HTMLMeta
	Assets        assets.Manifest
	Environment   string
	Authenticated bool
}

// Renderer implements echo.Renderer for the shell template.
type Renderer struct {
	tmpl *template.Template
}

// New parses the layout template. When layoutFile is empty the embedded
// default layout is used.
func New(layoutFile string) (*Renderer, error) {
	if layoutFile != "" {
		tmpl, err := template.ParseFiles(layoutFile)
		if err != nil {
			return nil, err
		}
		return &Renderer{tmpl: tmpl}, nil
	}
	tmpl, err := template.ParseFS(defaultLayout, "layout/index.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the named template. The shell page is the only template;
// name is kept for the echo.Renderer contract.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	if name == "" {
		name = "index.html"
	}
	return r.tmpl.ExecuteTemplate(w, name, data)
}

// Resolve returns the page metadata for a request path: the defaults with
// any per-path SEO override layered on top.
func Resolve(cfg config.Config, path string) config.HTMLMeta {
	html := cfg.HTML
	seo, ok := cfg.SEO[path]
	if !ok {
		return html
	}
	if seo.Title != "" {
		html.Title = seo.Title
	}
	if seo.Description != "" {
		html.Description = seo.Description
	}
	if seo.Keywords != "" {
		html.Keywords = seo.Keywords
	}
	return html
}
