// Package web renders the dashboard's server-side pages from embedded
// Liquid templates.
package web

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/osteele/liquid"
)

//go:embed templates/*.liquid
var templateFS embed.FS

const layoutName = "layout"

// Renderer implements echo.Renderer. Every page is rendered into the shared
// layout as {{ content }}. User data must be piped through | escape in the
// templates; the engine does not auto-escape.
type Renderer struct {
	layout *liquid.Template
	pages  map[string]*liquid.Template
}

// NewRenderer parses every embedded template once.
func NewRenderer() (*Renderer, error) {
	engine := liquid.NewEngine()
	engine.RegisterFilter("default", func(value any, fallback string) any {
		if value == nil {
			return fallback
		}
		if s, ok := value.(string); ok && s == "" {
			return fallback
		}
		return value
	})

	r := &Renderer{pages: make(map[string]*liquid.Template)}
	err := fs.WalkDir(templateFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		src, err := templateFS.ReadFile(p)
		if err != nil {
			return err
		}
		tpl, perr := engine.ParseTemplate(src)
		if perr != nil {
			return fmt.Errorf("parse %s: %w", p, perr)
		}
		name := strings.TrimSuffix(path.Base(p), ".liquid")
		if name == layoutName {
			r.layout = tpl
		} else {
			r.pages[name] = tpl
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if r.layout == nil {
		return nil, fmt.Errorf("web: %s template missing", layoutName)
	}
	return r, nil
}

// Render writes page name with data, which must be a map[string]any.
func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	page, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("web: unknown page %q", name)
	}

	bindings := liquid.Bindings{}
	if data != nil {
		m, ok := data.(map[string]any)
		if !ok {
			return fmt.Errorf("web: page %q wants map[string]any, got %T", name, data)
		}
		for k, v := range m {
			bindings[k] = v
		}
	}
	if c != nil {
		bindings["current_path"] = c.Request().URL.Path
		if email, _ := c.Get("email").(string); email != "" {
			bindings["current_user"] = email
		}
	}

	body, err := page.Render(bindings)
	if err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	bindings["content"] = string(body)

	out, err := r.layout.Render(bindings)
	if err != nil {
		return fmt.Errorf("render layout: %w", err)
	}
	_, werr := w.Write(out)
	return werr
}
