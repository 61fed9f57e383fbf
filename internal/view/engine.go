package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"sync"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the stylesheet tree served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Engine renders the embedded page templates. It satisfies fiber.Views.
type Engine struct {
	mu   sync.RWMutex
	tmpl *template.Template
}

// NewEngine parses the templates once up front.
func NewEngine() (*Engine, error) {
	e := &Engine{}
	if err := e.Load(); err != nil {
		return nil, err
	}
	return e, nil
}

// Load parses every template. Calling it again reparses.
func (e *Engine) Load() error {
	t, err := template.New("").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	e.mu.Lock()
	e.tmpl = t
	e.mu.Unlock()
	return nil
}

// Render executes the named template. Layouts are defined inside the page
// templates, so the layout arguments are ignored.
func (e *Engine) Render(w io.Writer, name string, binding any, _ ...string) error {
	e.mu.RLock()
	t := e.tmpl
	e.mu.RUnlock()
	if t == nil {
		return fmt.Errorf("templates not loaded")
	}
	return t.ExecuteTemplate(w, name, binding)
}
