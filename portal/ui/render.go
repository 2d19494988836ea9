package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"time"

	"clubhouse/internal/auth"
	"clubhouse/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

const baseTemplate = "templates/base.html"

// Page is the data every template receives
type Page struct {
	Title     string
	User      auth.UserClaims
	CSRFToken string
	Flash     string
	Error     string
	Fields    map[string]string
	Data      any
}

// FieldError returns the inline message for one form field
func (p *Page) FieldError(name string) string {
	return p.Fields[name]
}

var funcMap = template.FuncMap{
	"date": func(t time.Time) string {
		return t.UTC().Format("2006-01-02")
	},
	"datetime": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04")
	},
	"optdate": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.UTC().Format("2006-01-02")
	},
}

// Renderer holds one parsed template set per page, each layered on the base layout
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	base, err := template.New(path.Base(baseTemplate)).Funcs(funcMap).ParseFS(templateFS, baseTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == baseTemplate {
			continue
		}
		t, err := template.Must(base.Clone()).ParseFS(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		pages[path.Base(file)] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render executes the page into a buffer so a template error never leaves a
// half-written response
func (rd *Renderer) Render(w http.ResponseWriter, status int, name string, page *Page) {
	t, ok := rd.pages[name]
	if !ok {
		logging.Error("Unknown template", "template", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, path.Base(baseTemplate), page); err != nil {
		logging.Error("Failed to render template", "template", name, "error", err.Error())
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
