package panel

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/edvin/crmpanel/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"pathEscape": func(id model.ID) string { return url.PathEscape(id.String()) },
}

type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	rr := &renderer{pages: map[string]*template.Template{}}
	for _, page := range []string{"login.html", "dashboard.html"} {
		t, err := template.New(page).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		rr.pages[page] = t
	}
	return rr, nil
}

// render executes page into a buffer first so a template error never leaves
// a half-written response.
func (rr *renderer) render(w http.ResponseWriter, status int, page string, data any) error {
	t, ok := rr.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
