package http

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"spendwise/internal/core"
	"spendwise/internal/forms"
	applog "spendwise/internal/log"
)

// views holds one template set per page, each a clone of the base layout.
type views struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"money": func(m core.Money) string { return m.String() },
	"negative": func(m core.Money) bool {
		return m.IsNegative()
	},
	"label": func(t core.TransactionType) string { return t.Label() },
	"fieldErr": func(errs forms.Errors, field string) string {
		return errs.First(field)
	},
	"selected": func(a, b any) bool { return fmt.Sprint(a) == fmt.Sprint(b) },
	"add":      func(a, b int) int { return a + b },
}

func parseViews(fsys fs.FS) (*views, error) {
	base, err := template.New("base.html").Funcs(templateFuncs).ParseFS(fsys, "templates/base.html")
	if err != nil {
		return nil, err
	}

	files, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, err
	}

	v := &views{pages: make(map[string]*template.Template)}
	for _, f := range files {
		name := path.Base(f)
		if name == "base.html" {
			continue
		}
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(fsys, f); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		v.pages[strings.TrimSuffix(name, ".html")] = t
	}
	return v, nil
}

// page is the data every template receives.
type page struct {
	User         *core.User
	SheetsExport bool
	Content      any
}

// render buffers the page so template errors never produce half a response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, content any) {
	t, ok := s.views.pages[name]
	if !ok {
		s.serverError(w, r, fmt.Errorf("unknown template %q", name))
		return
	}

	p := page{Content: content, SheetsExport: s.Sheets != nil}
	if u, ok := userFrom(r); ok {
		p.User = &u
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base.html", p); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed",
			applog.FieldError, err,
			applog.FieldOperation, applog.OpRender,
			"template", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
