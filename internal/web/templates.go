package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/lostfound/internal/auth"
	"github.com/erazemk/lostfound/internal/catalog"
	"github.com/erazemk/lostfound/internal/model"
	webembed "github.com/erazemk/lostfound/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map. Timestamps are shown in loc.
func FuncMap(loc *time.Location) template.FuncMap {
	return template.FuncMap{
		"roleLabel":  model.RoleLabel,
		"roles":      func() []string { return model.Roles },
		"categories": func() []string { return model.Categories },
		"monthLabel": catalog.MonthLabel,
		"formatDate": catalog.FormatDate,
		"formatTime": func(t any) string {
			switch v := t.(type) {
			case time.Time:
				return catalog.FormatDateTime(v, loc)
			case *time.Time:
				if v == nil {
					return ""
				}
				return catalog.FormatDateTime(*v, loc)
			}
			return ""
		},
		"shortID": catalog.ShortID,
	}
}

var pages = []string{
	"browse.html",
	"item_detail.html",
	"return.html",
	"not_found.html",
	"login.html",
	"signup.html",
	"dashboard.html",
	"register.html",
	"register_done.html",
	"registrants.html",
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates(loc *time.Location) (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap(loc))
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a page with status 200.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	ts.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus renders a page with the given status code.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title      string
	User       *auth.Claims
	Registrant *model.Registrant
	Error      string
	Success    string
}

