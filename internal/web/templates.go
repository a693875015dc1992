package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strconv"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// pages lists every template rendered on its own; each is parsed with base.html.
var pages = []string{"index.html", "add.html", "select.html", "edit.html", "error.html"}

var templateFuncs = template.FuncMap{
	"year": func(y *int) string {
		if y == nil {
			return ""
		}
		return strconv.Itoa(*y)
	},
	"rating": formatRating,
	"text": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"rank": func(r *int) string {
		if r == nil {
			return "-"
		}
		return strconv.Itoa(*r)
	},
}

func formatRating(r *float64) string {
	if r == nil {
		return ""
	}
	return strconv.FormatFloat(*r, 'f', -1, 64)
}

// parseTemplates builds one template set per page.
func parseTemplates() (map[string]*template.Template, error) {
	sets := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(templateFuncs).ParseFS(templateFS, "templates/base.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		sets[page] = tmpl
	}
	return sets, nil
}

// staticFiles returns the embedded static directory rooted at its contents.
func staticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// execute renders page into a buffer so a failing template never writes a partial response.
func execute(tmpl *template.Template, data any) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return nil, err
	}
	return &buf, nil
}
