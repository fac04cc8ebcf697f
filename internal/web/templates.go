package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

type Templates struct {
	all *template.Template
}

func MustParseTemplates() *Templates {
	t := template.New("").Funcs(template.FuncMap{
		"shortDate": func(date string) string {
			if ts, err := time.Parse(time.RFC3339, date); err == nil {
				return ts.Format("2006-01-02")
			}
			if len(date) >= 10 {
				return date[:10]
			}
			return date
		},
	})
	t = template.Must(t.ParseFS(templateFS, "templates/*.html"))
	return &Templates{all: t}
}

func (t *Templates) RenderPage(w http.ResponseWriter, data ViewData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	var content bytes.Buffer
	if err := t.all.ExecuteTemplate(&content, data.ContentTemplate, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	pageData := data
	pageData.ContentHTML = template.HTML(content.String())
	if err := t.all.ExecuteTemplate(w, "base", pageData); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
