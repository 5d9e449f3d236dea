// Package web holds the embedded HTML templates for the download pages.
package web

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// TimeLayout matches the DATETIME rendering of the old statistics page.
const TimeLayout = "2006-01-02 15:04:05"

var funcs = template.FuncMap{
	"formatTime": formatTime,
}

// Templates parses every page template. Values are escaped by html/template
// according to the context they are written into.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}
