package server

import (
	"embed"
	"html/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// loadTemplates parses the embedded page templates. Panics at startup on a
// malformed template rather than failing per-request.
func loadTemplates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))
}
