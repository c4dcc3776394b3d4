package web

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// Viewer is the auth state every page renders in its navbar.
type Viewer struct {
	IsAuthenticated bool
	Username        string
	DisplayName     string
}

// Page is the top-level value handed to every template.
type Page struct {
	Title   string
	Viewer  Viewer
	Flash   string
	Refresh int
	Data    interface{}
}

// Load parses the embedded templates. now drives the relative date helpers.
func Load(now func() time.Time) (*template.Template, error) {
	if now == nil {
		now = time.Now
	}
	return template.New("").Funcs(Funcs(now)).ParseFS(templateFS, "templates/*.html")
}

func Funcs(now func() time.Time) template.FuncMap {
	return template.FuncMap{
		"relativeDate": func(t time.Time) string {
			return RelativeDate(t, now(), false)
		},
		"relativeDateTime": func(t time.Time) string {
			return RelativeDate(t, now(), true)
		},
		"displayName": DisplayName,
		"initial":     Initial,
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
	}
}
