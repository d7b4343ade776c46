// httpcontroller/routes.go
package httpcontroller

import (
	"embed"
	"html/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/quiltring/quiltring/internal/logging"
)

// Embed the view templates.
//
//go:embed views/*.html
var ViewsFs embed.FS

// initRoutes initializes the routes for the server.
func (s *Server) initRoutes() {
	funcMap := template.FuncMap{
		"title": cases.Title(language.English).String,
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(ViewsFs, "views/*.html")
	if err != nil {
		logging.Fatal("Failed to parse view templates", "error", err)
	}
	s.Echo.Renderer = &TemplateRenderer{templates: tmpl}

	s.Echo.GET("/", s.handleList)
	s.Echo.GET("/"+s.Settings.Roster.BasePath+"/:slug", s.handleMember)
	s.Echo.GET("/healthz", s.handleHealthz)
}
