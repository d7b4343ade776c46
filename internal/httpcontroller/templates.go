package httpcontroller

import (
	"html/template"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
)

// TemplateRenderer is a custom HTML template renderer for the Echo framework.
type TemplateRenderer struct {
	templates *template.Template
}

// Render renders a template with the given data.
func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

// listPageData is the data for the roster list page.
type listPageData struct {
	Title   string
	AppName string
	Entries []listEntry
}

// listEntry is one member link on the list page.
type listEntry struct {
	Slug        string
	DisplayName string
	Href        string
}

// memberPageData is the data for a member's page. Markup and Stylesheet are
// the member's own content, inserted verbatim.
type memberPageData struct {
	Title       string
	AppName     string
	Slug        string
	Description string
	Markup      template.HTML
	Stylesheet  template.CSS
}

// errorPageData is the data for the error page.
type errorPageData struct {
	Title   string
	AppName string
	Message string
}

// slugDisplayName turns a slug like "mary-oliver" into "mary oliver".
// Slugs are opaque, this is cosmetic only. Title casing happens in the
// templates via the title func.
func slugDisplayName(slug string) string {
	return strings.NewReplacer("-", " ", "_", " ").Replace(slug)
}

// renderPage renders a named template, recording render failures in metrics.
func (s *Server) renderPage(c echo.Context, status int, name string, data interface{}) error {
	err := c.Render(status, name, data)
	if err != nil && s.Metrics != nil {
		s.Metrics.HTTP.RecordTemplateRenderError(name)
	}
	return err
}
