package httpcontroller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quiltring/quiltring/internal/errors"
	"github.com/quiltring/quiltring/internal/roster"
)

// handleList renders the roster list: one link per member slug, in index
// order. An unreachable or malformed index renders the error page; an empty
// index renders the explicit empty state.
func (s *Server) handleList(c echo.Context) error {
	view := roster.NewListView(s.Roster)
	view.Load(c.Request().Context())

	if view.State() == roster.StateFailed {
		s.LogError(c, view.FailureError(), "Failed to load member index")
		return s.renderPage(c, http.StatusBadGateway, "error", errorPageData{
			Title:   "Error",
			AppName: s.Settings.Main.Name,
			Message: view.FailureMessage(),
		})
	}

	slugs := view.Slugs()
	s.Debug("Rendering member list with %d entries", len(slugs))
	entries := make([]listEntry, 0, len(slugs))
	for _, slug := range slugs {
		entries = append(entries, listEntry{
			Slug:        slug,
			DisplayName: slugDisplayName(slug),
			Href:        "/" + s.Settings.Roster.BasePath + "/" + slug,
		})
	}

	return s.renderPage(c, http.StatusOK, "list", listPageData{
		Title:   s.Settings.Main.Name,
		AppName: s.Settings.Main.Name,
		Entries: entries,
	})
}

// handleMember renders one member's self-authored page. The slug comes
// verbatim from the route path. Markup failures are fatal and render the
// error page; a missing stylesheet degrades to an unstyled render.
func (s *Server) handleMember(c echo.Context) error {
	slug := c.Param("slug")
	if slug == "" {
		// Guarded absence case instead of assuming the route always matches
		return s.renderPage(c, http.StatusBadRequest, "error", errorPageData{
			Title:   "Error",
			AppName: s.Settings.Main.Name,
			Message: "member not specified",
		})
	}

	view := roster.NewPageView(s.Roster)
	view.SetSlug(c.Request().Context(), slug)

	if view.State() == roster.StateFailed {
		status := http.StatusBadGateway
		var ee *errors.EnhancedError
		if errors.As(view.FailureError(), &ee) {
			if code, ok := ee.GetContext()["status_code"].(int); ok && code == http.StatusNotFound {
				status = http.StatusNotFound
			}
		}
		s.LogError(c, view.FailureError(), "Failed to load member page")
		return s.renderPage(c, status, "error", errorPageData{
			Title:   "Error",
			AppName: s.Settings.Main.Name,
			Message: view.FailureMessage(),
		})
	}

	content := view.Content()
	s.Debug("Rendering member page for %q, markup %d bytes", slug, len(content.Markup))
	return s.renderPage(c, http.StatusOK, "member", s.memberData(slug, content))
}

// handleHealthz reports liveness.
func (s *Server) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
