// Package dashboard renders the signed-in landing page. It composes data
// from the other plugins: the user's wikis, with the activity feed and
// popular pages fragments loaded lazily over HTMX from their own endpoints.
package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lifewiki/lifewiki/internal/middleware"
	"github.com/lifewiki/lifewiki/internal/plugins/auth"
	"github.com/lifewiki/lifewiki/internal/plugins/wikis"
)

// recentWikisLimit is how many of the user's wikis appear on the dashboard.
const recentWikisLimit = 6

// Handler handles HTTP requests for the dashboard.
type Handler struct {
	wikiSvc wikis.WikiService
}

// NewHandler creates a new dashboard handler.
func NewHandler(wikiSvc wikis.WikiService) *Handler {
	return &Handler{wikiSvc: wikiSvc}
}

// Show renders the dashboard (GET /dashboard).
func (h *Handler) Show(c echo.Context) error {
	userID := auth.GetUserID(c)

	owned, _, err := h.wikiSvc.ListOwned(c.Request().Context(), userID, wikis.ListOptions{
		Page:    1,
		PerPage: recentWikisLimit,
	})
	if err != nil {
		return err
	}

	return middleware.Render(c, http.StatusOK, DashboardPage(owned))
}
