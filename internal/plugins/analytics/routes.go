package analytics

import (
	"github.com/labstack/echo/v4"

	"github.com/lifewiki/lifewiki/internal/plugins/auth"
	"github.com/lifewiki/lifewiki/internal/plugins/wikis"
)

// RegisterRoutes sets up the analytics routes on the given Echo instance.
// Wiki analytics are owner-only; the popular pages fragment just needs an
// authenticated user.
func RegisterRoutes(e *echo.Echo, h *Handler, authSvc auth.AuthService, wikiSvc wikis.WikiService) {
	e.GET("/wikis/:id/analytics", h.ShowWikiAnalytics,
		auth.RequireAuth(authSvc),
		wikis.RequireWikiOwner(wikiSvc),
	)
	e.GET("/popular", h.PopularPages, auth.RequireAuth(authSvc))
}
