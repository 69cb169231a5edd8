package pages

import (
	"github.com/labstack/echo/v4"

	"github.com/lifewiki/lifewiki/internal/plugins/auth"
	"github.com/lifewiki/lifewiki/internal/plugins/wikis"
)

// RegisterRoutes sets up all page routes, nested under their wiki. View
// routes follow the wiki's visibility (public wikis are readable by
// anonymous visitors); mutations require the wiki owner.
func RegisterRoutes(e *echo.Echo, h *Handler, wikiSvc wikis.WikiService, authSvc auth.AuthService) {
	// View routes: anyone who can view the wiki can view its pages.
	pub := e.Group("/wikis/:id/pages",
		auth.OptionalAuth(authSvc),
		wikis.RequireWikiView(wikiSvc),
	)
	pub.GET("", h.Index)
	pub.GET("/:pageID", h.Show)

	// Owner-only routes.
	og := e.Group("/wikis/:id/pages",
		auth.RequireAuth(authSvc),
		wikis.RequireWikiOwner(wikiSvc),
	)
	og.GET("/new", h.NewForm)
	og.POST("", h.Create)
	og.GET("/:pageID/edit", h.EditForm)
	og.PUT("/:pageID", h.Update)
	og.DELETE("/:pageID", h.Delete)
}
