package wikis

import (
	"github.com/labstack/echo/v4"

	"github.com/lifewiki/lifewiki/internal/plugins/auth"
)

// RegisterRoutes sets up all wiki-related routes on the given Echo instance.
// Wiki list and creation require auth. The wiki overview allows anonymous
// access to public wikis. Mutating routes require ownership.
func RegisterRoutes(e *echo.Echo, h *Handler, svc WikiService, authSvc auth.AuthService) {
	// Wiki list and creation require authentication only.
	authed := e.Group("", auth.RequireAuth(authSvc))
	authed.GET("/wikis", h.Index)
	authed.GET("/wikis/new", h.NewForm)
	authed.POST("/wikis", h.Create)

	// Public-capable view route: owners see full UI, visitors see public wikis.
	pub := e.Group("/wikis/:id",
		auth.OptionalAuth(authSvc),
		RequireWikiView(svc),
	)
	pub.GET("", h.Show)

	// Owner-only routes.
	og := e.Group("/wikis/:id",
		auth.RequireAuth(authSvc),
		RequireWikiOwner(svc),
	)
	og.GET("/edit", h.EditForm)
	og.PUT("", h.Update)
	og.DELETE("", h.Delete)
	og.POST("/share", h.Share)
}
