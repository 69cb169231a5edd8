package search

import (
	"github.com/labstack/echo/v4"

	"github.com/lifewiki/lifewiki/internal/plugins/auth"
)

// RegisterRoutes sets up the search routes on the given Echo instance.
// Search works for anonymous visitors too; they only see public content.
func RegisterRoutes(e *echo.Echo, h *Handler, authSvc auth.AuthService) {
	e.GET("/search", h.Search, auth.OptionalAuth(authSvc))
}
