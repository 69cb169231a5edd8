package activity

import (
	"github.com/labstack/echo/v4"

	"github.com/lifewiki/lifewiki/internal/plugins/auth"
)

// RegisterRoutes sets up the activity feed routes on the given Echo instance.
func RegisterRoutes(e *echo.Echo, h *Handler, authSvc auth.AuthService) {
	e.GET("/activity", h.Feed, auth.RequireAuth(authSvc))
}
