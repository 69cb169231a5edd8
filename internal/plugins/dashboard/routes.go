package dashboard

import (
	"github.com/labstack/echo/v4"

	"github.com/lifewiki/lifewiki/internal/plugins/auth"
)

// RegisterRoutes sets up the dashboard route on the given Echo instance.
func RegisterRoutes(e *echo.Echo, h *Handler, authSvc auth.AuthService) {
	e.GET("/dashboard", h.Show, auth.RequireAuth(authSvc))
}
