package tags

import (
	"github.com/labstack/echo/v4"

	"github.com/lifewiki/lifewiki/internal/plugins/auth"
)

// RegisterRoutes sets up the tag widget routes on the given Echo instance.
// Tag assignment itself happens through the wiki forms; the widget only
// exposes the completion endpoint for the tag picker.
func RegisterRoutes(e *echo.Echo, h *Handler, authSvc auth.AuthService) {
	e.GET("/tags", h.ListTags, auth.RequireAuth(authSvc))
}
