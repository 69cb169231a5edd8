package middleware

import (
	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// LayoutInjector wraps a page component in the application layout.
// Set by the app during startup so handlers can render full pages
// without importing the layouts package directly.
var LayoutInjector func(c echo.Context, component templ.Component) templ.Component

// IsHTMX reports whether the request was issued by HTMX.
func IsHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// Render writes a templ component as the HTML response.
// Full page loads are wrapped in the layout; HTMX requests get the
// bare fragment so it can be swapped into the existing document.
func Render(c echo.Context, statusCode int, component templ.Component) error {
	if !IsHTMX(c) && LayoutInjector != nil {
		component = LayoutInjector(c, component)
	}
	c.Response().Writer.WriteHeader(statusCode)
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	return component.Render(c.Request().Context(), c.Response().Writer)
}
