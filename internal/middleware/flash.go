package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

// Flash messages are one-shot notices carried across a redirect in short
// lived cookies. The layout injector reads them on the next page render
// and clears them in the same response.
const (
	flashSuccessCookie = "flash_success"
	flashErrorCookie   = "flash_error"
)

// SetFlashSuccess queues a success notice for the next full page render.
func SetFlashSuccess(c echo.Context, msg string) {
	setFlashCookie(c, flashSuccessCookie, msg)
}

// SetFlashError queues an error notice for the next full page render.
func SetFlashError(c echo.Context, msg string) {
	setFlashCookie(c, flashErrorCookie, msg)
}

// TakeFlashes reads and clears any pending flash messages. Returns the
// success and error messages, either of which may be empty.
func TakeFlashes(c echo.Context) (success, errMsg string) {
	success = takeFlashCookie(c, flashSuccessCookie)
	errMsg = takeFlashCookie(c, flashErrorCookie)
	return success, errMsg
}

// setFlashCookie stores a URL-encoded flash value. Messages are short
// user-facing strings, so cookie size limits are not a concern.
func setFlashCookie(c echo.Context, name, msg string) {
	if msg == "" {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60, // seconds; flashes that are never rendered expire quickly
	})
}

// takeFlashCookie reads a flash cookie and expires it in the response.
func takeFlashCookie(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil || cookie.Value == "" {
		return ""
	}
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	msg, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return msg
}
