package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lifewiki/lifewiki/internal/apperror"
	"github.com/lifewiki/lifewiki/internal/middleware"
)

// sessionCookieName is the HTTP cookie used to store the session token.
const sessionCookieName = "lifewiki_session"

// Handler handles HTTP requests for authentication (login, register, logout).
// Handlers are thin: they bind the request, call the service, and render the
// response. No business logic lives here.
type Handler struct {
	service AuthService
}

// NewHandler creates a new auth handler with the given service.
func NewHandler(service AuthService) *Handler {
	return &Handler{service: service}
}

// LoginForm renders the login page (GET /auth/login).
func (h *Handler) LoginForm(c echo.Context) error {
	// If the user already has a valid session, redirect to dashboard.
	if token := getSessionToken(c); token != "" {
		if _, err := h.service.ValidateSession(c.Request().Context(), token); err == nil {
			return c.Redirect(http.StatusSeeOther, "/dashboard")
		}
	}

	csrfToken := middleware.GetCSRFToken(c)
	return middleware.Render(c, http.StatusOK, LoginPage(csrfToken, "", ""))
}

// Login processes the login form submission (POST /auth/login).
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	input := LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}

	token, _, err := h.service.Login(c.Request().Context(), input)
	if err != nil {
		// On failure, re-render the login form with the error message.
		csrfToken := middleware.GetCSRFToken(c)
		errMsg := "invalid email or password"
		if appErr, ok := err.(*apperror.AppError); ok {
			errMsg = appErr.Message
		}

		if middleware.IsHTMX(c) {
			return middleware.Render(c, http.StatusOK, LoginFormComponent(csrfToken, req.Email, errMsg))
		}
		return middleware.Render(c, http.StatusOK, LoginPage(csrfToken, req.Email, errMsg))
	}

	// Set the session cookie.
	setSessionCookie(c, token)

	// HTMX requests get a redirect header; browser forms get a 303 redirect.
	if middleware.IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", "/dashboard")
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// RegisterForm renders the registration page (GET /auth/register).
func (h *Handler) RegisterForm(c echo.Context) error {
	// If the user already has a valid session, redirect to dashboard.
	if token := getSessionToken(c); token != "" {
		if _, err := h.service.ValidateSession(c.Request().Context(), token); err == nil {
			return c.Redirect(http.StatusSeeOther, "/dashboard")
		}
	}

	csrfToken := middleware.GetCSRFToken(c)
	return middleware.Render(c, http.StatusOK, RegisterPage(csrfToken, nil, ""))
}

// Register processes the registration form submission (POST /auth/register).
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	// Basic server-side validation.
	if validationErr := validateRegisterRequest(&req); validationErr != "" {
		csrfToken := middleware.GetCSRFToken(c)
		if middleware.IsHTMX(c) {
			return middleware.Render(c, http.StatusOK, RegisterFormComponent(csrfToken, &req, validationErr))
		}
		return middleware.Render(c, http.StatusOK, RegisterPage(csrfToken, &req, validationErr))
	}

	input := RegisterInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
	}

	_, err := h.service.Register(c.Request().Context(), input)
	if err != nil {
		csrfToken := middleware.GetCSRFToken(c)
		errMsg := "registration failed"
		if appErr, ok := err.(*apperror.AppError); ok {
			errMsg = appErr.Message
		}

		if middleware.IsHTMX(c) {
			return middleware.Render(c, http.StatusOK, RegisterFormComponent(csrfToken, &req, errMsg))
		}
		return middleware.Render(c, http.StatusOK, RegisterPage(csrfToken, &req, errMsg))
	}

	// Auto-login after successful registration.
	loginInput := LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}

	token, _, err := h.service.Login(c.Request().Context(), loginInput)
	if err != nil {
		// Registration succeeded but auto-login failed -- redirect to login.
		return c.Redirect(http.StatusSeeOther, "/auth/login")
	}

	setSessionCookie(c, token)

	if middleware.IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", "/dashboard")
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Logout destroys the session and clears the cookie (POST /auth/logout).
func (h *Handler) Logout(c echo.Context) error {
	token := getSessionToken(c)
	if token != "" {
		// Destroy the session in Redis. Ignore errors -- the cookie
		// will be cleared regardless.
		_ = h.service.DestroySession(c.Request().Context(), token)
	}

	// Clear the session cookie.
	clearSessionCookie(c)

	if middleware.IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", "/auth/login")
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, "/auth/login")
}

// --- Cookie helpers ---

// getSessionToken reads the session token from the cookie.
func getSessionToken(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// setSessionCookie sets the session cookie on the response. The cookie is
// HttpOnly (JS can't read it), Secure if behind TLS, and SameSite=Lax.
func setSessionCookie(c echo.Context, token string) {
	req := c.Request()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   req.TLS != nil || req.Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   30 * 24 * 60 * 60, // 30 days in seconds
	})
}

// clearSessionCookie removes the session cookie by setting MaxAge to -1.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// --- Validation helpers ---

// validateRegisterRequest performs basic server-side validation on the
// registration form. Returns an error message or empty string.
func validateRegisterRequest(req *RegisterRequest) string {
	if req.Email == "" {
		return "email is required"
	}
	if req.DisplayName == "" {
		return "display name is required"
	}
	if len(req.DisplayName) < 2 {
		return "display name must be at least 2 characters"
	}
	if len(req.DisplayName) > 100 {
		return "display name must be at most 100 characters"
	}
	if req.Password == "" {
		return "password is required"
	}
	if len(req.Password) < 8 {
		return "password must be at least 8 characters"
	}
	if len(req.Password) > 128 {
		return "password must be at most 128 characters"
	}
	if req.Confirm != req.Password {
		return "passwords do not match"
	}
	return ""
}
