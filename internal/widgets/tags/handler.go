package tags

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lifewiki/lifewiki/internal/apperror"
	"github.com/lifewiki/lifewiki/internal/plugins/auth"
)

// Handler handles HTTP requests for tag operations. Handlers are thin:
// bind request, call service, render response. No business logic lives here.
type Handler struct {
	service TagService
}

// NewHandler creates a new tag handler backed by the given service.
func NewHandler(service TagService) *Handler {
	return &Handler{service: service}
}

// ListTags returns the current user's tags with wiki counts as JSON
// (GET /tags). The frontend tag picker uses this to offer completions.
func (h *Handler) ListTags(c echo.Context) error {
	userID := auth.GetUserID(c)
	if userID == "" {
		return apperror.NewUnauthorized("authentication required")
	}

	tags, err := h.service.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	// Return empty array instead of null when no tags exist.
	if tags == nil {
		tags = []TagWithCount{}
	}

	return c.JSON(http.StatusOK, tags)
}
