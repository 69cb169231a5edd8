package activity

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lifewiki/lifewiki/internal/middleware"
	"github.com/lifewiki/lifewiki/internal/plugins/auth"
)

// Handler handles HTTP requests for the activity feed. Handlers are thin:
// bind request, call service, render response. No business logic lives here.
type Handler struct {
	service ActivityService
}

// NewHandler creates a new activity handler.
func NewHandler(service ActivityService) *Handler {
	return &Handler{service: service}
}

// Feed renders the current user's recent activity (GET /activity). The
// dashboard loads this fragment lazily via HTMX.
func (h *Handler) Feed(c echo.Context) error {
	userID := auth.GetUserID(c)

	items, err := h.service.RecentActivity(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return middleware.Render(c, http.StatusOK, FeedComponent(items))
}
