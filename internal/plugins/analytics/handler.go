package analytics

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lifewiki/lifewiki/internal/middleware"
	"github.com/lifewiki/lifewiki/internal/plugins/auth"
	"github.com/lifewiki/lifewiki/internal/plugins/wikis"
)

// Handler handles HTTP requests for analytics pages. Handlers are thin:
// bind request, call service, render response. No business logic lives here.
type Handler struct {
	service AnalyticsService
}

// NewHandler creates a new analytics handler.
func NewHandler(service AnalyticsService) *Handler {
	return &Handler{service: service}
}

// ShowWikiAnalytics renders a wiki's analytics page
// (GET /wikis/:id/analytics). The owner middleware has already resolved the
// wiki and verified ownership.
func (h *Handler) ShowWikiAnalytics(c echo.Context) error {
	wc, err := wikis.MustGetWikiContext(c)
	if err != nil {
		return err
	}

	stats, err := h.service.WikiAnalytics(c.Request().Context(), wc.UserID, wc.Wiki.ID)
	if err != nil {
		return err
	}

	return middleware.Render(c, http.StatusOK, WikiAnalyticsPage(wc.Wiki, stats))
}

// PopularPages renders the cross-wiki popular pages list (GET /popular).
// The dashboard loads this fragment lazily via HTMX.
func (h *Handler) PopularPages(c echo.Context) error {
	userID := auth.GetUserID(c)

	pages, err := h.service.PopularPages(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return middleware.Render(c, http.StatusOK, PopularPagesComponent(pages))
}
