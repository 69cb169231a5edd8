package search

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lifewiki/lifewiki/internal/middleware"
	"github.com/lifewiki/lifewiki/internal/plugins/auth"
)

// Handler handles HTTP requests for search. Handlers are thin: bind request,
// call service, render response. No business logic lives here.
type Handler struct {
	service SearchService
}

// NewHandler creates a new search handler.
func NewHandler(service SearchService) *Handler {
	return &Handler{service: service}
}

// Search renders the search page with results (GET /search). Accepts q,
// sort, and order query parameters. HTMX requests get just the result list
// for live-updating the page as the user types.
func (h *Handler) Search(c echo.Context) error {
	userID := auth.GetUserID(c)

	q := Query{
		Term:  c.QueryParam("q"),
		Sort:  c.QueryParam("sort"),
		Order: c.QueryParam("order"),
	}

	results, err := h.service.Search(c.Request().Context(), userID, q)
	if err != nil {
		return err
	}

	if middleware.IsHTMX(c) {
		return middleware.Render(c, http.StatusOK, SearchResultsContent(q, results))
	}
	return middleware.Render(c, http.StatusOK, SearchPage(q, results))
}
