package pages

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lifewiki/lifewiki/internal/apperror"
	"github.com/lifewiki/lifewiki/internal/markdown"
	"github.com/lifewiki/lifewiki/internal/middleware"
	"github.com/lifewiki/lifewiki/internal/plugins/wikis"
)

// Handler handles HTTP requests for page operations. Handlers are thin:
// bind request, call service, render response. No business logic lives here.
type Handler struct {
	service PageService
}

// NewHandler creates a new page handler.
func NewHandler(service PageService) *Handler {
	return &Handler{service: service}
}

// Index renders the page list for a wiki (GET /wikis/:id/pages).
func (h *Handler) Index(c echo.Context) error {
	wc, err := wikis.MustGetWikiContext(c)
	if err != nil {
		return err
	}

	pages, err := h.service.ListByWiki(c.Request().Context(), wc.Wiki.ID)
	if err != nil {
		return err
	}

	return middleware.Render(c, http.StatusOK, PageIndexPage(wc, pages))
}

// NewForm renders the page creation form (GET /wikis/:id/pages/new).
func (h *Handler) NewForm(c echo.Context) error {
	wc, err := wikis.MustGetWikiContext(c)
	if err != nil {
		return err
	}

	csrfToken := middleware.GetCSRFToken(c)
	return middleware.Render(c, http.StatusOK, PageNewPage(wc.Wiki, csrfToken, nil, ""))
}

// Create processes the page creation form (POST /wikis/:id/pages).
func (h *Handler) Create(c echo.Context) error {
	wc, err := wikis.MustGetWikiContext(c)
	if err != nil {
		return err
	}

	var req CreatePageRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	input := CreatePageInput{Title: req.Title, Text: req.Text}
	page, err := h.service.Create(c.Request().Context(), wc.Wiki.ID, wc.UserID, input)
	if err != nil {
		csrfToken := middleware.GetCSRFToken(c)
		errMsg := "failed to create page"
		if appErr, ok := err.(*apperror.AppError); ok {
			errMsg = appErr.Message
		}
		return middleware.Render(c, http.StatusOK, PageNewPage(wc.Wiki, csrfToken, &req, errMsg))
	}

	target := "/wikis/" + wc.Wiki.ID + "/pages/" + page.ID
	if middleware.IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", target)
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, target)
}

// Show renders a page (GET /wikis/:id/pages/:pageID). Every render appends
// a view record; authenticated viewers also produce a view_page event.
func (h *Handler) Show(c echo.Context) error {
	wc, page, err := h.resolvePage(c)
	if err != nil {
		return err
	}

	rendered, err := markdown.Render(page.Text)
	if err != nil {
		return apperror.NewInternal(err)
	}

	h.service.RecordPageView(c.Request().Context(), page, wc.UserID)

	csrfToken := middleware.GetCSRFToken(c)
	return middleware.Render(c, http.StatusOK, PageShowPage(wc, page, rendered, csrfToken))
}

// EditForm renders the page edit form (GET /wikis/:id/pages/:pageID/edit).
func (h *Handler) EditForm(c echo.Context) error {
	wc, page, err := h.resolvePage(c)
	if err != nil {
		return err
	}

	csrfToken := middleware.GetCSRFToken(c)
	return middleware.Render(c, http.StatusOK, PageEditPage(wc.Wiki, page, csrfToken, ""))
}

// Update processes the page edit form (PUT /wikis/:id/pages/:pageID).
func (h *Handler) Update(c echo.Context) error {
	wc, page, err := h.resolvePage(c)
	if err != nil {
		return err
	}

	var req UpdatePageRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	input := UpdatePageInput{Title: req.Title, Text: req.Text}
	page, err = h.service.Update(c.Request().Context(), page, wc.UserID, input)
	if err != nil {
		csrfToken := middleware.GetCSRFToken(c)
		errMsg := "failed to update page"
		if appErr, ok := err.(*apperror.AppError); ok {
			errMsg = appErr.Message
		}
		return middleware.Render(c, http.StatusOK, PageEditPage(wc.Wiki, page, csrfToken, errMsg))
	}

	target := "/wikis/" + wc.Wiki.ID + "/pages/" + page.ID
	if middleware.IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", target)
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, target)
}

// Delete removes a page (DELETE /wikis/:id/pages/:pageID).
func (h *Handler) Delete(c echo.Context) error {
	wc, page, err := h.resolvePage(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), page, wc.UserID); err != nil {
		return err
	}

	middleware.SetFlashSuccess(c, "Page deleted")
	target := "/wikis/" + wc.Wiki.ID + "/pages"
	if middleware.IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", target)
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, target)
}

// resolvePage loads the page named by the :pageID parameter and checks it
// belongs to the wiki the middleware resolved. A page reached through the
// wrong wiki is a 404, same as a missing one.
func (h *Handler) resolvePage(c echo.Context) (*wikis.WikiContext, *Page, error) {
	wc, err := wikis.MustGetWikiContext(c)
	if err != nil {
		return nil, nil, err
	}

	pageID := c.Param("pageID")
	if pageID == "" {
		return nil, nil, apperror.NewBadRequest("page ID is required")
	}

	page, err := h.service.GetByID(c.Request().Context(), pageID)
	if err != nil {
		return nil, nil, err
	}
	if page.WikiID != wc.Wiki.ID {
		return nil, nil, apperror.NewNotFound("page not found")
	}

	return wc, page, nil
}
