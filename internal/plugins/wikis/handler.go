package wikis

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lifewiki/lifewiki/internal/apperror"
	"github.com/lifewiki/lifewiki/internal/middleware"
	"github.com/lifewiki/lifewiki/internal/plugins/auth"
)

// Handler handles HTTP requests for wiki operations. Handlers are thin:
// bind request, call service, render response. No business logic lives here.
type Handler struct {
	service WikiService
	tagger  WikiTagger // May be nil when the tags widget is disabled.
}

// NewHandler creates a new wiki handler.
func NewHandler(service WikiService, tagger WikiTagger) *Handler {
	return &Handler{service: service, tagger: tagger}
}

// Index renders the wiki list page (GET /wikis). An optional ?tag= query
// parameter restricts the list to wikis carrying that tag.
func (h *Handler) Index(c echo.Context) error {
	userID := auth.GetUserID(c)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	opts := DefaultListOptions()
	if page > 0 {
		opts.Page = page
	}

	if tag := c.QueryParam("tag"); tag != "" && h.tagger != nil {
		ids, err := h.tagger.WikiIDsByTag(c.Request().Context(), tag)
		if err != nil {
			return err
		}
		// Non-nil empty slice means "filter active, nothing matches".
		opts.FilterIDs = append([]string{}, ids...)
	}

	wikis, total, err := h.service.ListOwned(c.Request().Context(), userID, opts)
	if err != nil {
		return err
	}

	csrfToken := middleware.GetCSRFToken(c)

	if middleware.IsHTMX(c) {
		return middleware.Render(c, http.StatusOK, WikiListContent(wikis, total, opts, csrfToken))
	}
	return middleware.Render(c, http.StatusOK, WikiIndexPage(wikis, total, opts, csrfToken))
}

// NewForm renders the wiki creation form (GET /wikis/new).
func (h *Handler) NewForm(c echo.Context) error {
	csrfToken := middleware.GetCSRFToken(c)
	return middleware.Render(c, http.StatusOK, WikiNewPage(csrfToken, nil, ""))
}

// Create processes the wiki creation form (POST /wikis).
func (h *Handler) Create(c echo.Context) error {
	var req CreateWikiRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	userID := auth.GetUserID(c)
	input := CreateWikiInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        SplitTagField(req.Tags),
	}

	wiki, err := h.service.Create(c.Request().Context(), userID, input)
	if err != nil {
		csrfToken := middleware.GetCSRFToken(c)
		errMsg := "failed to create wiki"
		if appErr, ok := err.(*apperror.AppError); ok {
			errMsg = appErr.Message
		}
		if middleware.IsHTMX(c) {
			return middleware.Render(c, http.StatusOK, WikiFormComponent(csrfToken, nil, "", &req, errMsg))
		}
		return middleware.Render(c, http.StatusOK, WikiNewPage(csrfToken, &req, errMsg))
	}

	if middleware.IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", "/wikis/"+wiki.ID)
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, "/wikis/"+wiki.ID)
}

// Show renders the wiki overview page (GET /wikis/:id).
func (h *Handler) Show(c echo.Context) error {
	wc, err := MustGetWikiContext(c)
	if err != nil {
		return err
	}

	tagNames, err := h.wikiTagNames(c, wc.Wiki.ID)
	if err != nil {
		return err
	}

	csrfToken := middleware.GetCSRFToken(c)
	return middleware.Render(c, http.StatusOK, WikiShowPage(wc, tagNames, csrfToken))
}

// EditForm renders the wiki edit form (GET /wikis/:id/edit).
func (h *Handler) EditForm(c echo.Context) error {
	wc, err := MustGetWikiContext(c)
	if err != nil {
		return err
	}

	tagNames, err := h.wikiTagNames(c, wc.Wiki.ID)
	if err != nil {
		return err
	}

	csrfToken := middleware.GetCSRFToken(c)
	return middleware.Render(c, http.StatusOK, WikiEditPage(wc.Wiki, strings.Join(tagNames, ", "), csrfToken, ""))
}

// Update processes the wiki edit form (PUT /wikis/:id).
func (h *Handler) Update(c echo.Context) error {
	wc, err := MustGetWikiContext(c)
	if err != nil {
		return err
	}

	var req UpdateWikiRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	input := UpdateWikiInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        SplitTagField(req.Tags),
	}

	wiki, err := h.service.Update(c.Request().Context(), wc.Wiki, wc.UserID, input)
	if err != nil {
		csrfToken := middleware.GetCSRFToken(c)
		errMsg := "failed to update wiki"
		if appErr, ok := err.(*apperror.AppError); ok {
			errMsg = appErr.Message
		}
		return middleware.Render(c, http.StatusOK, WikiEditPage(wc.Wiki, req.Tags, csrfToken, errMsg))
	}

	if middleware.IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", "/wikis/"+wiki.ID)
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, "/wikis/"+wiki.ID)
}

// Share toggles the wiki's public visibility (POST /wikis/:id/share).
func (h *Handler) Share(c echo.Context) error {
	wc, err := MustGetWikiContext(c)
	if err != nil {
		return err
	}

	var req ShareRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	if err := h.service.SetVisibility(c.Request().Context(), wc.Wiki, wc.UserID, req.IsPublic); err != nil {
		return err
	}

	csrfToken := middleware.GetCSRFToken(c)
	if middleware.IsHTMX(c) {
		return middleware.Render(c, http.StatusOK, ShareToggleComponent(wc.Wiki, csrfToken))
	}
	return c.Redirect(http.StatusSeeOther, "/wikis/"+wc.Wiki.ID)
}

// wikiTagNames fetches the wiki's tag names, tolerating a nil tagger.
func (h *Handler) wikiTagNames(c echo.Context, wikiID string) ([]string, error) {
	if h.tagger == nil {
		return nil, nil
	}
	return h.tagger.WikiTagNames(c.Request().Context(), wikiID)
}

// Delete removes a wiki (DELETE /wikis/:id).
func (h *Handler) Delete(c echo.Context) error {
	wc, err := MustGetWikiContext(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), wc.Wiki, wc.UserID); err != nil {
		return err
	}

	middleware.SetFlashSuccess(c, "Wiki deleted")
	if middleware.IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", "/wikis")
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, "/wikis")
}
