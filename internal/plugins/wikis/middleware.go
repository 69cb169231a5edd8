package wikis

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/lifewiki/lifewiki/internal/apperror"
	"github.com/lifewiki/lifewiki/internal/plugins/auth"
)

// contextKeyWiki is the Echo context key for wiki context data.
const contextKeyWiki = "wiki_context"

// RequireWikiView returns middleware that resolves the wiki from the :id URL
// parameter and checks the requesting user may read it: owners always can,
// anyone can when the wiki is public. Private wikis return 404 (not 403) to
// visitors so their existence isn't revealed.
//
// Works with both auth.RequireAuth and auth.OptionalAuth upstream -- an
// anonymous visitor simply has an empty user ID.
func RequireWikiView(service WikiService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			wc, err := resolveWiki(c, service)
			if err != nil {
				return err
			}

			if !wc.Wiki.ViewableBy(wc.UserID) {
				return apperror.NewNotFound("wiki not found")
			}

			c.Set(contextKeyWiki, wc)
			return next(c)
		}
	}
}

// RequireWikiOwner returns middleware that resolves the wiki from the :id
// URL parameter and requires the requesting user to be its owner. All
// mutating wiki routes (and everything touching a wiki's pages and tags)
// go through this.
//
// Must be applied AFTER auth.RequireAuth.
func RequireWikiOwner(service WikiService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			wc, err := resolveWiki(c, service)
			if err != nil {
				return err
			}

			if !wc.IsOwner {
				// Same 404 as RequireWikiView: non-owners shouldn't learn
				// whether a private wiki exists.
				if !wc.Wiki.ViewableBy(wc.UserID) {
					return apperror.NewNotFound("wiki not found")
				}
				return apperror.NewForbidden("only the wiki owner can do this")
			}

			c.Set(contextKeyWiki, wc)
			return next(c)
		}
	}
}

// resolveWiki loads the wiki named by the :id parameter and pairs it with
// the requesting user's identity.
func resolveWiki(c echo.Context, service WikiService) (*WikiContext, error) {
	wikiID := c.Param("id")
	if wikiID == "" {
		return nil, apperror.NewBadRequest("wiki ID is required")
	}

	wiki, err := service.GetByID(c.Request().Context(), wikiID)
	if err != nil {
		return nil, err
	}

	userID := auth.GetUserID(c)
	return &WikiContext{
		Wiki:    wiki,
		UserID:  userID,
		IsOwner: wiki.OwnedBy(userID),
	}, nil
}

// GetWikiContext retrieves the wiki context from the Echo context.
// Returns nil if no wiki middleware was applied.
func GetWikiContext(c echo.Context) *WikiContext {
	wc, ok := c.Get(contextKeyWiki).(*WikiContext)
	if !ok {
		return nil
	}
	return wc
}

// MustGetWikiContext retrieves the wiki context or returns a 500 AppError
// for handlers that cannot run without it.
func MustGetWikiContext(c echo.Context) (*WikiContext, error) {
	wc := GetWikiContext(c)
	if wc == nil {
		return nil, apperror.NewInternal(fmt.Errorf("wiki middleware not applied"))
	}
	return wc, nil
}
