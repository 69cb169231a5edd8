package app

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/lifewiki/lifewiki/internal/middleware"
	"github.com/lifewiki/lifewiki/internal/plugins/activity"
	"github.com/lifewiki/lifewiki/internal/plugins/analytics"
	"github.com/lifewiki/lifewiki/internal/plugins/auth"
	"github.com/lifewiki/lifewiki/internal/plugins/dashboard"
	pageplugin "github.com/lifewiki/lifewiki/internal/plugins/pages"
	"github.com/lifewiki/lifewiki/internal/plugins/search"
	"github.com/lifewiki/lifewiki/internal/plugins/wikis"
	"github.com/lifewiki/lifewiki/internal/templates/layouts"
	"github.com/lifewiki/lifewiki/internal/templates/pages"
	"github.com/lifewiki/lifewiki/internal/widgets/tags"
)

// RegisterRoutes constructs every repository, service, and handler, and
// registers all application routes. This is the single place where the
// plugin graph is assembled: cross-plugin dependencies (the activity
// recorder feeding wikis and pages, the tags widget feeding wikis, the
// view recorder feeding pages) are wired here and nowhere else.
func (a *App) RegisterRoutes() {
	e := a.Echo

	// --- Repositories ---
	userRepo := auth.NewUserRepository(a.DB)
	wikiRepo := wikis.NewWikiRepository(a.DB)
	pageRepo := pageplugin.NewPageRepository(a.DB)
	tagRepo := tags.NewTagRepository(a.DB)
	activityRepo := activity.NewActivityRepository(a.DB)
	analyticsRepo := analytics.NewAnalyticsRepository(a.DB)

	// --- Background recorders ---
	// Both run a single worker goroutine draining a bounded queue.
	// Kept on the App so shutdown can flush what's buffered.
	a.activityRecorder = activity.NewRecorder(activityRepo, a.Config.Analytics.QueueSize)
	a.viewRecorder = analytics.NewViewRecorder(analyticsRepo, a.Config.Analytics.QueueSize)

	// --- Services ---
	authSvc := auth.NewAuthService(userRepo, a.Redis, a.Config.Auth.SessionTTL)
	tagSvc := tags.NewTagService(tagRepo)
	wikiSvc := wikis.NewWikiService(wikiRepo, a.activityRecorder, tagSvc)
	pageSvc := pageplugin.NewPageService(pageRepo, a.activityRecorder, a.viewRecorder)
	activitySvc := activity.NewActivityService(activityRepo)
	analyticsSvc := analytics.NewAnalyticsService(analyticsRepo, a.Redis, a.Config.Analytics.PopularCacheTTL)
	searchSvc := search.NewSearchService(search.NewSearchRepository(a.DB))

	// --- Handlers ---
	authHandler := auth.NewHandler(authSvc)
	wikiHandler := wikis.NewHandler(wikiSvc, tagSvc)
	pageHandler := pageplugin.NewHandler(pageSvc)
	tagHandler := tags.NewHandler(tagSvc)
	activityHandler := activity.NewHandler(activitySvc)
	analyticsHandler := analytics.NewHandler(analyticsSvc)
	searchHandler := search.NewHandler(searchSvc)
	dashboardHandler := dashboard.NewHandler(wikiSvc)

	// Layout injection: full page renders are wrapped in the application
	// shell with the session, CSRF token, flashes, and wiki context made
	// available to the templates.
	middleware.LayoutInjector = a.injectLayout

	// --- Public routes ---

	// Landing page. Signed-in visitors go straight to their dashboard.
	e.GET("/", func(c echo.Context) error {
		if auth.GetUserID(c) != "" {
			return c.Redirect(http.StatusSeeOther, "/dashboard")
		}
		return middleware.Render(c, http.StatusOK, pages.Landing())
	}, auth.OptionalAuth(authSvc))

	// Health check endpoint for container orchestration.
	e.GET("/healthz", func(c echo.Context) error {
		if err := a.DB.PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "db unreachable"})
		}
		if err := a.Redis.Ping(c.Request().Context()).Err(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "redis unreachable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// --- Plugin routes ---
	auth.RegisterRoutes(e, authHandler)
	wikis.RegisterRoutes(e, wikiHandler, wikiSvc, authSvc)
	pageplugin.RegisterRoutes(e, pageHandler, wikiSvc, authSvc)
	tags.RegisterRoutes(e, tagHandler, authSvc)
	activity.RegisterRoutes(e, activityHandler, authSvc)
	analytics.RegisterRoutes(e, analyticsHandler, authSvc, wikiSvc)
	search.RegisterRoutes(e, searchHandler, authSvc)
	dashboard.RegisterRoutes(e, dashboardHandler, authSvc)
}

// injectLayout wraps a page component in the application layout, seeding
// the render context with everything the shell needs: auth state, the
// current wiki (when inside one), CSRF token, flash messages, and the
// active path for nav highlighting.
func (a *App) injectLayout(c echo.Context, component templ.Component) templ.Component {
	wrapped := layouts.App(component)

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if session := auth.GetSession(c); session != nil {
			ctx = layouts.SetIsAuthenticated(ctx, true)
			ctx = layouts.SetUserID(ctx, session.UserID)
			ctx = layouts.SetUserName(ctx, session.Name)
			ctx = layouts.SetUserEmail(ctx, session.Email)
		}

		if wc := wikis.GetWikiContext(c); wc != nil && wc.Wiki != nil {
			ctx = layouts.SetWikiID(ctx, wc.Wiki.ID)
			ctx = layouts.SetWikiName(ctx, wc.Wiki.Title)
			ctx = layouts.SetWikiIsOwner(ctx, wc.Wiki.OwnedBy(wc.UserID))
		}

		ctx = layouts.SetCSRFToken(ctx, middleware.GetCSRFToken(c))
		ctx = layouts.SetActivePath(ctx, c.Request().URL.Path)

		success, errMsg := middleware.TakeFlashes(c)
		if success != "" {
			ctx = layouts.SetFlashSuccess(ctx, success)
		}
		if errMsg != "" {
			ctx = layouts.SetFlashError(ctx, errMsg)
		}

		return wrapped.Render(ctx, w)
	})
}
