// data.go provides typed context helpers for passing layout data from
// handlers/middleware to Templ templates. This avoids importing plugin
// types in the layouts package — only simple types are stored.
//
// Data flow: Handler/Middleware → Echo Context → LayoutInjector → Go Context → Templ
package layouts

import "context"

// ctxKey is a private type for context keys to prevent collisions.
type ctxKey string

const (
	keyIsAuthenticated ctxKey = "layout_is_authenticated"
	keyUserID          ctxKey = "layout_user_id"
	keyUserName        ctxKey = "layout_user_name"
	keyUserEmail       ctxKey = "layout_user_email"
	keyWikiID          ctxKey = "layout_wiki_id"
	keyWikiName        ctxKey = "layout_wiki_name"
	keyWikiIsOwner     ctxKey = "layout_wiki_is_owner"
	keyCSRFToken       ctxKey = "layout_csrf_token"
	keyFlashSuccess    ctxKey = "layout_flash_success"
	keyFlashError      ctxKey = "layout_flash_error"
	keyActivePath      ctxKey = "layout_active_path"
)

// --- Setters (called by the layout injector in app/routes.go) ---

// SetIsAuthenticated marks whether the current request has a valid session.
func SetIsAuthenticated(ctx context.Context, authed bool) context.Context {
	return context.WithValue(ctx, keyIsAuthenticated, authed)
}

// SetUserID stores the authenticated user's ID in context.
func SetUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyUserID, id)
}

// SetUserName stores the authenticated user's display name in context.
func SetUserName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, keyUserName, name)
}

// SetUserEmail stores the authenticated user's email in context.
func SetUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, keyUserEmail, email)
}

// SetWikiID stores the current wiki's ID in context.
func SetWikiID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyWikiID, id)
}

// SetWikiName stores the current wiki's display name in context.
func SetWikiName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, keyWikiName, name)
}

// SetWikiIsOwner stores whether the current user owns the current wiki.
func SetWikiIsOwner(ctx context.Context, isOwner bool) context.Context {
	return context.WithValue(ctx, keyWikiIsOwner, isOwner)
}

// SetCSRFToken stores the CSRF token for forms.
func SetCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, keyCSRFToken, token)
}

// SetFlashSuccess stores a success flash message for the current render.
func SetFlashSuccess(ctx context.Context, msg string) context.Context {
	return context.WithValue(ctx, keyFlashSuccess, msg)
}

// SetFlashError stores an error flash message for the current render.
func SetFlashError(ctx context.Context, msg string) context.Context {
	return context.WithValue(ctx, keyFlashError, msg)
}

// SetActivePath stores the current request path for nav highlighting.
func SetActivePath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, keyActivePath, path)
}

// --- Getters (called by Templ templates) ---

// IsAuthenticated returns true if the current request has a valid session.
func IsAuthenticated(ctx context.Context) bool {
	authed, _ := ctx.Value(keyIsAuthenticated).(bool)
	return authed
}

// GetUserID returns the authenticated user's ID, or "".
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(keyUserID).(string)
	return id
}

// GetUserName returns the authenticated user's display name, or "".
func GetUserName(ctx context.Context) string {
	name, _ := ctx.Value(keyUserName).(string)
	return name
}

// GetUserEmail returns the authenticated user's email, or "".
func GetUserEmail(ctx context.Context) string {
	email, _ := ctx.Value(keyUserEmail).(string)
	return email
}

// GetWikiID returns the current wiki ID, or "" if not in wiki context.
func GetWikiID(ctx context.Context) string {
	id, _ := ctx.Value(keyWikiID).(string)
	return id
}

// GetWikiName returns the current wiki name, or "".
func GetWikiName(ctx context.Context) string {
	name, _ := ctx.Value(keyWikiName).(string)
	return name
}

// GetWikiIsOwner returns true if the current user owns the current wiki.
func GetWikiIsOwner(ctx context.Context) bool {
	isOwner, _ := ctx.Value(keyWikiIsOwner).(bool)
	return isOwner
}

// GetCSRFToken returns the CSRF token, or "".
func GetCSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(keyCSRFToken).(string)
	return token
}

// GetFlashSuccess returns a success flash message, or "".
func GetFlashSuccess(ctx context.Context) string {
	msg, _ := ctx.Value(keyFlashSuccess).(string)
	return msg
}

// GetFlashError returns an error flash message, or "".
func GetFlashError(ctx context.Context) string {
	msg, _ := ctx.Value(keyFlashError).(string)
	return msg
}

// GetActivePath returns the current request path for nav highlighting.
func GetActivePath(ctx context.Context) string {
	path, _ := ctx.Value(keyActivePath).(string)
	return path
}

// InWiki returns true if we're currently in a wiki context.
func InWiki(ctx context.Context) bool {
	return GetWikiID(ctx) != ""
}
