package layouts

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

// App wraps a page component in the full HTML document: head, top
// navigation, flash messages, and the content area. Layout data (user,
// wiki, CSRF token, flashes) is read from the render context via the
// data.go helpers.
func App(content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`); err != nil {
			return err
		}
		title := "LifeWiki"
		if name := GetWikiName(ctx); name != "" {
			title = html.EscapeString(name) + " · LifeWiki"
		}
		if _, err := fmt.Fprintf(w, `<title>%s</title>`, title); err != nil {
			return err
		}
		if token := GetCSRFToken(ctx); token != "" {
			if _, err := fmt.Fprintf(w, `<meta name="csrf-token" content="%s">`, html.EscapeString(token)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<link rel="stylesheet" href="/static/css/app.css"><script src="/static/js/htmx.min.js" defer></script></head><body>`); err != nil {
			return err
		}
		if err := navBar().Render(ctx, w); err != nil {
			return err
		}
		if err := flashes().Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<main class="container">`); err != nil {
			return err
		}
		if err := content.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

// navBar renders the top navigation. Links vary with auth state; the
// active path gets an aria-current marker for styling.
func navBar() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<nav class="topnav"><a class="brand" href="/">LifeWiki</a><div class="nav-links">`); err != nil {
			return err
		}
		if IsAuthenticated(ctx) {
			links := []struct{ href, label string }{
				{"/dashboard", "Dashboard"},
				{"/wikis", "Wikis"},
				{"/search", "Search"},
			}
			for _, l := range links {
				current := ""
				if GetActivePath(ctx) == l.href {
					current = ` aria-current="page"`
				}
				if _, err := fmt.Fprintf(w, `<a href="%s"%s>%s</a>`, l.href, current, l.label); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w,
				`<form method="post" action="/auth/logout" class="inline"><input type="hidden" name="csrf_token" value="%s"><button type="submit" class="link">Sign out (%s)</button></form>`,
				html.EscapeString(GetCSRFToken(ctx)), html.EscapeString(GetUserName(ctx))); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, `<a href="/auth/login">Sign in</a><a href="/auth/register">Register</a>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div></nav>`)
		return err
	})
}

// flashes renders one-shot success and error messages, if any.
func flashes() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if msg := GetFlashSuccess(ctx); msg != "" {
			if _, err := fmt.Fprintf(w, `<div class="flash flash-success" role="status">%s</div>`, html.EscapeString(msg)); err != nil {
				return err
			}
		}
		if msg := GetFlashError(ctx); msg != "" {
			if _, err := fmt.Fprintf(w, `<div class="flash flash-error" role="alert">%s</div>`, html.EscapeString(msg)); err != nil {
				return err
			}
		}
		return nil
	})
}
