// Package pages holds the top-level site pages that don't belong to a
// single plugin: the landing page, the dashboard shell, and error pages.
package pages

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

// Landing renders the public landing page shown to signed-out visitors.
func Landing() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section class="hero"><h1>LifeWiki</h1>`+
			`<p>A personal wiki for everything you want to keep. Write pages in Markdown, organize them into wikis, and share the ones worth sharing.</p>`+
			`<p><a class="button" href="/auth/register">Get started</a> <a href="/auth/login">Sign in</a></p></section>`)
		return err
	})
}

// ErrorPage renders a full error page for the given status code and message.
func ErrorPage(code int, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<section class="error-page"><h1>%d</h1><p>%s</p><p><a href="/">Back to home</a></p></section>`,
			code, html.EscapeString(message))
		return err
	})
}
