package dashboard

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/lifewiki/lifewiki/internal/plugins/wikis"
)

// DashboardPage renders the dashboard: recent wikis plus the lazily loaded
// activity feed and popular pages fragments.
func DashboardPage(owned []wikis.Wiki) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="dashboard"><h1>Dashboard</h1><div class="dashboard-grid">`); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<div class="panel"><h2>Your wikis</h2>`); err != nil {
			return err
		}
		if len(owned) == 0 {
			if _, err := io.WriteString(w, `<p class="empty">No wikis yet. <a href="/wikis/new">Create your first one.</a></p>`); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, `<ul class="wiki-list">`); err != nil {
				return err
			}
			for _, wiki := range owned {
				if _, err := fmt.Fprintf(w, `<li><a href="/wikis/%s">%s</a></li>`,
					wiki.ID, html.EscapeString(wiki.Title)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</ul>`); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<a href="/wikis">All wikis</a></div>`); err != nil {
			return err
		}

		_, err := io.WriteString(w,
			`<div class="panel"><h2>Recent activity</h2><div hx-get="/activity" hx-trigger="load" hx-swap="innerHTML"><p class="empty">Loading…</p></div></div>`+
				`<div class="panel"><h2>Popular pages</h2><div hx-get="/popular" hx-trigger="load" hx-swap="innerHTML"><p class="empty">Loading…</p></div></div>`+
				`</div></section>`)
		return err
	})
}
