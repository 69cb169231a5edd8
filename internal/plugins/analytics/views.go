package analytics

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/lifewiki/lifewiki/internal/plugins/wikis"
)

// WikiAnalyticsPage renders a wiki's analytics: totals, the daily view
// histogram, and the most viewed pages list.
func WikiAnalyticsPage(wiki *wikis.Wiki, stats *WikiAnalytics) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<section class="analytics"><h1>Analytics: %s</h1>`, html.EscapeString(wiki.Title)); err != nil {
			return err
		}
		if stats == nil {
			_, err := io.WriteString(w, `<p class="empty">No analytics available.</p></section>`)
			return err
		}

		if _, err := fmt.Fprintf(w,
			`<dl class="stat-grid"><div><dt>Total views</dt><dd>%d</dd></div><div><dt>Unique viewers</dt><dd>%d</dd></div></dl>`,
			stats.TotalViews, stats.UniqueViewers); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<h2>Views, last 30 days</h2>`); err != nil {
			return err
		}
		if len(stats.PageViews) == 0 {
			if _, err := io.WriteString(w, `<p class="empty">No views in the last 30 days.</p>`); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, `<table class="histogram"><thead><tr><th>Date</th><th>Views</th></tr></thead><tbody>`); err != nil {
				return err
			}
			for _, day := range stats.PageViews {
				if _, err := fmt.Fprintf(w, `<tr><td>%s</td><td>%d</td></tr>`, html.EscapeString(day.Date), day.Views); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</tbody></table>`); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, `<h2>Most viewed pages</h2>`); err != nil {
			return err
		}
		if len(stats.MostViewedPages) == 0 {
			if _, err := io.WriteString(w, `<p class="empty">No pages yet.</p>`); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, `<ol class="top-pages">`); err != nil {
				return err
			}
			for _, page := range stats.MostViewedPages {
				if _, err := fmt.Fprintf(w, `<li><a href="/wikis/%s/pages/%s">%s</a> <span class="views">%d views</span></li>`,
					wiki.ID, page.ID, html.EscapeString(page.Title), page.Views); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</ol>`); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// PopularPagesComponent renders the popular pages ranking, for embedding on
// the dashboard and for HTMX swaps.
func PopularPagesComponent(pages []PopularPage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(pages) == 0 {
			_, err := io.WriteString(w, `<p class="empty">No popular pages yet.</p>`)
			return err
		}
		if _, err := io.WriteString(w, `<ol id="popular-pages" class="popular-pages">`); err != nil {
			return err
		}
		for _, page := range pages {
			if _, err := fmt.Fprintf(w,
				`<li><a href="/wikis/%s/pages/%s">%s</a> <span class="wiki">in %s</span> <span class="views">%d views</span></li>`,
				page.WikiID, page.ID, html.EscapeString(page.Title), html.EscapeString(page.WikiTitle), page.Views); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ol>`)
		return err
	})
}
