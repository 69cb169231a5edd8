package search

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

// SearchPage renders the full search page: the query form plus results.
func SearchPage(q Query, results *Results) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<section class="search"><h1>Search</h1>`+
				`<form method="get" action="/search" hx-get="/search" hx-target="#search-results" hx-swap="outerHTML" hx-trigger="input changed delay:300ms from:find input[name='q'], change from:find select">`+
				`<input type="search" name="q" value="%s" placeholder="Search wikis and pages" autofocus>`,
			html.EscapeString(q.Term)); err != nil {
			return err
		}
		if err := writeSortControls(w, q); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</form>`); err != nil {
			return err
		}
		if err := SearchResultsContent(q, results).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// SearchResultsContent renders just the result lists, for HTMX swaps.
func SearchResultsContent(q Query, results *Results) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div id="search-results">`); err != nil {
			return err
		}

		if results == nil || (len(results.Wikis) == 0 && len(results.Pages) == 0) {
			msg := `Type at least two characters to search.`
			if len(q.Term) >= minTermLength {
				msg = `No results.`
			}
			if _, err := fmt.Fprintf(w, `<p class="empty">%s</p></div>`, msg); err != nil {
				return err
			}
			return nil
		}

		if len(results.Wikis) > 0 {
			if _, err := io.WriteString(w, `<h2>Wikis</h2><ul class="result-list">`); err != nil {
				return err
			}
			for _, hit := range results.Wikis {
				desc := ""
				if hit.Description != nil {
					desc = *hit.Description
				}
				if _, err := fmt.Fprintf(w, `<li><a href="/wikis/%s">%s</a><p>%s</p></li>`,
					hit.ID, html.EscapeString(hit.Title), html.EscapeString(desc)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</ul>`); err != nil {
				return err
			}
		}

		if len(results.Pages) > 0 {
			if _, err := io.WriteString(w, `<h2>Pages</h2><ul class="result-list">`); err != nil {
				return err
			}
			for _, hit := range results.Pages {
				if _, err := fmt.Fprintf(w, `<li><a href="/wikis/%s/pages/%s">%s</a> <span class="wiki">in %s</span><p>%s</p></li>`,
					hit.WikiID, hit.ID, html.EscapeString(hit.Title),
					html.EscapeString(hit.WikiTitle), html.EscapeString(hit.Excerpt)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</ul>`); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// writeSortControls renders the sort key and order selects with the current
// query's values selected.
func writeSortControls(w io.Writer, q Query) error {
	sorts := []struct{ value, label string }{
		{SortUpdatedAt, "Last updated"},
		{SortCreatedAt, "Created"},
		{SortTitle, "Title"},
	}
	if _, err := io.WriteString(w, `<select name="sort">`); err != nil {
		return err
	}
	for _, s := range sorts {
		selected := ""
		if q.Sort == s.value {
			selected = " selected"
		}
		if _, err := fmt.Fprintf(w, `<option value="%s"%s>%s</option>`, s.value, selected, s.label); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, `</select><select name="order">`); err != nil {
		return err
	}
	orders := []struct{ value, label string }{
		{OrderDesc, "Descending"},
		{OrderAsc, "Ascending"},
	}
	for _, o := range orders {
		selected := ""
		if q.Order == o.value {
			selected = " selected"
		}
		if _, err := fmt.Fprintf(w, `<option value="%s"%s>%s</option>`, o.value, selected, o.label); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</select>`)
	return err
}
