package activity

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

// actionLabels maps stored action types to feed display text.
var actionLabels = map[string]string{
	"create_wiki": "Created wiki",
	"update_wiki": "Updated wiki",
	"delete_wiki": "Deleted wiki",
	"share_wiki":  "Changed visibility of wiki",
	"create_page": "Created page",
	"edit_page":   "Edited page",
	"delete_page": "Deleted page",
	"view_page":   "Viewed page",
}

// FeedComponent renders the recent activity list, for embedding on the
// dashboard and for HTMX swaps.
func FeedComponent(items []FeedItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(items) == 0 {
			_, err := io.WriteString(w, `<p class="empty">No activity yet.</p>`)
			return err
		}
		if _, err := io.WriteString(w, `<ul id="activity-feed" class="activity-feed">`); err != nil {
			return err
		}
		for _, item := range items {
			label := actionLabels[item.ActionType]
			if label == "" {
				label = item.ActionType
			}
			if _, err := fmt.Fprintf(w, `<li><span class="action">%s</span> `, html.EscapeString(label)); err != nil {
				return err
			}
			// Deleted resources render as plain text; live ones link through.
			if item.Exists() {
				href := "/wikis/" + item.ResourceID
				if item.ResourceType == ResourcePage {
					href = "/wikis/" + item.WikiID + "/pages/" + item.ResourceID
				}
				if _, err := fmt.Fprintf(w, `<a href="%s">%s</a>`, href, html.EscapeString(item.Title)); err != nil {
					return err
				}
			} else {
				if _, err := fmt.Fprintf(w, `<span class="deleted">%s</span>`, html.EscapeString(item.Title)); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, ` <time datetime="%s">%s</time></li>`,
				item.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
				item.CreatedAt.Format("Jan 2, 15:04")); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul>`)
		return err
	})
}
