package pages

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/lifewiki/lifewiki/internal/plugins/wikis"
)

// PageIndexPage renders the page list for a wiki.
func PageIndexPage(wc *wikis.WikiContext, pages []Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<section class="page-index"><header><h1>%s</h1>`, html.EscapeString(wc.Wiki.Title)); err != nil {
			return err
		}
		if wc.IsOwner {
			if _, err := fmt.Fprintf(w, `<a class="button" href="/wikis/%s/pages/new">New page</a>`, wc.Wiki.ID); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</header>`); err != nil {
			return err
		}
		if len(pages) == 0 {
			if _, err := io.WriteString(w, `<p class="empty">No pages yet.</p>`); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, `<ul class="page-list">`); err != nil {
				return err
			}
			for _, p := range pages {
				if _, err := fmt.Fprintf(w,
					`<li><a href="/wikis/%s/pages/%s">%s</a><time datetime="%s">%s</time></li>`,
					p.WikiID, p.ID, html.EscapeString(p.Title),
					p.UpdatedAt.Format("2006-01-02"), p.UpdatedAt.Format("Jan 2, 2006")); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</ul>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// PageShowPage renders a single page with its Markdown body already
// converted to sanitized HTML.
func PageShowPage(wc *wikis.WikiContext, page *Page, renderedHTML, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<article class="page-show"><header><nav class="breadcrumb"><a href="/wikis/%s">%s</a> / <a href="/wikis/%s/pages">Pages</a></nav><h1>%s</h1>`,
			wc.Wiki.ID, html.EscapeString(wc.Wiki.Title), wc.Wiki.ID, html.EscapeString(page.Title)); err != nil {
			return err
		}
		if wc.IsOwner {
			if _, err := fmt.Fprintf(w,
				`<nav class="page-actions"><a href="/wikis/%s/pages/%s/edit">Edit</a>`+
					`<form method="post" action="/wikis/%s/pages/%s" hx-delete="/wikis/%s/pages/%s" hx-confirm="Delete this page?" class="inline">`+
					`<input type="hidden" name="csrf_token" value="%s"><button type="submit" class="danger">Delete</button></form></nav>`,
				wc.Wiki.ID, page.ID, wc.Wiki.ID, page.ID, wc.Wiki.ID, page.ID, html.EscapeString(csrfToken)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</header><div class="markdown-body">`); err != nil {
			return err
		}
		// renderedHTML has been through the markdown sanitizer already.
		if err := templ.Raw(renderedHTML).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div></article>`)
		return err
	})
}

// PageNewPage renders the page creation form. A non-nil req repopulates the
// form after a validation failure.
func PageNewPage(wiki *wikis.Wiki, csrfToken string, req *CreatePageRequest, errMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var title, text string
		if req != nil {
			title, text = req.Title, req.Text
		}
		if _, err := fmt.Fprintf(w, `<section class="page-form"><h1>New page in %s</h1>`, html.EscapeString(wiki.Title)); err != nil {
			return err
		}
		if err := pageForm(w, "/wikis/"+wiki.ID+"/pages", "post", csrfToken, title, text, "Create page", errMsg); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// PageEditPage renders the page edit form.
func PageEditPage(wiki *wikis.Wiki, page *Page, csrfToken, errMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<section class="page-form"><h1>Edit: %s</h1>`, html.EscapeString(page.Title)); err != nil {
			return err
		}
		action := "/wikis/" + wiki.ID + "/pages/" + page.ID
		if err := pageForm(w, action, "put", csrfToken, page.Title, page.Text, "Save changes", errMsg); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// pageForm writes the shared title + Markdown editor form.
func pageForm(w io.Writer, action, method, csrfToken, title, text, submit, errMsg string) error {
	if _, err := fmt.Fprintf(w, `<form method="post" action="%s" hx-%s="%s">`, action, method, action); err != nil {
		return err
	}
	if errMsg != "" {
		if _, err := fmt.Fprintf(w, `<p class="form-error" role="alert">%s</p>`, html.EscapeString(errMsg)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w,
		`<input type="hidden" name="csrf_token" value="%s">`+
			`<label>Title<input type="text" name="title" value="%s" required maxlength="200"></label>`+
			`<label>Content (Markdown)<textarea name="text" rows="20">%s</textarea></label>`+
			`<button type="submit">%s</button></form>`,
		html.EscapeString(csrfToken), html.EscapeString(title), html.EscapeString(text), submit)
	return err
}
