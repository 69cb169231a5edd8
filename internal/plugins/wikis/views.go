package wikis

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

// WikiIndexPage renders the full wiki list page.
func WikiIndexPage(wikis []Wiki, total int, opts ListOptions, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="wiki-index"><header><h1>Your wikis</h1><a class="button" href="/wikis/new">New wiki</a></header>`); err != nil {
			return err
		}
		if err := WikiListContent(wikis, total, opts, csrfToken).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// WikiListContent renders the wiki card grid and pagination, for HTMX swaps.
func WikiListContent(wikis []Wiki, total int, opts ListOptions, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(wikis) == 0 {
			_, err := io.WriteString(w, `<p class="empty">No wikis yet. Create your first one to start writing.</p>`)
			return err
		}
		if _, err := io.WriteString(w, `<div id="wiki-list" class="card-grid">`); err != nil {
			return err
		}
		for _, wiki := range wikis {
			desc := ""
			if wiki.Description != nil {
				desc = *wiki.Description
			}
			visibility := "Private"
			if wiki.IsPublic {
				visibility = "Public"
			}
			if _, err := fmt.Fprintf(w,
				`<article class="card"><h2><a href="/wikis/%s">%s</a></h2><p>%s</p><footer><span class="badge">%s</span><time datetime="%s">%s</time></footer></article>`,
				wiki.ID, html.EscapeString(wiki.Title), html.EscapeString(desc), visibility,
				wiki.UpdatedAt.Format("2006-01-02"), wiki.UpdatedAt.Format("Jan 2, 2006")); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</div>`); err != nil {
			return err
		}
		return writePagination(w, "/wikis", total, opts)
	})
}

// WikiNewPage renders the wiki creation page. A non-nil req repopulates the
// form after a validation failure.
func WikiNewPage(csrfToken string, req *CreateWikiRequest, errMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="wiki-form-page"><h1>New wiki</h1>`); err != nil {
			return err
		}
		if err := WikiFormComponent(csrfToken, nil, "", req, errMsg).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// WikiFormComponent renders the create/edit form. A non-nil wiki means edit
// mode, with tagsValue prefilling the tags field; otherwise req (possibly
// nil) seeds the create form.
func WikiFormComponent(csrfToken string, wiki *Wiki, tagsValue string, req *CreateWikiRequest, errMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var name, desc, tags, action, method, submit string
		if wiki != nil {
			name = wiki.Title
			if wiki.Description != nil {
				desc = *wiki.Description
			}
			tags = tagsValue
			action = "/wikis/" + wiki.ID
			method = "put"
			submit = "Save changes"
		} else {
			if req != nil {
				name, desc, tags = req.Title, req.Description, req.Tags
			}
			action = "/wikis"
			method = "post"
			submit = "Create wiki"
		}
		if _, err := fmt.Fprintf(w, `<form id="wiki-form" method="post" action="%s" hx-%s="%s" hx-target="#wiki-form" hx-swap="outerHTML">`, action, method, action); err != nil {
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
				`<label>Description<textarea name="description" rows="4" maxlength="5000">%s</textarea></label>`+
				`<label>Tags<input type="text" name="tags" value="%s" placeholder="recipes, travel"></label>`+
				`<button type="submit">%s</button></form>`,
			html.EscapeString(csrfToken), html.EscapeString(name), html.EscapeString(desc), html.EscapeString(tags), submit)
		return err
	})
}

// WikiShowPage renders the wiki overview: description, tags, page navigation,
// and owner controls.
func WikiShowPage(wc *WikiContext, tagNames []string, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		wiki := wc.Wiki
		if _, err := fmt.Fprintf(w, `<section class="wiki-show"><header><h1>%s</h1>`, html.EscapeString(wiki.Title)); err != nil {
			return err
		}
		if wiki.Description != nil {
			if _, err := fmt.Fprintf(w, `<p class="description">%s</p>`, html.EscapeString(*wiki.Description)); err != nil {
				return err
			}
		}
		if len(tagNames) > 0 {
			if _, err := io.WriteString(w, `<ul class="tag-list">`); err != nil {
				return err
			}
			for _, name := range tagNames {
				if _, err := fmt.Fprintf(w, `<li><a class="tag" href="/wikis?tag=%s">%s</a></li>`,
					url.QueryEscape(name), html.EscapeString(name)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</ul>`); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, `</header><nav class="wiki-nav"><a href="/wikis/%s/pages">Pages</a>`, wiki.ID); err != nil {
			return err
		}
		if wc.IsOwner {
			if _, err := fmt.Fprintf(w,
				`<a href="/wikis/%s/pages/new">New page</a><a href="/wikis/%s/analytics">Analytics</a><a href="/wikis/%s/edit">Settings</a>`,
				wiki.ID, wiki.ID, wiki.ID); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</nav>`); err != nil {
			return err
		}
		if wc.IsOwner {
			if err := ShareToggleComponent(wiki, csrfToken).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// ShareToggleComponent renders the public/private toggle, for HTMX swaps.
func ShareToggleComponent(wiki *Wiki, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		state := "private"
		next := "true"
		label := "Make public"
		if wiki.IsPublic {
			state = "public"
			next = "false"
			label = "Make private"
		}
		_, err := fmt.Fprintf(w,
			`<form id="share-toggle" method="post" action="/wikis/%s/share" hx-post="/wikis/%s/share" hx-target="#share-toggle" hx-swap="outerHTML">`+
				`<input type="hidden" name="csrf_token" value="%s"><input type="hidden" name="is_public" value="%s">`+
				`<span class="badge">This wiki is %s</span><button type="submit">%s</button></form>`,
			wiki.ID, wiki.ID, html.EscapeString(csrfToken), next, state, label)
		return err
	})
}

// WikiEditPage renders the wiki settings page: edit form plus delete control.
func WikiEditPage(wiki *Wiki, tagsValue, csrfToken, errMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<section class="wiki-form-page"><h1>Settings: %s</h1>`, html.EscapeString(wiki.Title)); err != nil {
			return err
		}
		if err := WikiFormComponent(csrfToken, wiki, tagsValue, nil, errMsg).Render(ctx, w); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w,
			`<form method="post" action="/wikis/%s" hx-delete="/wikis/%s" hx-confirm="Delete this wiki and all of its pages?">`+
				`<input type="hidden" name="csrf_token" value="%s"><button type="submit" class="danger">Delete wiki</button></form></section>`,
			wiki.ID, wiki.ID, html.EscapeString(csrfToken))
		return err
	})
}

// writePagination renders prev/next links when the result set spans pages.
func writePagination(w io.Writer, basePath string, total int, opts ListOptions) error {
	if opts.PerPage < 1 || total <= opts.PerPage {
		return nil
	}
	lastPage := (total + opts.PerPage - 1) / opts.PerPage
	if _, err := io.WriteString(w, `<nav class="pagination">`); err != nil {
		return err
	}
	if opts.Page > 1 {
		if _, err := fmt.Fprintf(w, `<a href="%s?page=%d">Previous</a>`, basePath, opts.Page-1); err != nil {
			return err
		}
	}
	if opts.Page < lastPage {
		if _, err := fmt.Fprintf(w, `<a href="%s?page=%d">Next</a>`, basePath, opts.Page+1); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</nav>`)
	return err
}
