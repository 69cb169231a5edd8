// Package markdown converts user-authored Markdown into sanitized HTML.
// Rendering uses goldmark (CommonMark plus GitHub-flavored extensions) and
// the output is passed through a bluemonday policy to strip dangerous HTML
// (script tags, event handlers, javascript: URLs) before it is served.
package markdown

import (
	"bytes"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// md is the singleton goldmark renderer. Initialized once via sync.Once
// for thread-safe lazy initialization; goldmark.Markdown is safe for
// concurrent use after construction.
var (
	md     goldmark.Markdown
	mdOnce sync.Once
)

// getRenderer returns the shared markdown renderer, initializing it on first call.
func getRenderer() goldmark.Markdown {
	mdOnce.Do(func() {
		md = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithRendererOptions(
				// Hard line breaks match what page authors expect from
				// plain-text editing. Raw HTML passthrough stays off; the
				// sanitizer is the backstop, not the first line of defense.
				html.WithHardWraps(),
			),
		)
	})
	return md
}

// policy is the singleton bluemonday policy for sanitizing rendered page HTML.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, initializing it on first call.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()

		// Allow class attributes so fenced code blocks keep their
		// language-* class for client-side highlighting.
		policy.AllowAttrs("class").OnElements("code", "pre")

		// Allow table elements produced by the GFM table extension.
		policy.AllowElements("table", "thead", "tbody", "tr", "td", "th")
		policy.AllowAttrs("align").OnElements("td", "th")

		// Task list checkboxes from the GFM extension render as disabled inputs.
		policy.AllowAttrs("type", "checked", "disabled").OnElements("input")
	})
	return policy
}

// Render converts Markdown source into sanitized HTML.
//
// This MUST be the only path by which page bodies reach a browser. The
// returned HTML is safe for rendering via Templ's Raw() function.
func Render(source string) (string, error) {
	if source == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := getRenderer().Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return getPolicy().Sanitize(buf.String()), nil
}

// Excerpt returns the first n runes of the Markdown source stripped of
// all markup, for use in search results and page listings.
func Excerpt(source string, n int) string {
	var buf bytes.Buffer
	if err := getRenderer().Convert([]byte(source), &buf); err != nil {
		return truncate(source, n)
	}
	text := bluemonday.StrictPolicy().Sanitize(buf.String())
	return truncate(text, n)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
