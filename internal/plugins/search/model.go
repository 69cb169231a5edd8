// Package search implements substring search over wikis and pages. Queries
// run as SQL LIKE matches restricted to wikis the searching user may view
// (their own plus public ones). There is no search index; this is a
// deliberate simplicity trade-off that holds up at personal-wiki volumes.
package search

import "time"

// Sort keys accepted by the search endpoints. Anything else falls back to
// sortUpdatedAt.
const (
	SortTitle     = "title"
	SortCreatedAt = "created_at"
	SortUpdatedAt = "updated_at"
)

// Sort orders.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// maxResultsPerKind caps how many wikis and how many pages one query returns.
const maxResultsPerKind = 50

// minTermLength is the shortest searchable term. Shorter terms return empty
// results rather than erroring.
const minTermLength = 2

// Query is a validated search request.
type Query struct {
	Term  string
	Sort  string
	Order string
}

// WikiHit is one wiki matching a search query.
type WikiHit struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	IsPublic    bool      `json:"isPublic"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PageHit is one page matching a search query. Excerpt is a short plain-text
// sample of the page body.
type PageHit struct {
	ID        string    `json:"id"`
	WikiID    string    `json:"wikiId"`
	WikiTitle string    `json:"wikiTitle"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Results holds both halves of a search response.
type Results struct {
	Wikis []WikiHit `json:"wikis"`
	Pages []PageHit `json:"pages"`
}
