// Package analytics tracks page views and aggregates usage statistics:
// per-wiki view totals and daily histograms, most-viewed pages, and the
// cross-wiki popular pages ranking shown on the dashboard.
//
// View recording mirrors activity recording: asynchronous, bounded queue,
// at most once. A view row is inserted on every page render with no
// throttling or deduplication; anonymous views are stored with a NULL
// viewer and never count toward unique viewer totals.
//
// This is a CORE plugin -- always enabled, cannot be disabled.
package analytics

import "time"

// PageView is one recorded render of a page. ViewerID is nil for anonymous
// visitors.
type PageView struct {
	ID       int64     `json:"id"`
	PageID   string    `json:"pageId"`
	ViewerID *string   `json:"viewerId,omitempty"`
	ViewedAt time.Time `json:"viewedAt"`
}

// DailyViews is one bucket of the per-wiki view histogram. Date is the
// server-local calendar date in YYYY-MM-DD form. Days with zero views are
// omitted from the histogram entirely.
type DailyViews struct {
	Date  string `json:"date"`
	Views int    `json:"views"`
}

// MostViewedPage is one row of a wiki's all-time top pages list.
type MostViewedPage struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Views int    `json:"views"`
}

// WikiAnalytics aggregates a single wiki's usage statistics. Totals and the
// top pages list cover the wiki's full history; the histogram covers the
// trailing 30 days.
type WikiAnalytics struct {
	TotalViews      int              `json:"totalViews"`
	UniqueViewers   int              `json:"uniqueViewers"`
	PageViews       []DailyViews     `json:"pageViews"`
	MostViewedPages []MostViewedPage `json:"mostViewedPages"`
}

// PopularPage is one row of the cross-wiki popular pages ranking. The set
// of candidate pages is scoped to wikis the viewing user owns plus public
// wikis.
type PopularPage struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Views     int    `json:"views"`
	WikiID    string `json:"wikiId"`
	WikiTitle string `json:"wikiTitle"`
}
