package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// AnalyticsRepository defines the data access contract for page views and
// their aggregates. All SQL lives in the concrete implementation.
type AnalyticsRepository interface {
	// InsertView persists one page view. The view's ID is set after insert.
	InsertView(ctx context.Context, view *PageView) error

	// WikiViewTotals returns the all-time view count and distinct
	// authenticated viewer count across all pages of a wiki. Anonymous
	// views carry a NULL viewer and are excluded from the distinct count.
	WikiViewTotals(ctx context.Context, wikiID string) (total, uniqueViewers int, err error)

	// DailyWikiViews returns per-day view counts for a wiki since the given
	// time, bucketed by server-local calendar date, ascending. Days with no
	// views produce no bucket.
	DailyWikiViews(ctx context.Context, wikiID string, since time.Time) ([]DailyViews, error)

	// TopPagesByViews returns a wiki's pages ranked by all-time view count,
	// descending. Pages with equal counts order by creation time so the
	// ranking is deterministic.
	TopPagesByViews(ctx context.Context, wikiID string, limit int) ([]MostViewedPage, error)

	// PopularPages ranks pages across all wikis the user owns plus all
	// public wikis by all-time view count, descending.
	PopularPages(ctx context.Context, userID string, limit int) ([]PopularPage, error)
}

// analyticsRepository implements AnalyticsRepository with MariaDB queries.
type analyticsRepository struct {
	db *sql.DB
}

// NewAnalyticsRepository creates a new repository backed by the given DB pool.
func NewAnalyticsRepository(db *sql.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// InsertView persists one page view row.
func (r *analyticsRepository) InsertView(ctx context.Context, view *PageView) error {
	query := `INSERT INTO page_views (page_id, viewer_id, viewed_at) VALUES (?, ?, ?)`

	if view.ViewedAt.IsZero() {
		view.ViewedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, query, view.PageID, view.ViewerID, view.ViewedAt)
	if err != nil {
		return fmt.Errorf("inserting page view: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting page view id: %w", err)
	}
	view.ID = id

	return nil
}

// WikiViewTotals returns all-time totals for a wiki. COUNT(DISTINCT viewer_id)
// skips NULLs, so anonymous views never inflate the unique viewer count.
func (r *analyticsRepository) WikiViewTotals(ctx context.Context, wikiID string) (int, int, error) {
	query := `SELECT COUNT(*), COUNT(DISTINCT pv.viewer_id)
	          FROM page_views pv
	          INNER JOIN pages p ON p.id = pv.page_id
	          WHERE p.wiki_id = ?`

	var total, unique int
	if err := r.db.QueryRowContext(ctx, query, wikiID).Scan(&total, &unique); err != nil {
		return 0, 0, fmt.Errorf("querying wiki view totals: %w", err)
	}
	return total, unique, nil
}

// DailyWikiViews buckets a wiki's views by calendar date since the given time.
func (r *analyticsRepository) DailyWikiViews(ctx context.Context, wikiID string, since time.Time) ([]DailyViews, error) {
	query := `SELECT DATE_FORMAT(pv.viewed_at, '%Y-%m-%d') AS day, COUNT(*)
	          FROM page_views pv
	          INNER JOIN pages p ON p.id = pv.page_id
	          WHERE p.wiki_id = ? AND pv.viewed_at >= ?
	          GROUP BY day
	          ORDER BY day ASC`

	rows, err := r.db.QueryContext(ctx, query, wikiID, since)
	if err != nil {
		return nil, fmt.Errorf("querying daily wiki views: %w", err)
	}
	defer rows.Close()

	var days []DailyViews
	for rows.Next() {
		var d DailyViews
		if err := rows.Scan(&d.Date, &d.Views); err != nil {
			return nil, fmt.Errorf("scanning daily views row: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating daily views rows: %w", err)
	}

	return days, nil
}

// TopPagesByViews ranks a wiki's pages by all-time view count. Pages without
// views still rank (with zero) so short wikis fill the list.
func (r *analyticsRepository) TopPagesByViews(ctx context.Context, wikiID string, limit int) ([]MostViewedPage, error) {
	query := `SELECT p.id, p.title, COUNT(pv.page_id)
	          FROM pages p
	          LEFT JOIN page_views pv ON pv.page_id = p.id
	          WHERE p.wiki_id = ?
	          GROUP BY p.id, p.title
	          ORDER BY COUNT(pv.page_id) DESC, p.created_at ASC
	          LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, wikiID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top pages: %w", err)
	}
	defer rows.Close()

	var pages []MostViewedPage
	for rows.Next() {
		var p MostViewedPage
		if err := rows.Scan(&p.ID, &p.Title, &p.Views); err != nil {
			return nil, fmt.Errorf("scanning top page row: %w", err)
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating top page rows: %w", err)
	}

	return pages, nil
}

// PopularPages ranks pages across wikis the user owns plus public wikis.
func (r *analyticsRepository) PopularPages(ctx context.Context, userID string, limit int) ([]PopularPage, error) {
	query := `SELECT p.id, p.title, COUNT(pv.page_id), w.id, w.title
	          FROM pages p
	          INNER JOIN wikis w ON w.id = p.wiki_id
	          LEFT JOIN page_views pv ON pv.page_id = p.id
	          WHERE w.user_id = ? OR w.is_public = true
	          GROUP BY p.id, p.title, w.id, w.title
	          ORDER BY COUNT(pv.page_id) DESC, p.created_at ASC
	          LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying popular pages: %w", err)
	}
	defer rows.Close()

	var pages []PopularPage
	for rows.Next() {
		var p PopularPage
		if err := rows.Scan(&p.ID, &p.Title, &p.Views, &p.WikiID, &p.WikiTitle); err != nil {
			return nil, fmt.Errorf("scanning popular page row: %w", err)
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating popular page rows: %w", err)
	}

	return pages, nil
}
