package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// SearchRepository defines the data access contract for search queries.
// Both methods take the searching user's ID ("" for anonymous) and only
// match rows in wikis that user may view.
type SearchRepository interface {
	SearchWikis(ctx context.Context, userID string, q Query, limit int) ([]WikiHit, error)
	SearchPages(ctx context.Context, userID string, q Query, limit int) ([]PageHit, error)
}

// searchRepository implements SearchRepository with MariaDB LIKE queries.
type searchRepository struct {
	db *sql.DB
}

// NewSearchRepository creates a new repository backed by the given DB pool.
func NewSearchRepository(db *sql.DB) SearchRepository {
	return &searchRepository{db: db}
}

// wikiSortColumns maps sort keys to wiki table columns. The service
// validates the key, but the map keeps raw input out of the SQL regardless.
var wikiSortColumns = map[string]string{
	SortTitle:     "w.title",
	SortCreatedAt: "w.created_at",
	SortUpdatedAt: "w.updated_at",
}

// pageSortColumns maps sort keys to page table columns.
var pageSortColumns = map[string]string{
	SortTitle:     "p.title",
	SortCreatedAt: "p.created_at",
	SortUpdatedAt: "p.updated_at",
}

// SearchWikis matches the term against wiki titles and descriptions.
func (r *searchRepository) SearchWikis(ctx context.Context, userID string, q Query, limit int) ([]WikiHit, error) {
	pattern := likePattern(q.Term)

	query := fmt.Sprintf(`SELECT w.id, w.title, w.description, w.is_public, w.updated_at
	          FROM wikis w
	          WHERE (w.user_id = ? OR w.is_public = true)
	            AND (w.title LIKE ? OR COALESCE(w.description, '') LIKE ?)
	          ORDER BY %s %s
	          LIMIT ?`, wikiSortColumns[q.Sort], orderKeyword(q.Order))

	rows, err := r.db.QueryContext(ctx, query, userID, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("searching wikis: %w", err)
	}
	defer rows.Close()

	var hits []WikiHit
	for rows.Next() {
		var h WikiHit
		if err := rows.Scan(&h.ID, &h.Title, &h.Description, &h.IsPublic, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning wiki hit: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating wiki hits: %w", err)
	}

	return hits, nil
}

// SearchPages matches the term against page titles and bodies, joined to the
// parent wiki for the visibility check and display title. The raw markdown
// body is returned in Excerpt; the service trims it for display.
func (r *searchRepository) SearchPages(ctx context.Context, userID string, q Query, limit int) ([]PageHit, error) {
	pattern := likePattern(q.Term)

	query := fmt.Sprintf(`SELECT p.id, p.wiki_id, w.title, p.title, p.text, p.updated_at
	          FROM pages p
	          INNER JOIN wikis w ON w.id = p.wiki_id
	          WHERE (w.user_id = ? OR w.is_public = true)
	            AND (p.title LIKE ? OR p.text LIKE ?)
	          ORDER BY %s %s
	          LIMIT ?`, pageSortColumns[q.Sort], orderKeyword(q.Order))

	rows, err := r.db.QueryContext(ctx, query, userID, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("searching pages: %w", err)
	}
	defer rows.Close()

	var hits []PageHit
	for rows.Next() {
		var h PageHit
		if err := rows.Scan(&h.ID, &h.WikiID, &h.WikiTitle, &h.Title, &h.Excerpt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning page hit: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating page hits: %w", err)
	}

	return hits, nil
}

// likePattern wraps the term in wildcards, escaping LIKE metacharacters so
// user input matches literally.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}

// orderKeyword maps the validated order value to SQL.
func orderKeyword(order string) string {
	if order == OrderAsc {
		return "ASC"
	}
	return "DESC"
}
