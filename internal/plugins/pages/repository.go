package pages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lifewiki/lifewiki/internal/apperror"
)

// PageRepository defines the data access contract for page operations.
// All SQL lives in the concrete implementation -- no SQL leaks out.
type PageRepository interface {
	Create(ctx context.Context, page *Page) error
	FindByID(ctx context.Context, id string) (*Page, error)
	ListByWiki(ctx context.Context, wikiID string) ([]Page, error)
	Update(ctx context.Context, page *Page) error
	Delete(ctx context.Context, id string) error
}

// pageRepository implements PageRepository with MariaDB queries.
type pageRepository struct {
	db *sql.DB
}

// NewPageRepository creates a new repository backed by the given DB pool.
func NewPageRepository(db *sql.DB) PageRepository {
	return &pageRepository{db: db}
}

// Create inserts a new page row.
func (r *pageRepository) Create(ctx context.Context, page *Page) error {
	query := `INSERT INTO pages (id, wiki_id, title, text, created_by, updated_by, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		page.ID, page.WikiID, page.Title, page.Text,
		page.CreatedBy, page.UpdatedBy, page.CreatedAt, page.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting page: %w", err)
	}
	return nil
}

// FindByID retrieves a page by its UUID.
func (r *pageRepository) FindByID(ctx context.Context, id string) (*Page, error) {
	query := `SELECT id, wiki_id, title, text, created_by, updated_by, created_at, updated_at
	          FROM pages WHERE id = ?`

	p := &Page{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.WikiID, &p.Title, &p.Text,
		&p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("page not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying page by id: %w", err)
	}
	return p, nil
}

// ListByWiki returns all pages in a wiki ordered by title.
func (r *pageRepository) ListByWiki(ctx context.Context, wikiID string) ([]Page, error) {
	query := `SELECT id, wiki_id, title, text, created_by, updated_by, created_at, updated_at
	          FROM pages WHERE wiki_id = ? ORDER BY title ASC`

	rows, err := r.db.QueryContext(ctx, query, wikiID)
	if err != nil {
		return nil, fmt.Errorf("listing wiki pages: %w", err)
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		var p Page
		if err := rows.Scan(
			&p.ID, &p.WikiID, &p.Title, &p.Text,
			&p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning page row: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// Update writes the mutable page columns.
func (r *pageRepository) Update(ctx context.Context, page *Page) error {
	query := `UPDATE pages SET title = ?, text = ?, updated_by = ?, updated_at = ?
	          WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		page.Title, page.Text, page.UpdatedBy, page.UpdatedAt, page.ID,
	)
	if err != nil {
		return fmt.Errorf("updating page: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("page not found")
	}
	return nil
}

// Delete removes a page row. Its view records cascade via foreign key;
// activity rows are retained (no FK) for the feed's fallback rendering.
func (r *pageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting page: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("page not found")
	}
	return nil
}
