package wikis

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lifewiki/lifewiki/internal/apperror"
)

// WikiRepository defines the data access contract for wiki operations.
// All SQL lives in the concrete implementation -- no SQL leaks out.
type WikiRepository interface {
	Create(ctx context.Context, wiki *Wiki) error
	FindByID(ctx context.Context, id string) (*Wiki, error)
	FindBySlug(ctx context.Context, slug string) (*Wiki, error)
	ListByOwner(ctx context.Context, userID string, opts ListOptions) ([]Wiki, int, error)
	ListPublic(ctx context.Context, limit int) ([]Wiki, error)
	Update(ctx context.Context, wiki *Wiki) error
	UpdateVisibility(ctx context.Context, id string, isPublic bool) error
	Delete(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// wikiRepository implements WikiRepository with MariaDB queries.
type wikiRepository struct {
	db *sql.DB
}

// NewWikiRepository creates a new repository backed by the given DB pool.
func NewWikiRepository(db *sql.DB) WikiRepository {
	return &wikiRepository{db: db}
}

// Create inserts a new wiki row.
func (r *wikiRepository) Create(ctx context.Context, wiki *Wiki) error {
	query := `INSERT INTO wikis (id, user_id, title, slug, description, is_public, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		wiki.ID, wiki.OwnerUserID, wiki.Title, wiki.Slug, wiki.Description,
		wiki.IsPublic, wiki.CreatedAt, wiki.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting wiki: %w", err)
	}
	return nil
}

// FindByID retrieves a wiki by its UUID.
func (r *wikiRepository) FindByID(ctx context.Context, id string) (*Wiki, error) {
	query := `SELECT id, user_id, title, slug, description, is_public, created_at, updated_at
	          FROM wikis WHERE id = ?`

	w := &Wiki{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&w.ID, &w.OwnerUserID, &w.Title, &w.Slug, &w.Description,
		&w.IsPublic, &w.CreatedAt, &w.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("wiki not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying wiki by id: %w", err)
	}
	return w, nil
}

// FindBySlug retrieves a wiki by its URL slug.
func (r *wikiRepository) FindBySlug(ctx context.Context, slug string) (*Wiki, error) {
	query := `SELECT id, user_id, title, slug, description, is_public, created_at, updated_at
	          FROM wikis WHERE slug = ?`

	w := &Wiki{}
	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&w.ID, &w.OwnerUserID, &w.Title, &w.Slug, &w.Description,
		&w.IsPublic, &w.CreatedAt, &w.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("wiki not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying wiki by slug: %w", err)
	}
	return w, nil
}

// ListByOwner returns wikis owned by the user, most recently updated first.
// Returns the wikis and total count for pagination. An empty non-nil
// FilterIDs matches nothing.
func (r *wikiRepository) ListByOwner(ctx context.Context, userID string, opts ListOptions) ([]Wiki, int, error) {
	where := `WHERE user_id = ?`
	args := []interface{}{userID}

	if opts.FilterIDs != nil {
		if len(opts.FilterIDs) == 0 {
			return nil, 0, nil
		}
		placeholders := make([]string, len(opts.FilterIDs))
		for i, id := range opts.FilterIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		where += fmt.Sprintf(` AND id IN (%s)`, strings.Join(placeholders, ","))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM wikis `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting owned wikis: %w", err)
	}

	query := fmt.Sprintf(`SELECT id, user_id, title, slug, description, is_public, created_at, updated_at
	          FROM wikis
	          %s
	          ORDER BY updated_at DESC
	          LIMIT ? OFFSET ?`, where)

	rows, err := r.db.QueryContext(ctx, query, append(args, opts.PerPage, opts.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing owned wikis: %w", err)
	}
	defer rows.Close()

	wikis, err := scanWikis(rows)
	if err != nil {
		return nil, 0, err
	}
	return wikis, total, nil
}

// ListPublic returns the most recently updated public wikis.
func (r *wikiRepository) ListPublic(ctx context.Context, limit int) ([]Wiki, error) {
	query := `SELECT id, user_id, title, slug, description, is_public, created_at, updated_at
	          FROM wikis
	          WHERE is_public = true
	          ORDER BY updated_at DESC
	          LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing public wikis: %w", err)
	}
	defer rows.Close()

	return scanWikis(rows)
}

// Update writes the mutable wiki columns (name, slug, description).
func (r *wikiRepository) Update(ctx context.Context, wiki *Wiki) error {
	query := `UPDATE wikis SET title = ?, slug = ?, description = ?, updated_at = ?
	          WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		wiki.Title, wiki.Slug, wiki.Description, wiki.UpdatedAt, wiki.ID,
	)
	if err != nil {
		return fmt.Errorf("updating wiki: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("wiki not found")
	}
	return nil
}

// UpdateVisibility toggles the is_public flag.
func (r *wikiRepository) UpdateVisibility(ctx context.Context, id string, isPublic bool) error {
	query := `UPDATE wikis SET is_public = ?, updated_at = NOW() WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, isPublic, id)
	if err != nil {
		return fmt.Errorf("updating wiki visibility: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("wiki not found")
	}
	return nil
}

// Delete removes a wiki row. Pages, tag links, and page views cascade via
// foreign keys; activity rows are retained (no FK) for the feed's fallback
// rendering.
func (r *wikiRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM wikis WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting wiki: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("wiki not found")
	}
	return nil
}

// SlugExists returns true if a wiki with the given slug already exists.
func (r *wikiRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM wikis WHERE slug = ?)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking slug existence: %w", err)
	}
	return exists, nil
}

// scanWikis collects wiki rows from a result set.
func scanWikis(rows *sql.Rows) ([]Wiki, error) {
	var wikis []Wiki
	for rows.Next() {
		var w Wiki
		if err := rows.Scan(
			&w.ID, &w.OwnerUserID, &w.Title, &w.Slug, &w.Description,
			&w.IsPublic, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning wiki row: %w", err)
		}
		wikis = append(wikis, w)
	}
	return wikis, rows.Err()
}
