package tags

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// TagRepository defines the data access contract for tags and wiki-tag
// associations. One repository per aggregate root; all SQL lives here.
type TagRepository interface {
	// Create inserts a new tag. The tag's ID is set on the struct after insert.
	Create(ctx context.Context, tag *Tag) error

	// FindByNames returns the existing tags matching any of the given names.
	// Matching is by exact name across all users; missing names are simply
	// absent from the result.
	FindByNames(ctx context.Context, names []string) ([]Tag, error)

	// ListByUser returns all tags created by the given user together with
	// the number of wikis carrying each, ordered alphabetically by name.
	ListByUser(ctx context.Context, userID string) ([]TagWithCount, error)

	// GetWikiTags returns all tags attached to a single wiki.
	GetWikiTags(ctx context.Context, wikiID string) ([]Tag, error)

	// GetWikiTagsBatch returns tags for multiple wikis in a single query.
	// The result is keyed by wiki ID. Useful for list views to avoid N+1.
	GetWikiTagsBatch(ctx context.Context, wikiIDs []string) (map[string][]Tag, error)

	// AddTagToWiki creates a row in the wiki_tags join table.
	AddTagToWiki(ctx context.Context, wikiID string, tagID int) error

	// RemoveTagFromWiki deletes a row from the wiki_tags join table.
	RemoveTagFromWiki(ctx context.Context, wikiID string, tagID int) error

	// WikiIDsByTagName returns the IDs of all wikis carrying a tag with the
	// given name.
	WikiIDsByTagName(ctx context.Context, name string) ([]string, error)
}

// tagRepository implements TagRepository using MariaDB with hand-written SQL.
type tagRepository struct {
	db *sql.DB
}

// NewTagRepository creates a new TagRepository backed by the given database connection.
func NewTagRepository(db *sql.DB) TagRepository {
	return &tagRepository{db: db}
}

// Create inserts a new tag into the tags table and sets the auto-generated ID
// on the provided struct.
func (r *tagRepository) Create(ctx context.Context, tag *Tag) error {
	query := `INSERT INTO tags (name, user_id) VALUES (?, ?)`

	result, err := r.db.ExecContext(ctx, query, tag.Name, tag.UserID)
	if err != nil {
		return fmt.Errorf("inserting tag: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	tag.ID = int(id)

	return nil
}

// FindByNames returns existing tags matching the given names. An empty
// input yields an empty result without touching the database.
func (r *tagRepository) FindByNames(ctx context.Context, names []string) ([]Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(names))
	args := make([]interface{}, len(names))
	for i, name := range names {
		placeholders[i] = "?"
		args[i] = name
	}

	query := fmt.Sprintf(`SELECT id, name, user_id FROM tags
	           WHERE name IN (%s)`, strings.Join(placeholders, ","))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding tags by name: %w", err)
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.UserID); err != nil {
			return nil, fmt.Errorf("scanning tag row: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tag rows: %w", err)
	}

	return tags, nil
}

// ListByUser returns the user's tags with per-tag wiki counts, ordered by name.
func (r *tagRepository) ListByUser(ctx context.Context, userID string) ([]TagWithCount, error) {
	query := `SELECT t.id, t.name, t.user_id, COUNT(wt.wiki_id)
	           FROM tags t
	           LEFT JOIN wiki_tags wt ON wt.tag_id = t.id
	           WHERE t.user_id = ?
	           GROUP BY t.id, t.name, t.user_id
	           ORDER BY t.name ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing tags by user: %w", err)
	}
	defer rows.Close()

	var tags []TagWithCount
	for rows.Next() {
		var t TagWithCount
		if err := rows.Scan(&t.ID, &t.Name, &t.UserID, &t.WikiCount); err != nil {
			return nil, fmt.Errorf("scanning tag count row: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tag count rows: %w", err)
	}

	return tags, nil
}

// GetWikiTags returns all tags attached to a single wiki, ordered
// alphabetically by name.
func (r *tagRepository) GetWikiTags(ctx context.Context, wikiID string) ([]Tag, error) {
	query := `SELECT t.id, t.name, t.user_id
	           FROM tags t
	           INNER JOIN wiki_tags wt ON wt.tag_id = t.id
	           WHERE wt.wiki_id = ?
	           ORDER BY t.name ASC`

	rows, err := r.db.QueryContext(ctx, query, wikiID)
	if err != nil {
		return nil, fmt.Errorf("getting wiki tags: %w", err)
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.UserID); err != nil {
			return nil, fmt.Errorf("scanning wiki tag row: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating wiki tag rows: %w", err)
	}

	return tags, nil
}

// GetWikiTagsBatch returns tags for multiple wikis in a single query,
// keyed by wiki ID. This avoids N+1 queries on wiki list views.
//
// Returns an empty map if no wiki IDs are provided.
func (r *tagRepository) GetWikiTagsBatch(ctx context.Context, wikiIDs []string) (map[string][]Tag, error) {
	if len(wikiIDs) == 0 {
		return make(map[string][]Tag), nil
	}

	placeholders := make([]string, len(wikiIDs))
	args := make([]interface{}, len(wikiIDs))
	for i, id := range wikiIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT wt.wiki_id, t.id, t.name, t.user_id
	           FROM tags t
	           INNER JOIN wiki_tags wt ON wt.tag_id = t.id
	           WHERE wt.wiki_id IN (%s)
	           ORDER BY t.name ASC`, strings.Join(placeholders, ","))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("batch getting wiki tags: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]Tag)
	for rows.Next() {
		var wikiID string
		var t Tag
		if err := rows.Scan(&wikiID, &t.ID, &t.Name, &t.UserID); err != nil {
			return nil, fmt.Errorf("scanning batch wiki tag row: %w", err)
		}
		result[wikiID] = append(result[wikiID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating batch wiki tag rows: %w", err)
	}

	return result, nil
}

// AddTagToWiki creates a row in the wiki_tags join table. Uses INSERT
// IGNORE to silently skip if the association already exists.
func (r *tagRepository) AddTagToWiki(ctx context.Context, wikiID string, tagID int) error {
	query := `INSERT IGNORE INTO wiki_tags (wiki_id, tag_id) VALUES (?, ?)`

	if _, err := r.db.ExecContext(ctx, query, wikiID, tagID); err != nil {
		return fmt.Errorf("adding tag to wiki: %w", err)
	}
	return nil
}

// RemoveTagFromWiki deletes a row from the wiki_tags join table.
func (r *tagRepository) RemoveTagFromWiki(ctx context.Context, wikiID string, tagID int) error {
	query := `DELETE FROM wiki_tags WHERE wiki_id = ? AND tag_id = ?`

	if _, err := r.db.ExecContext(ctx, query, wikiID, tagID); err != nil {
		return fmt.Errorf("removing tag from wiki: %w", err)
	}
	return nil
}

// WikiIDsByTagName returns every wiki ID carrying a tag with the given name.
func (r *tagRepository) WikiIDsByTagName(ctx context.Context, name string) ([]string, error) {
	query := `SELECT wt.wiki_id
	           FROM wiki_tags wt
	           INNER JOIN tags t ON t.id = wt.tag_id
	           WHERE t.name = ?`

	rows, err := r.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("listing wiki ids by tag: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning wiki id row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating wiki id rows: %w", err)
	}

	return ids, nil
}
