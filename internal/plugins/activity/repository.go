package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// ActivityRepository defines the data access contract for activity events.
// All SQL lives in the concrete implementation -- no SQL leaks out.
type ActivityRepository interface {
	// Insert persists a new event. The event's ID is set after insert.
	Insert(ctx context.Context, event *Event) error

	// ListRecentByUser returns the user's most recent events as feed items,
	// newest first. Joins the live wikis and pages rows for current titles;
	// events whose resource has been deleted fall back to the metadata
	// snapshot.
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]FeedItem, error)
}

// activityRepository implements ActivityRepository with MariaDB queries.
type activityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new repository backed by the given DB pool.
func NewActivityRepository(db *sql.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// Insert persists a new event. The metadata map is serialized to JSON before
// storage. Nil metadata is stored as SQL NULL.
func (r *activityRepository) Insert(ctx context.Context, event *Event) error {
	query := `INSERT INTO user_activities (user_id, action_type, resource_type, resource_id, metadata, created_at)
	          VALUES (?, ?, ?, ?, ?, ?)`

	var metadataJSON []byte
	if event.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling event metadata: %w", err)
		}
	}

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, query,
		event.UserID, event.ActionType, event.ResourceType, event.ResourceID,
		metadataJSON, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting activity event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting activity event id: %w", err)
	}
	event.ID = id

	return nil
}

// ListRecentByUser returns the user's most recent events, newest first.
// There is no foreign key from user_activities to wikis or pages, so both
// joins are LEFT JOINs keyed on resource_type.
func (r *activityRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]FeedItem, error) {
	query := `SELECT a.id, a.action_type, a.resource_type, a.resource_id,
	                 a.metadata, a.created_at,
	                 p.title, p.wiki_id,
	                 w.title, w.id
	          FROM user_activities a
	          LEFT JOIN pages p ON a.resource_type = 'page' AND p.id = a.resource_id
	          LEFT JOIN wikis w ON a.resource_type = 'wiki' AND w.id = a.resource_id
	          WHERE a.user_id = ?
	          ORDER BY a.created_at DESC, a.id DESC
	          LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent activity: %w", err)
	}
	defer rows.Close()

	var items []FeedItem
	for rows.Next() {
		var item FeedItem
		var metadataJSON sql.NullString
		var pageTitle, pageWikiID, wikiTitle, wikiID sql.NullString
		if err := rows.Scan(
			&item.ID, &item.ActionType, &item.ResourceType, &item.ResourceID,
			&metadataJSON, &item.CreatedAt,
			&pageTitle, &pageWikiID, &wikiTitle, &wikiID,
		); err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}

		var metadata map[string]any
		if metadataJSON.Valid && metadataJSON.String != "" {
			// Unparseable metadata is non-fatal; the snapshot fallback is
			// simply unavailable for that row.
			_ = json.Unmarshal([]byte(metadataJSON.String), &metadata)
		}

		switch item.ResourceType {
		case ResourcePage:
			item.Title = resolveTitle(pageTitle, metadata)
			item.WikiID = pageWikiID.String
		case ResourceWiki:
			item.Title = resolveTitle(wikiTitle, metadata)
			item.WikiID = wikiID.String
		default:
			item.Title = resolveTitle(sql.NullString{}, metadata)
		}

		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity rows: %w", err)
	}

	return items, nil
}

// resolveTitle prefers the live resource title from the join and falls back
// to the snapshot recorded in the event metadata.
func resolveTitle(live sql.NullString, metadata map[string]any) string {
	if live.Valid && live.String != "" {
		return live.String
	}
	if metadata != nil {
		if title, ok := metadata["title"].(string); ok && title != "" {
			return title
		}
	}
	return "(deleted)"
}
