// Package activity records user actions and serves the recent activity feed.
// Every significant mutation (wiki and page CRUD, visibility changes, page
// views) is captured as an Event and persisted to the user_activities table.
// Events reference their resource loosely by type and ID with no foreign key,
// so the feed survives deletion of the underlying wiki or page: a title
// snapshot is written into the metadata at record time and used as a fallback
// when the live row is gone.
//
// Recording is asynchronous and best-effort. Events flow through a bounded
// queue drained by a single background goroutine; when the queue is full the
// event is dropped. Delivery is at most once.
//
// This is a CORE plugin -- always enabled, cannot be disabled.
package activity

import "time"

// Resource type identifiers stored in user_activities.resource_type.
const (
	ResourceWiki = "wiki"
	ResourcePage = "page"
)

// Event represents a single recorded user action.
type Event struct {
	ID           int64          `json:"id"`
	UserID       string         `json:"userId"`
	ActionType   string         `json:"actionType"`
	ResourceType string         `json:"resourceType"`
	ResourceID   string         `json:"resourceId"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// FeedItem is one entry in the recent activity feed. Title is resolved at
// query time: the live wiki or page title when the resource still exists,
// otherwise the snapshot recorded in the event metadata.
type FeedItem struct {
	ID           int64     `json:"id"`
	ActionType   string    `json:"actionType"`
	ResourceType string    `json:"resourceType"`
	ResourceID   string    `json:"resourceId"`
	Title        string    `json:"title"`
	// WikiID is the parent wiki for page resources, or the resource itself
	// for wiki resources. Empty when the resource has been deleted.
	WikiID    string    `json:"wikiId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Exists reports whether the referenced resource still has a live row, which
// determines whether the feed renders a link or plain text.
func (f *FeedItem) Exists() bool {
	return f.WikiID != ""
}
