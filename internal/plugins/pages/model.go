// Package pages manages wiki pages: Markdown documents that live inside a
// wiki. All page authorization follows the parent wiki -- the wiki's owner
// can create, edit, and delete pages; anyone who can view the wiki can view
// its pages.
package pages

import (
	"context"
	"time"
)

// Page represents a Markdown document inside a wiki.
type Page struct {
	ID        string    `json:"id"`
	WikiID    string    `json:"wiki_id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"` // Raw Markdown source.
	CreatedBy string    `json:"created_by"`
	UpdatedBy string    `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- Cross-Plugin Interfaces ---

// ActivityRecorder records user actions for the activity feed. Implemented
// by the activity plugin; declared here so pages doesn't import it directly.
type ActivityRecorder interface {
	Record(ctx context.Context, actorID, action, resourceType, resourceID string, metadata map[string]any)
}

// ViewRecorder appends page view records for analytics. Implemented by the
// analytics plugin. Fire-and-forget: must not block rendering.
type ViewRecorder interface {
	RecordView(ctx context.Context, pageID string, viewerID *string)
}

// --- Request DTOs (bound from HTTP requests) ---

// CreatePageRequest holds the data submitted by the page creation form.
type CreatePageRequest struct {
	Title string `json:"title" form:"title"`
	Text  string `json:"text" form:"text"`
}

// UpdatePageRequest holds the data submitted by the page edit form.
type UpdatePageRequest struct {
	Title string `json:"title" form:"title"`
	Text  string `json:"text" form:"text"`
}

// --- Service Input DTOs ---

// CreatePageInput is the validated input for creating a page.
type CreatePageInput struct {
	Title string
	Text  string
}

// UpdatePageInput is the validated input for updating a page.
type UpdatePageInput struct {
	Title string
	Text  string
}
