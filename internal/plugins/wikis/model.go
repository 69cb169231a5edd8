// Package wikis manages wikis (page containers) and their ownership and
// visibility rules. A wiki is the top-level organizational unit that holds
// pages and tags. Every wiki has exactly one owner; a wiki is either
// private (owner only) or public (readable by anyone).
//
// This is a CORE plugin -- always enabled, cannot be disabled.
package wikis

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// --- Domain Models ---

// Wiki represents a top-level page container.
type Wiki struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnedBy reports whether the given user owns this wiki. An empty user ID
// (anonymous visitor) never owns anything.
func (w *Wiki) OwnedBy(userID string) bool {
	return userID != "" && w.OwnerUserID == userID
}

// ViewableBy reports whether the given user may read this wiki: the owner
// always can, anyone (including anonymous visitors) can when it is public.
func (w *Wiki) ViewableBy(userID string) bool {
	return w.IsPublic || w.OwnedBy(userID)
}

// WikiContext holds the resolved wiki and the requesting user's relation to
// it. Injected into the Echo context by the RequireWikiView / RequireWikiOwner
// middleware.
type WikiContext struct {
	Wiki    *Wiki
	UserID  string // Authenticated user ID, or "" for anonymous visitors.
	IsOwner bool
}

// --- Cross-Plugin Interfaces ---

// ActivityRecorder records user actions for the activity feed. Implemented
// by the activity plugin; declared here so wikis doesn't import it directly.
// Recording is fire-and-forget: implementations must not block and must
// swallow their own failures.
type ActivityRecorder interface {
	Record(ctx context.Context, actorID, action, resourceType, resourceID string, metadata map[string]any)
}

// WikiTagger manages the tag labels attached to a wiki. Implemented by the
// tags widget; declared here so wikis doesn't import it directly.
type WikiTagger interface {
	// SetWikiTags replaces the wiki's tags with the given names, creating
	// tags that don't exist yet on behalf of ownerID.
	SetWikiTags(ctx context.Context, wikiID, ownerID string, names []string) error

	// WikiTagNames returns the names of the wiki's tags, alphabetically.
	WikiTagNames(ctx context.Context, wikiID string) ([]string, error)

	// WikiIDsByTag returns the IDs of all wikis carrying the named tag.
	WikiIDsByTag(ctx context.Context, name string) ([]string, error)
}

// --- Request DTOs (bound from HTTP requests) ---

// CreateWikiRequest holds the data submitted by the wiki creation form.
// Tags is a comma-separated list of tag names.
type CreateWikiRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Tags        string `json:"tags" form:"tags"`
}

// UpdateWikiRequest holds the data submitted by the wiki edit form.
type UpdateWikiRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Tags        string `json:"tags" form:"tags"`
}

// ShareRequest holds the data for toggling a wiki's visibility.
type ShareRequest struct {
	IsPublic bool `json:"is_public" form:"is_public"`
}

// --- Service Input DTOs ---

// CreateWikiInput is the validated input for creating a wiki.
type CreateWikiInput struct {
	Title       string
	Description string
	Tags        []string
}

// UpdateWikiInput is the validated input for updating a wiki.
type UpdateWikiInput struct {
	Title       string
	Description string
	Tags        []string
}

// ListOptions holds pagination parameters for list queries. FilterIDs, when
// non-nil, restricts the result to the given wiki IDs (used for tag filtering;
// the ID set comes from the tags widget).
type ListOptions struct {
	Page      int
	PerPage   int
	FilterIDs []string
}

// DefaultListOptions returns sensible defaults for pagination.
func DefaultListOptions() ListOptions {
	return ListOptions{Page: 1, PerPage: 24}
}

// Offset returns the SQL OFFSET value for the current page.
func (o ListOptions) Offset() int {
	if o.Page < 1 {
		o.Page = 1
	}
	return (o.Page - 1) * o.PerPage
}

// SplitTagField parses the comma-separated tags form field into clean names:
// trimmed, empties dropped, duplicates removed case-insensitively.
func SplitTagField(raw string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	return names
}

// --- Slug Generation ---

// slugPattern matches one or more non-alphanumeric characters for replacement.
var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify creates a URL-safe slug from a name. Lowercase, replace
// non-alphanumeric characters with hyphens, trim leading/trailing hyphens.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "wiki"
	}
	return slug
}
