package tags

import (
	"context"
	"fmt"
	"strings"

	"github.com/lifewiki/lifewiki/internal/apperror"
)

// TagService defines the business logic contract for tag operations.
// Handlers call these methods -- they never touch the repository directly.
type TagService interface {
	// SetWikiTags replaces all tags on a wiki with the given set of names.
	// Existing tags are resolved by name; names with no existing tag are
	// created and attributed to ownerID.
	SetWikiTags(ctx context.Context, wikiID, ownerID string, names []string) error

	// WikiTagNames returns the names of all tags on a wiki, alphabetically.
	WikiTagNames(ctx context.Context, wikiID string) ([]string, error)

	// GetWikiTagsBatch returns tags for multiple wikis in a single query.
	GetWikiTagsBatch(ctx context.Context, wikiIDs []string) (map[string][]Tag, error)

	// ListByUser returns the user's tags with per-tag wiki counts.
	ListByUser(ctx context.Context, userID string) ([]TagWithCount, error)

	// WikiIDsByTag returns the IDs of all wikis carrying the named tag.
	WikiIDsByTag(ctx context.Context, name string) ([]string, error)
}

// tagService implements TagService with validation and name resolution.
type tagService struct {
	repo TagRepository
}

// NewTagService creates a new TagService backed by the given repository.
func NewTagService(repo TagRepository) TagService {
	return &tagService{repo: repo}
}

// SetWikiTags replaces all tags on a wiki with the provided names. Names are
// resolved against existing tags first; only names with no match are inserted
// as new tags owned by ownerID. Resolution is query-then-insert with no
// unique constraint on name, so two concurrent requests creating the same
// new tag can each insert a row.
//
// After resolution the assignment is diffed against the wiki's current tags:
// only links that need to be added or removed result in queries.
func (s *tagService) SetWikiTags(ctx context.Context, wikiID, ownerID string, names []string) error {
	cleaned, err := validateNames(names)
	if err != nil {
		return err
	}

	// Resolve existing tags by name.
	existing, err := s.repo.FindByNames(ctx, cleaned)
	if err != nil {
		return fmt.Errorf("resolving tags by name: %w", err)
	}

	byName := make(map[string]Tag, len(existing))
	for _, t := range existing {
		byName[strings.ToLower(t.Name)] = t
	}

	// Create tags for names that did not resolve.
	desiredIDs := make(map[int]bool, len(cleaned))
	for _, name := range cleaned {
		t, ok := byName[strings.ToLower(name)]
		if !ok {
			nt := &Tag{Name: name, UserID: ownerID}
			if err := s.repo.Create(ctx, nt); err != nil {
				return fmt.Errorf("creating tag %q: %w", name, err)
			}
			t = *nt
		}
		desiredIDs[t.ID] = true
	}

	// Get current links to compute the diff.
	current, err := s.repo.GetWikiTags(ctx, wikiID)
	if err != nil {
		return fmt.Errorf("getting current wiki tags: %w", err)
	}

	currentIDs := make(map[int]bool, len(current))
	for _, t := range current {
		currentIDs[t.ID] = true
	}

	// Remove links that are in current but not in desired.
	for _, t := range current {
		if !desiredIDs[t.ID] {
			if err := s.repo.RemoveTagFromWiki(ctx, wikiID, t.ID); err != nil {
				return fmt.Errorf("removing tag %d from wiki: %w", t.ID, err)
			}
		}
	}

	// Add links that are in desired but not in current.
	for id := range desiredIDs {
		if !currentIDs[id] {
			if err := s.repo.AddTagToWiki(ctx, wikiID, id); err != nil {
				return fmt.Errorf("adding tag %d to wiki: %w", id, err)
			}
		}
	}

	return nil
}

// WikiTagNames returns the names of all tags on the given wiki.
func (s *tagService) WikiTagNames(ctx context.Context, wikiID string) ([]string, error) {
	tags, err := s.repo.GetWikiTags(ctx, wikiID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names, nil
}

// GetWikiTagsBatch returns tags for multiple wikis in one query.
func (s *tagService) GetWikiTagsBatch(ctx context.Context, wikiIDs []string) (map[string][]Tag, error) {
	return s.repo.GetWikiTagsBatch(ctx, wikiIDs)
}

// ListByUser returns the user's tags with per-tag wiki counts.
func (s *tagService) ListByUser(ctx context.Context, userID string) ([]TagWithCount, error) {
	return s.repo.ListByUser(ctx, userID)
}

// WikiIDsByTag returns the IDs of all wikis carrying the named tag.
func (s *tagService) WikiIDsByTag(ctx context.Context, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	return s.repo.WikiIDsByTagName(ctx, name)
}

// validateNames enforces the per-wiki tag count and per-name length limits.
func validateNames(names []string) ([]string, error) {
	if len(names) > maxTagsPerWiki {
		return nil, apperror.NewBadRequest(fmt.Sprintf("a wiki can carry at most %d tags", maxTagsPerWiki))
	}
	for _, name := range names {
		if len(name) > maxTagNameLength {
			return nil, apperror.NewBadRequest(fmt.Sprintf("tag %q is too long (max %d characters)", name, maxTagNameLength))
		}
	}
	return names, nil
}
