package wikis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lifewiki/lifewiki/internal/apperror"
)

// maxSlugAttempts is how many numbered suffixes to try before falling back
// to a random suffix.
const maxSlugAttempts = 10

// Activity action and resource identifiers emitted by this plugin.
const (
	ResourceWiki = "wiki"

	ActionWikiCreated = "create_wiki"
	ActionWikiUpdated = "update_wiki"
	ActionWikiDeleted = "delete_wiki"
	ActionWikiShared  = "share_wiki"
)

// WikiService handles business logic for wiki operations. It owns slug
// generation, ownership checks, and activity recording.
type WikiService interface {
	Create(ctx context.Context, userID string, input CreateWikiInput) (*Wiki, error)
	GetByID(ctx context.Context, id string) (*Wiki, error)
	GetBySlug(ctx context.Context, slug string) (*Wiki, error)
	ListOwned(ctx context.Context, userID string, opts ListOptions) ([]Wiki, int, error)
	ListPublic(ctx context.Context, limit int) ([]Wiki, error)
	Update(ctx context.Context, wiki *Wiki, actorID string, input UpdateWikiInput) (*Wiki, error)
	SetVisibility(ctx context.Context, wiki *Wiki, actorID string, isPublic bool) error
	Delete(ctx context.Context, wiki *Wiki, actorID string) error
}

// wikiService implements WikiService.
type wikiService struct {
	repo     WikiRepository
	activity ActivityRecorder // May be nil in tests.
	tagger   WikiTagger       // May be nil in tests.
}

// NewWikiService creates a new wiki service with the given dependencies.
func NewWikiService(repo WikiRepository, activity ActivityRecorder, tagger WikiTagger) WikiService {
	return &wikiService{
		repo:     repo,
		activity: activity,
		tagger:   tagger,
	}
}

// Create creates a new wiki owned by the given user.
func (s *wikiService) Create(ctx context.Context, userID string, input CreateWikiInput) (*Wiki, error) {
	name := strings.TrimSpace(input.Title)
	if name == "" {
		return nil, apperror.NewBadRequest("wiki title is required")
	}
	if len(name) > 200 {
		return nil, apperror.NewBadRequest("wiki title must be at most 200 characters")
	}

	desc := strings.TrimSpace(input.Description)
	if len(desc) > 5000 {
		return nil, apperror.NewBadRequest("description must be at most 5000 characters")
	}

	// Generate a unique slug from the name.
	slug, err := s.generateSlug(ctx, name)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("generating slug: %w", err))
	}

	now := time.Now().UTC()
	var descPtr *string
	if desc != "" {
		descPtr = &desc
	}

	wiki := &Wiki{
		ID:          uuid.NewString(),
		OwnerUserID: userID,
		Title:       name,
		Slug:        slug,
		Description: descPtr,
		IsPublic:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, wiki); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating wiki: %w", err))
	}

	if err := s.applyTags(ctx, wiki.ID, userID, input.Tags); err != nil {
		return nil, err
	}

	s.record(ctx, userID, ActionWikiCreated, wiki)

	slog.Info("wiki created",
		slog.String("wiki_id", wiki.ID),
		slog.String("slug", wiki.Slug),
		slog.String("user_id", userID),
	)

	return wiki, nil
}

// GetByID retrieves a wiki by ID.
func (s *wikiService) GetByID(ctx context.Context, id string) (*Wiki, error) {
	return s.repo.FindByID(ctx, id)
}

// GetBySlug retrieves a wiki by its URL slug.
func (s *wikiService) GetBySlug(ctx context.Context, slug string) (*Wiki, error) {
	return s.repo.FindBySlug(ctx, slug)
}

// ListOwned returns wikis owned by the user.
func (s *wikiService) ListOwned(ctx context.Context, userID string, opts ListOptions) ([]Wiki, int, error) {
	if opts.PerPage < 1 || opts.PerPage > 100 {
		opts.PerPage = 24
	}
	if opts.Page < 1 {
		opts.Page = 1
	}
	return s.repo.ListByOwner(ctx, userID, opts)
}

// ListPublic returns public wikis for the landing page. Clamps the limit to
// a sane range to prevent abuse via URL parameter manipulation.
func (s *wikiService) ListPublic(ctx context.Context, limit int) ([]Wiki, error) {
	if limit < 1 || limit > 50 {
		limit = 12
	}
	return s.repo.ListPublic(ctx, limit)
}

// Update changes a wiki's name and description. A renamed wiki gets a fresh
// slug. The caller resolves the wiki and verifies ownership (middleware).
func (s *wikiService) Update(ctx context.Context, wiki *Wiki, actorID string, input UpdateWikiInput) (*Wiki, error) {
	name := strings.TrimSpace(input.Title)
	if name == "" {
		return nil, apperror.NewBadRequest("wiki title is required")
	}
	if len(name) > 200 {
		return nil, apperror.NewBadRequest("wiki title must be at most 200 characters")
	}

	desc := strings.TrimSpace(input.Description)
	if len(desc) > 5000 {
		return nil, apperror.NewBadRequest("description must be at most 5000 characters")
	}

	if name != wiki.Title {
		slug, err := s.generateSlug(ctx, name)
		if err != nil {
			return nil, apperror.NewInternal(fmt.Errorf("generating slug: %w", err))
		}
		wiki.Slug = slug
	}

	wiki.Title = name
	if desc != "" {
		wiki.Description = &desc
	} else {
		wiki.Description = nil
	}
	wiki.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, wiki); err != nil {
		return nil, err
	}

	if err := s.applyTags(ctx, wiki.ID, wiki.OwnerUserID, input.Tags); err != nil {
		return nil, err
	}

	s.record(ctx, actorID, ActionWikiUpdated, wiki)

	return wiki, nil
}

// SetVisibility toggles the wiki between private and public.
func (s *wikiService) SetVisibility(ctx context.Context, wiki *Wiki, actorID string, isPublic bool) error {
	if wiki.IsPublic == isPublic {
		return nil
	}

	if err := s.repo.UpdateVisibility(ctx, wiki.ID, isPublic); err != nil {
		return err
	}
	wiki.IsPublic = isPublic

	s.record(ctx, actorID, ActionWikiShared, wiki)

	slog.Info("wiki visibility changed",
		slog.String("wiki_id", wiki.ID),
		slog.Bool("is_public", isPublic),
	)

	return nil
}

// Delete removes a wiki and everything under it.
func (s *wikiService) Delete(ctx context.Context, wiki *Wiki, actorID string) error {
	// Record before the delete so the title snapshot lands in metadata
	// while the resource still exists.
	s.record(ctx, actorID, ActionWikiDeleted, wiki)

	if err := s.repo.Delete(ctx, wiki.ID); err != nil {
		return err
	}

	slog.Info("wiki deleted",
		slog.String("wiki_id", wiki.ID),
		slog.String("user_id", actorID),
	)

	return nil
}

// applyTags replaces the wiki's tag set through the tags widget. New tags
// are attributed to the wiki's owner.
func (s *wikiService) applyTags(ctx context.Context, wikiID, ownerID string, names []string) error {
	if s.tagger == nil {
		return nil
	}
	if err := s.tagger.SetWikiTags(ctx, wikiID, ownerID, names); err != nil {
		return err
	}
	return nil
}

// record emits an activity event with a title snapshot. Title snapshots let
// the feed render events for resources that have since been deleted.
func (s *wikiService) record(ctx context.Context, actorID, action string, wiki *Wiki) {
	if s.activity == nil {
		return
	}
	s.activity.Record(ctx, actorID, action, ResourceWiki, wiki.ID, map[string]any{
		"title": wiki.Title,
	})
}

// generateSlug produces a unique slug for a wiki name. Numbered suffixes
// (-2, -3, ...) resolve collisions; a random suffix is the final fallback.
func (s *wikiService) generateSlug(ctx context.Context, name string) (string, error) {
	base := Slugify(name)
	slug := base

	for i := 2; i < maxSlugAttempts+2; i++ {
		exists, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("checking slug: %w", err)
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}

	// Fallback: append random suffix to guarantee uniqueness.
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating random slug suffix: %w", err)
	}
	return fmt.Sprintf("%s-%s", base, hex.EncodeToString(b)), nil
}
