package pages

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lifewiki/lifewiki/internal/apperror"
)

// Activity action and resource identifiers emitted by this plugin.
const (
	ResourcePage = "page"

	ActionPageCreated = "create_page"
	ActionPageEdited  = "edit_page"
	ActionPageDeleted = "delete_page"
	ActionPageViewed  = "view_page"
)

// maxTextBytes caps the Markdown source size for one page.
const maxTextBytes = 1 << 20 // 1 MiB

// PageService handles business logic for page operations. Authorization is
// the caller's job: handlers resolve the parent wiki through the wikis
// middleware before calling any mutation here.
type PageService interface {
	Create(ctx context.Context, wikiID, actorID string, input CreatePageInput) (*Page, error)
	GetByID(ctx context.Context, id string) (*Page, error)
	ListByWiki(ctx context.Context, wikiID string) ([]Page, error)
	Update(ctx context.Context, page *Page, actorID string, input UpdatePageInput) (*Page, error)
	Delete(ctx context.Context, page *Page, actorID string) error

	// RecordPageView captures one render of the page: an unconditional
	// page view row, plus a view_page activity event when the viewer is
	// authenticated. Never blocks and never fails the render.
	RecordPageView(ctx context.Context, page *Page, viewerID string)
}

// pageService implements PageService.
type pageService struct {
	repo     PageRepository
	activity ActivityRecorder // May be nil in tests.
	views    ViewRecorder     // May be nil in tests.
}

// NewPageService creates a new page service with the given dependencies.
func NewPageService(repo PageRepository, activity ActivityRecorder, views ViewRecorder) PageService {
	return &pageService{
		repo:     repo,
		activity: activity,
		views:    views,
	}
}

// Create creates a new page inside the given wiki.
func (s *pageService) Create(ctx context.Context, wikiID, actorID string, input CreatePageInput) (*Page, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperror.NewBadRequest("page title is required")
	}
	if len(title) > 200 {
		return nil, apperror.NewBadRequest("page title must be at most 200 characters")
	}
	if len(input.Text) > maxTextBytes {
		return nil, apperror.NewBadRequest("page text is too large")
	}

	now := time.Now().UTC()
	page := &Page{
		ID:        uuid.NewString(),
		WikiID:    wikiID,
		Title:     title,
		Text:      input.Text,
		CreatedBy: actorID,
		UpdatedBy: actorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, page); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating page: %w", err))
	}

	s.record(ctx, actorID, ActionPageCreated, page)

	slog.Info("page created",
		slog.String("page_id", page.ID),
		slog.String("wiki_id", wikiID),
		slog.String("user_id", actorID),
	)

	return page, nil
}

// GetByID retrieves a page by ID.
func (s *pageService) GetByID(ctx context.Context, id string) (*Page, error) {
	return s.repo.FindByID(ctx, id)
}

// ListByWiki returns all pages in a wiki.
func (s *pageService) ListByWiki(ctx context.Context, wikiID string) ([]Page, error) {
	return s.repo.ListByWiki(ctx, wikiID)
}

// Update changes a page's title and text.
func (s *pageService) Update(ctx context.Context, page *Page, actorID string, input UpdatePageInput) (*Page, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperror.NewBadRequest("page title is required")
	}
	if len(title) > 200 {
		return nil, apperror.NewBadRequest("page title must be at most 200 characters")
	}
	if len(input.Text) > maxTextBytes {
		return nil, apperror.NewBadRequest("page text is too large")
	}

	page.Title = title
	page.Text = input.Text
	page.UpdatedBy = actorID
	page.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, page); err != nil {
		return nil, err
	}

	s.record(ctx, actorID, ActionPageEdited, page)

	return page, nil
}

// Delete removes a page.
func (s *pageService) Delete(ctx context.Context, page *Page, actorID string) error {
	// Record before the delete so the title snapshot lands in metadata
	// while the resource still exists.
	s.record(ctx, actorID, ActionPageDeleted, page)

	if err := s.repo.Delete(ctx, page.ID); err != nil {
		return err
	}

	slog.Info("page deleted",
		slog.String("page_id", page.ID),
		slog.String("user_id", actorID),
	)

	return nil
}

// RecordPageView captures one render of the page. The view row is appended
// for every render, anonymous or not; the activity event only exists for
// authenticated viewers (the recorder no-ops on an empty actor).
func (s *pageService) RecordPageView(ctx context.Context, page *Page, viewerID string) {
	if s.views != nil {
		var viewer *string
		if viewerID != "" {
			viewer = &viewerID
		}
		s.views.RecordView(ctx, page.ID, viewer)
	}
	s.record(ctx, viewerID, ActionPageViewed, page)
}

// record emits an activity event with a title snapshot. Title snapshots let
// the feed render events for pages that have since been deleted.
func (s *pageService) record(ctx context.Context, actorID, action string, page *Page) {
	if s.activity == nil {
		return
	}
	s.activity.Record(ctx, actorID, action, ResourcePage, page.ID, map[string]any{
		"title": page.Title,
	})
}
