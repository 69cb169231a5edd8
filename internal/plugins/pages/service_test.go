package pages

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lifewiki/lifewiki/internal/apperror"
)

// --- Mock Repository ---

// mockPageRepo implements PageRepository for testing.
type mockPageRepo struct {
	createFn     func(ctx context.Context, page *Page) error
	findByIDFn   func(ctx context.Context, id string) (*Page, error)
	listByWikiFn func(ctx context.Context, wikiID string) ([]Page, error)
	updateFn     func(ctx context.Context, page *Page) error
	deleteFn     func(ctx context.Context, id string) error
}

func (m *mockPageRepo) Create(ctx context.Context, page *Page) error {
	if m.createFn != nil {
		return m.createFn(ctx, page)
	}
	return nil
}

func (m *mockPageRepo) FindByID(ctx context.Context, id string) (*Page, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("page not found")
}

func (m *mockPageRepo) ListByWiki(ctx context.Context, wikiID string) ([]Page, error) {
	if m.listByWikiFn != nil {
		return m.listByWikiFn(ctx, wikiID)
	}
	return nil, nil
}

func (m *mockPageRepo) Update(ctx context.Context, page *Page) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, page)
	}
	return nil
}

func (m *mockPageRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock Recorders ---

type recordedEvent struct {
	actorID      string
	action       string
	resourceType string
	resourceID   string
	metadata     map[string]any
}

type mockRecorder struct {
	events []recordedEvent
}

func (m *mockRecorder) Record(ctx context.Context, actorID, action, resourceType, resourceID string, metadata map[string]any) {
	m.events = append(m.events, recordedEvent{actorID, action, resourceType, resourceID, metadata})
}

type recordedView struct {
	pageID   string
	viewerID *string
}

type mockViewRecorder struct {
	views []recordedView
}

func (m *mockViewRecorder) RecordView(ctx context.Context, pageID string, viewerID *string) {
	m.views = append(m.views, recordedView{pageID, viewerID})
}

// assertAppError checks that err is an *apperror.AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// --- Create Tests ---

func TestCreate_Success(t *testing.T) {
	var created *Page
	repo := &mockPageRepo{
		createFn: func(ctx context.Context, page *Page) error {
			created = page
			return nil
		},
	}
	rec := &mockRecorder{}
	svc := NewPageService(repo, rec, nil)

	page, err := svc.Create(context.Background(), "wiki-1", "alice", CreatePageInput{
		Title: "Sourdough Starter",
		Text:  "# Day 1\n\nMix flour and water.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected repo.Create to be called")
	}
	if page.WikiID != "wiki-1" || page.CreatedBy != "alice" || page.UpdatedBy != "alice" {
		t.Errorf("unexpected page %+v", page)
	}

	if len(rec.events) != 1 {
		t.Fatalf("expected 1 activity event, got %d", len(rec.events))
	}
	ev := rec.events[0]
	if ev.action != ActionPageCreated || ev.resourceType != ResourcePage {
		t.Errorf("unexpected event %+v", ev)
	}
	if ev.metadata["title"] != "Sourdough Starter" {
		t.Errorf("expected title snapshot in metadata, got %v", ev.metadata)
	}
}

func TestCreate_EmptyTitle(t *testing.T) {
	svc := NewPageService(&mockPageRepo{}, nil, nil)
	_, err := svc.Create(context.Background(), "wiki-1", "alice", CreatePageInput{Title: " "})
	assertAppError(t, err, 400)
}

// --- Update Tests ---

func TestUpdate_RecordsEditEvent(t *testing.T) {
	page := &Page{
		ID: "p1", WikiID: "wiki-1", Title: "Old", Text: "old",
		CreatedBy: "alice", UpdatedBy: "alice",
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	rec := &mockRecorder{}
	svc := NewPageService(&mockPageRepo{}, rec, nil)

	updated, err := svc.Update(context.Background(), page, "alice", UpdatePageInput{
		Title: "New", Text: "new body",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "New" || updated.Text != "new body" {
		t.Errorf("unexpected page %+v", updated)
	}
	if len(rec.events) != 1 || rec.events[0].action != ActionPageEdited {
		t.Errorf("expected one edit_page event, got %+v", rec.events)
	}
	if rec.events[0].metadata["title"] != "New" {
		t.Errorf("expected post-edit title snapshot, got %v", rec.events[0].metadata)
	}
}

// --- Delete Tests ---

func TestDelete_RecordsTitleSnapshot(t *testing.T) {
	page := &Page{ID: "p1", WikiID: "wiki-1", Title: "Old Recipe"}
	rec := &mockRecorder{}
	svc := NewPageService(&mockPageRepo{}, rec, nil)

	if err := svc.Delete(context.Background(), page, "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.events) != 1 || rec.events[0].action != ActionPageDeleted {
		t.Fatalf("expected one delete_page event, got %+v", rec.events)
	}
	if rec.events[0].metadata["title"] != "Old Recipe" {
		t.Errorf("expected title snapshot so the feed can render the deleted page, got %v", rec.events[0].metadata)
	}
}

// --- View Recording Tests ---

func TestRecordPageView_Authenticated(t *testing.T) {
	page := &Page{ID: "p1", WikiID: "wiki-1", Title: "Notes"}
	rec := &mockRecorder{}
	views := &mockViewRecorder{}
	svc := NewPageService(&mockPageRepo{}, rec, views)

	svc.RecordPageView(context.Background(), page, "alice")

	if len(views.views) != 1 {
		t.Fatalf("expected 1 view record, got %d", len(views.views))
	}
	if views.views[0].viewerID == nil || *views.views[0].viewerID != "alice" {
		t.Errorf("expected viewer alice, got %v", views.views[0].viewerID)
	}
	if len(rec.events) != 1 || rec.events[0].action != ActionPageViewed {
		t.Errorf("expected one view_page event, got %+v", rec.events)
	}
}

func TestRecordPageView_Anonymous(t *testing.T) {
	page := &Page{ID: "p1", WikiID: "wiki-1", Title: "Notes"}
	rec := &mockRecorder{}
	views := &mockViewRecorder{}
	svc := NewPageService(&mockPageRepo{}, rec, views)

	svc.RecordPageView(context.Background(), page, "")

	// The view row is appended with a nil viewer; the activity event still
	// reaches the recorder, which is responsible for no-opping on an
	// empty actor.
	if len(views.views) != 1 {
		t.Fatalf("expected 1 view record, got %d", len(views.views))
	}
	if views.views[0].viewerID != nil {
		t.Errorf("expected nil viewer for anonymous render, got %v", *views.views[0].viewerID)
	}
	if len(rec.events) != 1 || rec.events[0].actorID != "" {
		t.Errorf("expected pass-through of the empty actor, got %+v", rec.events)
	}
}
