package wikis

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/lifewiki/lifewiki/internal/apperror"
)

// --- Mock Repository ---

// mockWikiRepo implements WikiRepository for testing.
type mockWikiRepo struct {
	createFn           func(ctx context.Context, wiki *Wiki) error
	findByIDFn         func(ctx context.Context, id string) (*Wiki, error)
	findBySlugFn       func(ctx context.Context, slug string) (*Wiki, error)
	listByOwnerFn      func(ctx context.Context, userID string, opts ListOptions) ([]Wiki, int, error)
	listPublicFn       func(ctx context.Context, limit int) ([]Wiki, error)
	updateFn           func(ctx context.Context, wiki *Wiki) error
	updateVisibilityFn func(ctx context.Context, id string, isPublic bool) error
	deleteFn           func(ctx context.Context, id string) error
	slugExistsFn       func(ctx context.Context, slug string) (bool, error)
}

func (m *mockWikiRepo) Create(ctx context.Context, wiki *Wiki) error {
	if m.createFn != nil {
		return m.createFn(ctx, wiki)
	}
	return nil
}

func (m *mockWikiRepo) FindByID(ctx context.Context, id string) (*Wiki, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("wiki not found")
}

func (m *mockWikiRepo) FindBySlug(ctx context.Context, slug string) (*Wiki, error) {
	if m.findBySlugFn != nil {
		return m.findBySlugFn(ctx, slug)
	}
	return nil, apperror.NewNotFound("wiki not found")
}

func (m *mockWikiRepo) ListByOwner(ctx context.Context, userID string, opts ListOptions) ([]Wiki, int, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, userID, opts)
	}
	return nil, 0, nil
}

func (m *mockWikiRepo) ListPublic(ctx context.Context, limit int) ([]Wiki, error) {
	if m.listPublicFn != nil {
		return m.listPublicFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockWikiRepo) Update(ctx context.Context, wiki *Wiki) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, wiki)
	}
	return nil
}

func (m *mockWikiRepo) UpdateVisibility(ctx context.Context, id string, isPublic bool) error {
	if m.updateVisibilityFn != nil {
		return m.updateVisibilityFn(ctx, id, isPublic)
	}
	return nil
}

func (m *mockWikiRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockWikiRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	if m.slugExistsFn != nil {
		return m.slugExistsFn(ctx, slug)
	}
	return false, nil
}

// --- Mock Activity Recorder ---

// recordedEvent captures one ActivityRecorder.Record call.
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
	m.events = append(m.events, recordedEvent{
		actorID:      actorID,
		action:       action,
		resourceType: resourceType,
		resourceID:   resourceID,
		metadata:     metadata,
	})
}

// --- Mock Tagger ---

// mockTagger captures SetWikiTags calls.
type mockTagger struct {
	setCalls []setTagsCall
}

type setTagsCall struct {
	wikiID  string
	ownerID string
	names   []string
}

func (m *mockTagger) SetWikiTags(ctx context.Context, wikiID, ownerID string, names []string) error {
	m.setCalls = append(m.setCalls, setTagsCall{wikiID, ownerID, names})
	return nil
}

func (m *mockTagger) WikiTagNames(ctx context.Context, wikiID string) ([]string, error) {
	return nil, nil
}

func (m *mockTagger) WikiIDsByTag(ctx context.Context, name string) ([]string, error) {
	return nil, nil
}

// --- Test Helpers ---

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

// --- Predicate Tests ---

func TestWikiOwnedBy(t *testing.T) {
	wiki := &Wiki{ID: "w1", OwnerUserID: "alice"}

	if !wiki.OwnedBy("alice") {
		t.Error("expected owner to own the wiki")
	}
	if wiki.OwnedBy("bob") {
		t.Error("expected non-owner to not own the wiki")
	}
	if wiki.OwnedBy("") {
		t.Error("expected anonymous visitor to never own a wiki")
	}
}

func TestWikiViewableBy(t *testing.T) {
	private := &Wiki{ID: "w1", OwnerUserID: "alice", IsPublic: false}
	public := &Wiki{ID: "w2", OwnerUserID: "alice", IsPublic: true}

	if !private.ViewableBy("alice") {
		t.Error("expected owner to view their private wiki")
	}
	if private.ViewableBy("bob") {
		t.Error("expected other user to not view a private wiki")
	}
	if private.ViewableBy("") {
		t.Error("expected anonymous visitor to not view a private wiki")
	}
	if !public.ViewableBy("bob") {
		t.Error("expected other user to view a public wiki")
	}
	if !public.ViewableBy("") {
		t.Error("expected anonymous visitor to view a public wiki")
	}
}

// --- Slugify Tests ---

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Recipes & Cooking", "recipes-cooking"},
		{"  Trip Notes 2026  ", "trip-notes-2026"},
		{"---", "wiki"},
		{"Ünïcode Nâme", "nicode-n-me"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// --- Create Tests ---

func TestCreate_Success(t *testing.T) {
	var created *Wiki
	repo := &mockWikiRepo{
		createFn: func(ctx context.Context, wiki *Wiki) error {
			created = wiki
			return nil
		},
	}
	rec := &mockRecorder{}
	svc := NewWikiService(repo, rec, nil)

	wiki, err := svc.Create(context.Background(), "alice", CreateWikiInput{
		Title:       "Recipes & Cooking",
		Description: "Family recipes",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected repo.Create to be called")
	}
	if wiki.OwnerUserID != "alice" {
		t.Errorf("expected owner alice, got %s", wiki.OwnerUserID)
	}
	if wiki.Slug != "recipes-cooking" {
		t.Errorf("expected slug recipes-cooking, got %s", wiki.Slug)
	}
	if wiki.IsPublic {
		t.Error("expected new wiki to be private")
	}

	// Creation must be recorded with a title snapshot.
	if len(rec.events) != 1 {
		t.Fatalf("expected 1 activity event, got %d", len(rec.events))
	}
	ev := rec.events[0]
	if ev.action != ActionWikiCreated || ev.resourceType != ResourceWiki {
		t.Errorf("unexpected event %+v", ev)
	}
	if ev.metadata["title"] != "Recipes & Cooking" {
		t.Errorf("expected title snapshot in metadata, got %v", ev.metadata)
	}
}

func TestCreate_EmptyName(t *testing.T) {
	svc := NewWikiService(&mockWikiRepo{}, nil, nil)
	_, err := svc.Create(context.Background(), "alice", CreateWikiInput{Title: "   "})
	assertAppError(t, err, 400)
}

func TestCreate_SlugCollision(t *testing.T) {
	taken := map[string]bool{"notes": true, "notes-2": true}
	repo := &mockWikiRepo{
		slugExistsFn: func(ctx context.Context, slug string) (bool, error) {
			return taken[slug], nil
		},
	}
	svc := NewWikiService(repo, nil, nil)

	wiki, err := svc.Create(context.Background(), "alice", CreateWikiInput{Title: "Notes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wiki.Slug != "notes-3" {
		t.Errorf("expected slug notes-3, got %s", wiki.Slug)
	}
}

func TestCreate_AppliesTags(t *testing.T) {
	tagger := &mockTagger{}
	svc := NewWikiService(&mockWikiRepo{}, nil, tagger)

	wiki, err := svc.Create(context.Background(), "alice", CreateWikiInput{
		Title: "Notes",
		Tags:  []string{"recipes", "travel"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tagger.setCalls) != 1 {
		t.Fatalf("expected one SetWikiTags call, got %d", len(tagger.setCalls))
	}
	call := tagger.setCalls[0]
	if call.wikiID != wiki.ID || call.ownerID != "alice" {
		t.Errorf("unexpected call %+v", call)
	}
	if !reflect.DeepEqual(call.names, []string{"recipes", "travel"}) {
		t.Errorf("unexpected tag names %v", call.names)
	}
}

// --- Tag Field Parsing Tests ---

func TestSplitTagField(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "recipes, travel", []string{"recipes", "travel"}},
		{"drops empties", "recipes,, ,travel", []string{"recipes", "travel"}},
		{"dedupes case-insensitively", "Recipes, recipes, RECIPES", []string{"Recipes"}},
		{"empty input", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitTagField(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitTagField(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// --- Update Tests ---

func TestUpdate_RenameRegeneratesSlug(t *testing.T) {
	wiki := &Wiki{
		ID: "w1", OwnerUserID: "alice", Title: "Old Name", Slug: "old-name",
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	repo := &mockWikiRepo{}
	rec := &mockRecorder{}
	svc := NewWikiService(repo, rec, nil)

	updated, err := svc.Update(context.Background(), wiki, "alice", UpdateWikiInput{Title: "New Name"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Slug != "new-name" {
		t.Errorf("expected regenerated slug new-name, got %s", updated.Slug)
	}
	if len(rec.events) != 1 || rec.events[0].action != ActionWikiUpdated {
		t.Errorf("expected one update_wiki event, got %+v", rec.events)
	}
	if rec.events[0].metadata["title"] != "New Name" {
		t.Errorf("expected post-rename title snapshot, got %v", rec.events[0].metadata)
	}
}

// --- Visibility Tests ---

func TestSetVisibility_Toggle(t *testing.T) {
	wiki := &Wiki{ID: "w1", OwnerUserID: "alice", Title: "Notes", IsPublic: false}
	var toggled bool
	repo := &mockWikiRepo{
		updateVisibilityFn: func(ctx context.Context, id string, isPublic bool) error {
			toggled = isPublic
			return nil
		},
	}
	rec := &mockRecorder{}
	svc := NewWikiService(repo, rec, nil)

	if err := svc.SetVisibility(context.Background(), wiki, "alice", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !toggled || !wiki.IsPublic {
		t.Error("expected wiki to become public")
	}
	if len(rec.events) != 1 || rec.events[0].action != ActionWikiShared {
		t.Errorf("expected one share_wiki event, got %+v", rec.events)
	}
}

func TestSetVisibility_NoOpWhenUnchanged(t *testing.T) {
	wiki := &Wiki{ID: "w1", OwnerUserID: "alice", IsPublic: true}
	repo := &mockWikiRepo{
		updateVisibilityFn: func(ctx context.Context, id string, isPublic bool) error {
			t.Error("repo should not be called when visibility is unchanged")
			return nil
		},
	}
	rec := &mockRecorder{}
	svc := NewWikiService(repo, rec, nil)

	if err := svc.SetVisibility(context.Background(), wiki, "alice", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.events) != 0 {
		t.Errorf("expected no activity events, got %+v", rec.events)
	}
}

// --- Delete Tests ---

func TestDelete_RecordsTitleSnapshot(t *testing.T) {
	wiki := &Wiki{ID: "w1", OwnerUserID: "alice", Title: "Trip Notes"}
	repo := &mockWikiRepo{}
	rec := &mockRecorder{}
	svc := NewWikiService(repo, rec, nil)

	if err := svc.Delete(context.Background(), wiki, "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.events) != 1 {
		t.Fatalf("expected 1 activity event, got %d", len(rec.events))
	}
	ev := rec.events[0]
	if ev.action != ActionWikiDeleted {
		t.Errorf("expected delete_wiki, got %s", ev.action)
	}
	if ev.metadata["title"] != "Trip Notes" {
		t.Errorf("expected title snapshot so the feed can render the deleted wiki, got %v", ev.metadata)
	}
}

func TestDelete_RepoError(t *testing.T) {
	wiki := &Wiki{ID: "w1", OwnerUserID: "alice", Title: "Trip Notes"}
	repo := &mockWikiRepo{
		deleteFn: func(ctx context.Context, id string) error {
			return apperror.NewNotFound("wiki not found")
		},
	}
	svc := NewWikiService(repo, &mockRecorder{}, nil)

	err := svc.Delete(context.Background(), wiki, "alice")
	assertAppError(t, err, 404)
}
