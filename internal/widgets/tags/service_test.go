package tags

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/lifewiki/lifewiki/internal/apperror"
)

// mockTagRepo implements TagRepository with function fields so each test
// can supply only the behavior it cares about.
type mockTagRepo struct {
	createFn           func(ctx context.Context, tag *Tag) error
	findByNamesFn      func(ctx context.Context, names []string) ([]Tag, error)
	listByUserFn       func(ctx context.Context, userID string) ([]TagWithCount, error)
	getWikiTagsFn      func(ctx context.Context, wikiID string) ([]Tag, error)
	getWikiTagsBatchFn func(ctx context.Context, wikiIDs []string) (map[string][]Tag, error)
	addTagToWikiFn     func(ctx context.Context, wikiID string, tagID int) error
	removeTagFn        func(ctx context.Context, wikiID string, tagID int) error
	wikiIDsByTagFn     func(ctx context.Context, name string) ([]string, error)
}

func (m *mockTagRepo) Create(ctx context.Context, tag *Tag) error {
	if m.createFn != nil {
		return m.createFn(ctx, tag)
	}
	return nil
}

func (m *mockTagRepo) FindByNames(ctx context.Context, names []string) ([]Tag, error) {
	if m.findByNamesFn != nil {
		return m.findByNamesFn(ctx, names)
	}
	return nil, nil
}

func (m *mockTagRepo) ListByUser(ctx context.Context, userID string) ([]TagWithCount, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockTagRepo) GetWikiTags(ctx context.Context, wikiID string) ([]Tag, error) {
	if m.getWikiTagsFn != nil {
		return m.getWikiTagsFn(ctx, wikiID)
	}
	return nil, nil
}

func (m *mockTagRepo) GetWikiTagsBatch(ctx context.Context, wikiIDs []string) (map[string][]Tag, error) {
	if m.getWikiTagsBatchFn != nil {
		return m.getWikiTagsBatchFn(ctx, wikiIDs)
	}
	return make(map[string][]Tag), nil
}

func (m *mockTagRepo) AddTagToWiki(ctx context.Context, wikiID string, tagID int) error {
	if m.addTagToWikiFn != nil {
		return m.addTagToWikiFn(ctx, wikiID, tagID)
	}
	return nil
}

func (m *mockTagRepo) RemoveTagFromWiki(ctx context.Context, wikiID string, tagID int) error {
	if m.removeTagFn != nil {
		return m.removeTagFn(ctx, wikiID, tagID)
	}
	return nil
}

func (m *mockTagRepo) WikiIDsByTagName(ctx context.Context, name string) ([]string, error) {
	if m.wikiIDsByTagFn != nil {
		return m.wikiIDsByTagFn(ctx, name)
	}
	return nil, nil
}

// TestSetWikiTags_ReusesExistingByName covers assigning ["a", "b"] when tag
// "a" already exists: only "b" gets a new row, and both end up linked.
func TestSetWikiTags_ReusesExistingByName(t *testing.T) {
	var created []string
	var linked []int
	repo := &mockTagRepo{
		findByNamesFn: func(ctx context.Context, names []string) ([]Tag, error) {
			return []Tag{{ID: 1, Name: "a", UserID: "someone-else"}}, nil
		},
		createFn: func(ctx context.Context, tag *Tag) error {
			created = append(created, tag.Name)
			tag.ID = 2
			return nil
		},
		addTagToWikiFn: func(ctx context.Context, wikiID string, tagID int) error {
			linked = append(linked, tagID)
			return nil
		},
	}
	svc := NewTagService(repo)

	err := svc.SetWikiTags(context.Background(), "wiki-1", "alice", []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(created, []string{"b"}) {
		t.Errorf("expected only %q to be created, got %v", "b", created)
	}
	if len(linked) != 2 {
		t.Errorf("expected both tags linked, got %v", linked)
	}
}

func TestSetWikiTags_RemovesStaleLinks(t *testing.T) {
	var removed []int
	var added []int
	repo := &mockTagRepo{
		findByNamesFn: func(ctx context.Context, names []string) ([]Tag, error) {
			return []Tag{{ID: 2, Name: "travel", UserID: "alice"}}, nil
		},
		getWikiTagsFn: func(ctx context.Context, wikiID string) ([]Tag, error) {
			return []Tag{{ID: 1, Name: "recipes", UserID: "alice"}}, nil
		},
		removeTagFn: func(ctx context.Context, wikiID string, tagID int) error {
			removed = append(removed, tagID)
			return nil
		},
		addTagToWikiFn: func(ctx context.Context, wikiID string, tagID int) error {
			added = append(added, tagID)
			return nil
		},
	}
	svc := NewTagService(repo)

	if err := svc.SetWikiTags(context.Background(), "wiki-1", "alice", []string{"travel"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(removed, []int{1}) {
		t.Errorf("expected stale tag 1 removed, got %v", removed)
	}
	if !reflect.DeepEqual(added, []int{2}) {
		t.Errorf("expected tag 2 added, got %v", added)
	}
}

func TestSetWikiTags_EmptySetClearsAll(t *testing.T) {
	var removed []int
	repo := &mockTagRepo{
		getWikiTagsFn: func(ctx context.Context, wikiID string) ([]Tag, error) {
			return []Tag{{ID: 1, Name: "recipes"}, {ID: 2, Name: "travel"}}, nil
		},
		removeTagFn: func(ctx context.Context, wikiID string, tagID int) error {
			removed = append(removed, tagID)
			return nil
		},
	}
	svc := NewTagService(repo)

	if err := svc.SetWikiTags(context.Background(), "wiki-1", "alice", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(removed) != 2 {
		t.Errorf("expected both links removed, got %v", removed)
	}
}

func TestSetWikiTags_TooManyTags(t *testing.T) {
	names := make([]string, maxTagsPerWiki+1)
	for i := range names {
		names[i] = strings.Repeat("x", 3) + string(rune('a'+i%26))
	}
	svc := NewTagService(&mockTagRepo{})

	err := svc.SetWikiTags(context.Background(), "wiki-1", "alice", names)
	assertBadRequest(t, err)
}

func TestSetWikiTags_NameTooLong(t *testing.T) {
	svc := NewTagService(&mockTagRepo{})
	err := svc.SetWikiTags(context.Background(), "wiki-1", "alice", []string{strings.Repeat("x", maxTagNameLength+1)})
	assertBadRequest(t, err)
}

func TestWikiTagNames(t *testing.T) {
	repo := &mockTagRepo{
		getWikiTagsFn: func(ctx context.Context, wikiID string) ([]Tag, error) {
			return []Tag{{ID: 1, Name: "recipes"}, {ID: 2, Name: "travel"}}, nil
		},
	}
	svc := NewTagService(repo)

	names, err := svc.WikiTagNames(context.Background(), "wiki-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"recipes", "travel"}) {
		t.Errorf("unexpected names %v", names)
	}
}

func TestWikiIDsByTag_BlankName(t *testing.T) {
	called := false
	repo := &mockTagRepo{
		wikiIDsByTagFn: func(ctx context.Context, name string) ([]string, error) {
			called = true
			return nil, nil
		},
	}
	svc := NewTagService(repo)

	ids, err := svc.WikiIDsByTag(context.Background(), "  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids != nil || called {
		t.Error("expected blank tag name to short-circuit without a query")
	}
}

func assertBadRequest(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != 400 {
		t.Errorf("expected status 400, got %d", appErr.Code)
	}
}
