package activity

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
)

// mockActivityRepo implements ActivityRepository for testing.
type mockActivityRepo struct {
	mu       sync.Mutex
	inserted []*Event
	insertFn func(ctx context.Context, event *Event) error
	listFn   func(ctx context.Context, userID string, limit int) ([]FeedItem, error)
}

func (m *mockActivityRepo) Insert(ctx context.Context, event *Event) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserted = append(m.inserted, event)
	return nil
}

func (m *mockActivityRepo) ListRecentByUser(ctx context.Context, userID string, limit int) ([]FeedItem, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockActivityRepo) events() []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Event(nil), m.inserted...)
}

func TestRecorder_CloseDrainsQueue(t *testing.T) {
	repo := &mockActivityRepo{}
	rec := NewRecorder(repo, 10)

	rec.Record(context.Background(), "alice", "create_wiki", ResourceWiki, "w1", map[string]any{"title": "Notes"})
	rec.Record(context.Background(), "alice", "create_page", ResourcePage, "p1", map[string]any{"title": "Day 1"})
	rec.Record(context.Background(), "alice", "edit_page", ResourcePage, "p1", map[string]any{"title": "Day 1"})

	rec.Close()

	got := repo.events()
	if len(got) != 3 {
		t.Fatalf("expected 3 inserted events after Close, got %d", len(got))
	}
	if got[0].ActionType != "create_wiki" || got[2].ActionType != "edit_page" {
		t.Errorf("expected events in submission order, got %s ... %s", got[0].ActionType, got[2].ActionType)
	}
	if got[0].UserID != "alice" || got[0].ResourceID != "w1" {
		t.Errorf("unexpected first event %+v", got[0])
	}
}

func TestRecorder_SkipsAnonymousActor(t *testing.T) {
	repo := &mockActivityRepo{}
	rec := NewRecorder(repo, 10)

	rec.Record(context.Background(), "", "view_page", ResourcePage, "p1", nil)
	rec.Close()

	if got := repo.events(); len(got) != 0 {
		t.Errorf("expected no events for anonymous actor, got %d", len(got))
	}
}

func TestRecorder_DropsWhenQueueFull(t *testing.T) {
	started := make(chan struct{}, 8)
	release := make(chan struct{})
	var mu sync.Mutex
	var inserted []string

	repo := &mockActivityRepo{
		insertFn: func(ctx context.Context, event *Event) error {
			mu.Lock()
			inserted = append(inserted, event.ResourceID)
			mu.Unlock()
			started <- struct{}{}
			<-release
			return nil
		},
	}
	rec := NewRecorder(repo, 1)

	// The worker dequeues the first event and blocks inside Insert.
	rec.Record(context.Background(), "alice", "view_page", ResourcePage, "p1", nil)
	<-started

	// The buffer now holds the second event; the third has nowhere to go.
	rec.Record(context.Background(), "alice", "view_page", ResourcePage, "p2", nil)
	rec.Record(context.Background(), "alice", "view_page", ResourcePage, "p3", nil)

	close(release)
	rec.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(inserted) != 2 {
		t.Fatalf("expected 2 inserted events (third dropped), got %d: %v", len(inserted), inserted)
	}
	if inserted[0] != "p1" || inserted[1] != "p2" {
		t.Errorf("unexpected insert order %v", inserted)
	}
}

func TestRecorder_RecordAfterCloseIsNoOp(t *testing.T) {
	repo := &mockActivityRepo{}
	rec := NewRecorder(repo, 10)
	rec.Close()

	// Must not panic on the closed queue.
	rec.Record(context.Background(), "alice", "create_wiki", ResourceWiki, "w1", nil)

	if got := repo.events(); len(got) != 0 {
		t.Errorf("expected no events after Close, got %d", len(got))
	}
}

func TestRecorder_InsertFailureIsSwallowed(t *testing.T) {
	repo := &mockActivityRepo{
		insertFn: func(ctx context.Context, event *Event) error {
			return errors.New("connection lost")
		},
	}
	rec := NewRecorder(repo, 10)

	rec.Record(context.Background(), "alice", "create_wiki", ResourceWiki, "w1", nil)
	rec.Close()
	// Nothing to assert beyond "Close returns": the failure is logged, not
	// surfaced, and the worker keeps running.
}

func TestResolveTitle(t *testing.T) {
	live := sql.NullString{String: "Live Title", Valid: true}
	snapshot := map[string]any{"title": "Snapshot Title"}

	if got := resolveTitle(live, snapshot); got != "Live Title" {
		t.Errorf("expected live title to win, got %q", got)
	}
	if got := resolveTitle(sql.NullString{}, snapshot); got != "Snapshot Title" {
		t.Errorf("expected metadata snapshot fallback, got %q", got)
	}
	if got := resolveTitle(sql.NullString{}, nil); got != "(deleted)" {
		t.Errorf("expected placeholder for missing title, got %q", got)
	}
}
