package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRecentActivity_EmptyUserID(t *testing.T) {
	called := false
	repo := &mockActivityRepo{
		listFn: func(ctx context.Context, userID string, limit int) ([]FeedItem, error) {
			called = true
			return nil, nil
		},
	}
	svc := NewActivityService(repo)

	items, err := svc.RecentActivity(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items != nil || called {
		t.Error("expected empty result without a repository query for anonymous user")
	}
}

func TestRecentActivity_PassesFeedLimit(t *testing.T) {
	var gotLimit int
	repo := &mockActivityRepo{
		listFn: func(ctx context.Context, userID string, limit int) ([]FeedItem, error) {
			gotLimit = limit
			return []FeedItem{
				{ID: 2, ActionType: "edit_page", ResourceType: ResourcePage, ResourceID: "p1", Title: "Day 1", WikiID: "w1", CreatedAt: time.Now()},
				{ID: 1, ActionType: "create_wiki", ResourceType: ResourceWiki, ResourceID: "w1", Title: "Notes", WikiID: "w1", CreatedAt: time.Now().Add(-time.Hour)},
			}, nil
		},
	}
	svc := NewActivityService(repo)

	items, err := svc.RecentActivity(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != feedLimit {
		t.Errorf("expected limit %d, got %d", feedLimit, gotLimit)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}
}

func TestRecentActivity_RepoError(t *testing.T) {
	repo := &mockActivityRepo{
		listFn: func(ctx context.Context, userID string, limit int) ([]FeedItem, error) {
			return nil, errors.New("connection lost")
		},
	}
	svc := NewActivityService(repo)

	if _, err := svc.RecentActivity(context.Background(), "alice"); err == nil {
		t.Fatal("expected error from repository failure")
	}
}

func TestFeedItemExists(t *testing.T) {
	live := &FeedItem{ResourceType: ResourcePage, WikiID: "w1"}
	deleted := &FeedItem{ResourceType: ResourcePage}

	if !live.Exists() {
		t.Error("expected item with resolved wiki to exist")
	}
	if deleted.Exists() {
		t.Error("expected item without resolved wiki to be treated as deleted")
	}
}
