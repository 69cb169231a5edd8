package activity

import (
	"context"
	"fmt"

	"github.com/lifewiki/lifewiki/internal/apperror"
)

// feedLimit is the number of items shown in the recent activity feed.
const feedLimit = 10

// ActivityService serves the recent activity feed. Recording goes through
// the Recorder, not this service.
type ActivityService interface {
	// RecentActivity returns the user's most recent feed items, newest
	// first, at most feedLimit of them. An empty userID yields an empty
	// result rather than an error.
	RecentActivity(ctx context.Context, userID string) ([]FeedItem, error)
}

// activityService implements ActivityService.
type activityService struct {
	repo ActivityRepository
}

// NewActivityService creates a new activity service with the given repository.
func NewActivityService(repo ActivityRepository) ActivityService {
	return &activityService{repo: repo}
}

// RecentActivity returns the user's recent feed items.
func (s *activityService) RecentActivity(ctx context.Context, userID string) ([]FeedItem, error) {
	if userID == "" {
		return nil, nil
	}

	items, err := s.repo.ListRecentByUser(ctx, userID, feedLimit)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing recent activity: %w", err))
	}
	return items, nil
}
