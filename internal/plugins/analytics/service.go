package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// histogramWindow is how far back the daily view histogram reaches.
const histogramWindow = 30 * 24 * time.Hour

// topPagesLimit is the length of a wiki's most-viewed pages list.
const topPagesLimit = 5

// popularPagesLimit is the length of the dashboard popular pages ranking.
const popularPagesLimit = 6

// popularCacheKeyPrefix namespaces the per-user popular pages cache entries.
const popularCacheKeyPrefix = "popular:"

// AnalyticsService aggregates usage statistics for wikis and users.
type AnalyticsService interface {
	// WikiAnalytics returns the aggregate statistics for one wiki, or nil
	// when no authenticated actor is present. Individual aggregate queries
	// that fail degrade their piece to zero rather than failing the whole
	// result.
	//
	// This method does not check that the actor may see the wiki; callers
	// gate access before invoking it.
	WikiAnalytics(ctx context.Context, actorID, wikiID string) (*WikiAnalytics, error)

	// PopularPages returns the most viewed pages across the actor's own
	// wikis plus public wikis, or nil when no authenticated actor is
	// present. Results are cached per user for a short TTL.
	PopularPages(ctx context.Context, actorID string) ([]PopularPage, error)
}

// analyticsService implements AnalyticsService.
type analyticsService struct {
	repo     AnalyticsRepository
	redis    *redis.Client // May be nil; caching is then skipped.
	cacheTTL time.Duration
}

// NewAnalyticsService creates a new analytics service. rdb may be nil to
// disable the popular pages cache.
func NewAnalyticsService(repo AnalyticsRepository, rdb *redis.Client, cacheTTL time.Duration) AnalyticsService {
	return &analyticsService{
		repo:     repo,
		redis:    rdb,
		cacheTTL: cacheTTL,
	}
}

// WikiAnalytics aggregates a wiki's totals, histogram, and top pages. The
// three aggregate queries are independent; a failing one logs a warning and
// contributes an empty piece so a partial outage still renders a page.
func (s *analyticsService) WikiAnalytics(ctx context.Context, actorID, wikiID string) (*WikiAnalytics, error) {
	if actorID == "" {
		return nil, nil
	}

	result := &WikiAnalytics{}

	total, unique, err := s.repo.WikiViewTotals(ctx, wikiID)
	if err != nil {
		slog.Warn("wiki view totals unavailable",
			slog.String("wiki_id", wikiID), slog.Any("error", err))
	} else {
		result.TotalViews = total
		result.UniqueViewers = unique
	}

	since := time.Now().Add(-histogramWindow)
	days, err := s.repo.DailyWikiViews(ctx, wikiID, since)
	if err != nil {
		slog.Warn("daily view histogram unavailable",
			slog.String("wiki_id", wikiID), slog.Any("error", err))
	} else {
		result.PageViews = days
	}

	top, err := s.repo.TopPagesByViews(ctx, wikiID, topPagesLimit)
	if err != nil {
		slog.Warn("top pages unavailable",
			slog.String("wiki_id", wikiID), slog.Any("error", err))
	} else {
		result.MostViewedPages = top
	}

	return result, nil
}

// PopularPages returns the cross-wiki popular pages ranking for the actor.
// The ranking is recomputed at most once per cacheTTL per user; cache
// failures fall through to the database.
func (s *analyticsService) PopularPages(ctx context.Context, actorID string) ([]PopularPage, error) {
	if actorID == "" {
		return nil, nil
	}

	cacheKey := popularCacheKeyPrefix + actorID
	if cached, ok := s.cacheGet(ctx, cacheKey); ok {
		return cached, nil
	}

	pages, err := s.repo.PopularPages(ctx, actorID, popularPagesLimit)
	if err != nil {
		return nil, fmt.Errorf("ranking popular pages: %w", err)
	}

	s.cacheSet(ctx, cacheKey, pages)
	return pages, nil
}

// cacheGet reads a cached ranking. Any failure (miss, connection error,
// stale encoding) reports a miss.
func (s *analyticsService) cacheGet(ctx context.Context, key string) ([]PopularPage, bool) {
	if s.redis == nil {
		return nil, false
	}

	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("popular pages cache read failed", slog.Any("error", err))
		return nil, false
	}

	var pages []PopularPage
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, false
	}
	return pages, true
}

// cacheSet writes a ranking to the cache, best-effort.
func (s *analyticsService) cacheSet(ctx context.Context, key string, pages []PopularPage) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(pages)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		slog.Warn("popular pages cache write failed", slog.Any("error", err))
	}
}
