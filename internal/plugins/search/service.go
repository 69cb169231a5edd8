package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/lifewiki/lifewiki/internal/apperror"
	"github.com/lifewiki/lifewiki/internal/markdown"
)

// excerptLength is the display length of page body excerpts in search results.
const excerptLength = 160

// SearchService handles search business logic: query validation, sort key
// whitelisting, and excerpt trimming.
type SearchService interface {
	// Search runs the query for the given user ("" for anonymous visitors,
	// who only see public content). A term shorter than the minimum yields
	// empty results, not an error.
	Search(ctx context.Context, userID string, q Query) (*Results, error)
}

// searchService implements SearchService.
type searchService struct {
	repo SearchRepository
}

// NewSearchService creates a new search service with the given repository.
func NewSearchService(repo SearchRepository) SearchService {
	return &searchService{repo: repo}
}

// Search validates the query and runs both halves.
func (s *searchService) Search(ctx context.Context, userID string, q Query) (*Results, error) {
	q = normalizeQuery(q)
	if len(q.Term) < minTermLength {
		return &Results{}, nil
	}

	wikiHits, err := s.repo.SearchWikis(ctx, userID, q, maxResultsPerKind)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("searching wikis: %w", err))
	}

	pageHits, err := s.repo.SearchPages(ctx, userID, q, maxResultsPerKind)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("searching pages: %w", err))
	}

	// The repository returns raw markdown in Excerpt; reduce it to short
	// plain text for the result list.
	for i := range pageHits {
		pageHits[i].Excerpt = markdown.Excerpt(pageHits[i].Excerpt, excerptLength)
	}

	return &Results{Wikis: wikiHits, Pages: pageHits}, nil
}

// normalizeQuery trims the term and clamps sort and order to the whitelist.
func normalizeQuery(q Query) Query {
	q.Term = strings.TrimSpace(q.Term)

	switch q.Sort {
	case SortTitle, SortCreatedAt, SortUpdatedAt:
	default:
		q.Sort = SortUpdatedAt
	}

	switch q.Order {
	case OrderAsc, OrderDesc:
	default:
		q.Order = OrderDesc
	}

	return q
}
