package news

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/civicconnect/backend/internal/domain/shared"
)

// Article is one news search hit as returned by the upstream search service
type Article struct {
	Title       string    `json:"title"`
	Snippet     string    `json:"snippet"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// SearchRequest represents a news search
type SearchRequest struct {
	Query    string `json:"query" binding:"required"`
	Language string `json:"language"`
}

// SearchResult carries the hits plus whether they came from the cache
type SearchResult struct {
	Query     string    `json:"query"`
	Articles  []Article `json:"articles"`
	FromCache bool      `json:"from_cache"`
}

// Searcher queries the upstream news search service
type Searcher interface {
	Search(ctx context.Context, query, language string) ([]Article, error)
}

// Cache is a read-through result cache keyed by normalized query.
// A miss returns shared.ErrNotFound.
type Cache interface {
	Get(ctx context.Context, key string) ([]Article, error)
	Set(ctx context.Context, key string, articles []Article, ttl time.Duration) error
}

const defaultCacheTTL = 10 * time.Minute

// Service proxies news searches with a read-through cache in front of the
// upstream service. Cache failures degrade to a direct search.
type Service struct {
	searcher Searcher
	cache    Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewService creates a new news search service. A non-positive cacheTTL
// falls back to the default.
func NewService(searcher Searcher, cache Cache, cacheTTL time.Duration, logger *zap.Logger) *Service {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &Service{
		searcher: searcher,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Search returns news hits for the query, served from cache when possible
func (s *Service) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, shared.NewDomainError("INVALID_QUERY", "Search query cannot be empty")
	}

	key := cacheKey(query, req.Language)
	if articles, err := s.cache.Get(ctx, key); err == nil {
		return &SearchResult{Query: query, Articles: articles, FromCache: true}, nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Warn("news cache read failed", zap.String("key", key), zap.Error(err))
	}

	articles, err := s.searcher.Search(ctx, query, req.Language)
	if err != nil {
		return nil, shared.NewDomainError("SEARCH_FAILED", "News search is currently unavailable")
	}

	if err := s.cache.Set(ctx, key, articles, s.cacheTTL); err != nil {
		s.logger.Warn("news cache write failed", zap.String("key", key), zap.Error(err))
	}

	return &SearchResult{Query: query, Articles: articles}, nil
}

func cacheKey(query, language string) string {
	key := "news:" + strings.ToLower(query)
	if language != "" {
		key += ":" + strings.ToLower(language)
	}
	return key
}
