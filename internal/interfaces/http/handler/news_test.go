package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	newsapp "github.com/civicconnect/backend/internal/application/news"
	"github.com/civicconnect/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(ctx context.Context, query, language string) ([]newsapp.Article, error) {
	args := m.Called(ctx, query, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]newsapp.Article), args.Error(1)
}

type MockNewsCache struct {
	mock.Mock
}

func (m *MockNewsCache) Get(ctx context.Context, key string) ([]newsapp.Article, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]newsapp.Article), args.Error(1)
}

func (m *MockNewsCache) Set(ctx context.Context, key string, articles []newsapp.Article, ttl time.Duration) error {
	args := m.Called(ctx, key, articles, ttl)
	return args.Error(0)
}

type newsFixture struct {
	searcher *MockSearcher
	cache    *MockNewsCache
	router   *gin.Engine
}

func newNewsFixture(t *testing.T) *newsFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &newsFixture{
		searcher: new(MockSearcher),
		cache:    new(MockNewsCache),
	}
	h := NewNewsHandler(newsapp.NewService(f.searcher, f.cache, time.Minute, zap.NewNop()))

	f.router = gin.New()
	f.router.GET("/news/search", h.Search)
	return f
}

func TestNewsHandler_Search_Success(t *testing.T) {
	f := newNewsFixture(t)

	articles := []newsapp.Article{{
		Title:       "Kolhapur sugar factories announce cane price",
		Snippet:     "Factories in the district agreed on the first installment.",
		URL:         "https://example.com/cane-price",
		Source:      "example.com",
		PublishedAt: time.Now(),
	}}
	f.cache.On("Get", mock.Anything, "news:sugar cane price").Return(nil, shared.ErrNotFound)
	f.searcher.On("Search", mock.Anything, "sugar cane price", "").Return(articles, nil)
	f.cache.On("Set", mock.Anything, "news:sugar cane price", articles, mock.Anything).Return(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/news/search?q=sugar+cane+price", nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Kolhapur sugar factories")
	assert.Contains(t, w.Body.String(), `"from_cache":false`)
}

func TestNewsHandler_Search_FromCache(t *testing.T) {
	f := newNewsFixture(t)

	articles := []newsapp.Article{{Title: "Cached headline", URL: "https://example.com/a"}}
	f.cache.On("Get", mock.Anything, "news:water supply:mr").Return(articles, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/news/search?q=water+supply&language=mr", nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"from_cache":true`)
	f.searcher.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestNewsHandler_Search_MissingQuery(t *testing.T) {
	f := newNewsFixture(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/news/search", nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.searcher.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestNewsHandler_Search_UpstreamFailure(t *testing.T) {
	f := newNewsFixture(t)

	f.cache.On("Get", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)
	f.searcher.On("Search", mock.Anything, "roads", "").Return(nil, errors.New("upstream timeout"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/news/search?q=roads", nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_SEARCH_FAILED")
}
