package newsfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/civicconnect/backend/internal/application/news"
)

// maxResponseSize is the maximum allowed response size from the news API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Errors surfaced by the news search client
var (
	ErrNewsConfigMissingAPIKey = errors.New("newsfeed: api key is required")
	ErrNewsUnavailable         = errors.New("newsfeed: provider unreachable")
	ErrNewsRequestFailed       = errors.New("newsfeed: request failed")
	ErrNewsInvalidResponse     = errors.New("newsfeed: invalid response")
)

// Config holds configuration for the upstream news search API
type Config struct {
	// APIKey authenticates every search call
	APIKey string
	// APIBaseURL is the base URL of the search API
	APIBaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// NewsAPIURL is the production search endpoint
const NewsAPIURL = "https://newsapi.org"

// Validate validates the news API configuration
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrNewsConfigMissingAPIKey
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = NewsAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 15
	}
	return nil
}

// searchResponse is the wire shape of GET /v2/everything
type searchResponse struct {
	Status       string        `json:"status"`
	Code         string        `json:"code"`
	Message      string        `json:"message"`
	TotalResults int           `json:"totalResults"`
	Articles     []wireArticle `json:"articles"`
}

type wireArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Client implements news.Searcher against a NewsAPI-compatible endpoint
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a new news search client with the given configuration
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// Search queries the upstream API and maps hits into application articles
func (c *Client) Search(ctx context.Context, query, language string) ([]news.Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sortBy", "publishedAt")
	if language != "" {
		params.Set("language", language)
	}

	endpoint := c.config.APIBaseURL + "/v2/everything?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("newsfeed: failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNewsUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("newsfeed: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrNewsRequestFailed, resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", ErrNewsInvalidResponse, err)
	}
	if parsed.Status != "ok" {
		return nil, fmt.Errorf("%w: %s - %s", ErrNewsRequestFailed, parsed.Code, parsed.Message)
	}

	articles := make([]news.Article, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		articles = append(articles, news.Article{
			Title:       a.Title,
			Snippet:     a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
	}
	return articles, nil
}

// Ensure Client implements the application port
var _ news.Searcher = (*Client)(nil)
