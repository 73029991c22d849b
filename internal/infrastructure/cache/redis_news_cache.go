package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/civicconnect/backend/internal/application/news"
	"github.com/civicconnect/backend/internal/domain/shared"
)

// RedisNewsCache implements the news result cache on Redis. Hits are stored
// as a JSON-encoded article slice under the normalized query key.
type RedisNewsCache struct {
	client *redis.Client
}

// NewRedisNewsCache creates a news cache backed by an existing Redis client
func NewRedisNewsCache(client *redis.Client) *RedisNewsCache {
	return &RedisNewsCache{client: client}
}

// Get returns the cached articles for the key, or shared.ErrNotFound on a miss
func (c *RedisNewsCache) Get(ctx context.Context, key string) ([]news.Article, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("news cache: get %s failed: %w", key, err)
	}

	var articles []news.Article
	if err := json.Unmarshal(payload, &articles); err != nil {
		// a corrupt entry behaves as a miss so the caller refreshes it
		return nil, shared.ErrNotFound
	}
	return articles, nil
}

// Set stores the articles under the key with the given TTL
func (c *RedisNewsCache) Set(ctx context.Context, key string, articles []news.Article, ttl time.Duration) error {
	payload, err := json.Marshal(articles)
	if err != nil {
		return fmt.Errorf("news cache: encode %s failed: %w", key, err)
	}
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("news cache: set %s failed: %w", key, err)
	}
	return nil
}

// Ensure RedisNewsCache implements the application port
var _ news.Cache = (*RedisNewsCache)(nil)
