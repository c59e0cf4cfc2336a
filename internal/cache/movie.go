package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"myflix/internal/model"
)

const (
	// MovieCachePrefix is the key prefix for cached movie records
	MovieCachePrefix = "movie:"

	// DefaultMovieTTL applies when a non-positive TTL is configured
	DefaultMovieTTL = 10 * time.Minute
)

// MovieCache is a read-through cache for single movie records.
type MovieCache interface {
	// Get returns (movie, true, nil) on a hit and (nil, false, nil) on a miss.
	Get(ctx context.Context, id uuid.UUID) (*model.Movie, bool, error)
	Set(ctx context.Context, m *model.Movie) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

// kv is the subset of *redis.Client the cache needs.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisMovieCache stores movies as JSON strings with a fixed TTL.
type RedisMovieCache struct {
	client kv
	ttl    time.Duration
}

// NewMovieCache creates a MovieCache backed by Redis.
func NewMovieCache(client *redis.Client, ttl time.Duration) MovieCache {
	return newMovieCache(client, ttl)
}

func newMovieCache(client kv, ttl time.Duration) *RedisMovieCache {
	if ttl <= 0 {
		ttl = DefaultMovieTTL
	}
	return &RedisMovieCache{client: client, ttl: ttl}
}

func movieKey(id uuid.UUID) string {
	return MovieCachePrefix + id.String()
}

func (c *RedisMovieCache) Get(ctx context.Context, id uuid.UUID) (*model.Movie, bool, error) {
	raw, err := c.client.Get(ctx, movieKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached movie: %w", err)
	}

	var m model.Movie
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false, fmt.Errorf("decode cached movie: %w", err)
	}
	if m.Actors == nil {
		m.Actors = []string{}
	}
	return &m, true, nil
}

func (c *RedisMovieCache) Set(ctx context.Context, m *model.Movie) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode movie: %w", err)
	}
	if err := c.client.Set(ctx, movieKey(m.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached movie: %w", err)
	}
	return nil
}

func (c *RedisMovieCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, movieKey(id)).Err(); err != nil {
		return fmt.Errorf("invalidate cached movie: %w", err)
	}
	return nil
}
