package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPhotoTTL is how long a found stock photo stays cached.
const DefaultPhotoTTL = 24 * time.Hour

// CachedPhoto represents a cached stock photo lookup result.
type CachedPhoto struct {
	URL             string `json:"url"`
	ThumbnailURL    string `json:"thumbnail_url"`
	AttributionName string `json:"attribution_name"`
	AttributionURL  string `json:"attribution_url"`
}

// PhotoCache provides Redis-backed caching for stock photo lookups.
// A nil Redis client disables the cache without changing behavior.
type PhotoCache struct {
	client *redis.Client
	prefix string
}

// NewPhotoCache creates a new photo cache with the given Redis client.
func NewPhotoCache(client *redis.Client) *PhotoCache {
	return &PhotoCache{
		client: client,
		prefix: "photo:",
	}
}

// makeKey creates a cache key from a lookup query by hashing it.
func (c *PhotoCache) makeKey(query string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return fmt.Sprintf("%s%x", c.prefix, hash)
}

// Get retrieves a cached photo by query.
func (c *PhotoCache) Get(ctx context.Context, query string) (*CachedPhoto, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}

	key := c.makeKey(query)
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		slog.Warn("Redis cache get failed", "error", err)
		return nil, nil
	}

	var photo CachedPhoto
	if err := json.Unmarshal([]byte(data), &photo); err != nil {
		slog.Warn("Failed to unmarshal cached photo", "error", err)
		return nil, nil
	}

	return &photo, nil
}

// Set stores a photo in the cache with the given TTL.
func (c *PhotoCache) Set(ctx context.Context, query string, photo *CachedPhoto, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := json.Marshal(photo)
	if err != nil {
		return err
	}

	key := c.makeKey(query)
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		slog.Warn("Redis cache set failed", "error", err)
	}

	return nil
}

// Delete removes a photo from the cache.
func (c *PhotoCache) Delete(ctx context.Context, query string) error {
	if c == nil || c.client == nil {
		return nil
	}

	key := c.makeKey(query)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		slog.Warn("Redis cache delete failed", "error", err)
	}

	return nil
}

// NewRedisClient connects a go-redis client from a Redis URL. Plain
// host:port strings are accepted alongside redis:// and rediss:// URLs.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	if !strings.HasPrefix(redisURL, "redis://") && !strings.HasPrefix(redisURL, "rediss://") {
		return redis.NewClient(&redis.Options{Addr: redisURL}), nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}
