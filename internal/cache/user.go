package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/userhub/userhub/internal/model"
)

// Cache key prefixes and TTLs.
const (
	userKeyPrefix     = "user:"
	negCacheKeySuffix = ":neg"

	// DefaultUserTTL is the TTL for cached user data.
	DefaultUserTTL = 1 * time.Hour

	// NegativeCacheTTL is the TTL for negative cache entries.
	NegativeCacheTTL = 5 * time.Minute
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// GetUser retrieves a user from cache by ID.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetUser(ctx context.Context, id string) (*model.User, error) {
	key := userKeyPrefix + id

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		// Corrupted entry - drop it and report a miss
		c.client.Del(ctx, key)
		return nil, ErrCacheMiss
	}

	return &user, nil
}

// SetUser stores a user in cache.
func (c *Cache) SetUser(ctx context.Context, user *model.User) error {
	key := userKeyPrefix + user.ID

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	if err := c.client.Set(ctx, key, data, DefaultUserTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	// A positive entry supersedes any negative one
	c.client.Del(ctx, key+negCacheKeySuffix)

	return nil
}

// DeleteUser removes a user from cache, including its negative entry.
// Called on update and delete to invalidate stale reads.
func (c *Cache) DeleteUser(ctx context.Context, id string) error {
	key := userKeyPrefix + id
	return c.client.Del(ctx, key, key+negCacheKeySuffix).Err()
}

// SetUserNegative marks a user ID as known-missing.
func (c *Cache) SetUserNegative(ctx context.Context, id string) error {
	key := userKeyPrefix + id + negCacheKeySuffix
	return c.client.Set(ctx, key, "1", NegativeCacheTTL).Err()
}

// IsUserNegative reports whether a user ID is negatively cached.
func (c *Cache) IsUserNegative(ctx context.Context, id string) bool {
	key := userKeyPrefix + id + negCacheKeySuffix
	result, err := c.client.Exists(ctx, key).Result()
	return err == nil && result > 0
}
