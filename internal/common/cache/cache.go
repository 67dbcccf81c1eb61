package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a key is absent from the cache.
var ErrMiss = errors.New("cache miss")

type CacheService struct {
	client *redis.Client
}

func NewCacheService(client *redis.Client) *CacheService {
	return &CacheService{client: client}
}

// Get reads a JSON value from the cache into dest.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return err
	}

	return json.Unmarshal([]byte(data), dest)
}

// Set stores a JSON value in the cache.
func (c *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return c.client.Set(ctx, key, string(data), ttl).Err()
}

// Delete removes a key from the cache.
func (c *CacheService) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// UserKey is the cache key for a user profile.
func UserKey(telegramUID string) string {
	return fmt.Sprintf("user:%s", telegramUID)
}

// InvalidateUser drops the cached profile. Called after every points credit
// so reads never serve a stale balance for long.
func (c *CacheService) InvalidateUser(ctx context.Context, telegramUID string) error {
	return c.Delete(ctx, UserKey(telegramUID))
}
