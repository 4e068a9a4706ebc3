package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitStore implements a fixed-window request counter in Redis.
type RateLimitStore struct {
	client *redis.Client
}

// NewRateLimitStore creates a new RateLimitStore.
func NewRateLimitStore(client *redis.Client) *RateLimitStore {
	return &RateLimitStore{client: client}
}

// Allow counts a request against the key's window and reports whether it is
// within the limit. The window starts on the first request and expires after
// the given duration.
func (s *RateLimitStore) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, error) {
	redisKey := fmt.Sprintf("rate_limit:%s", key)

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := s.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return false, err
		}
	}

	return count <= limit, nil
}
