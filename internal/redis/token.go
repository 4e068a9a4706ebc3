package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "blacklist:"

// TokenStore tracks revoked access tokens until they expire.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Blacklist records an access token as revoked for its remaining lifetime.
func (s *TokenStore) Blacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired
	}
	return s.client.Set(ctx, blacklistPrefix+token, "1", ttl).Err()
}

// IsBlacklisted reports whether an access token has been revoked.
func (s *TokenStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	err := s.client.Get(ctx, blacklistPrefix+token).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
