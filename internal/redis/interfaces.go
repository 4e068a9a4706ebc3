package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireVehicleLock(ctx context.Context, vehicleID string, ttl time.Duration) (bool, error)
	ReleaseVehicleLock(ctx context.Context, vehicleID string) error
}

// TokenStoreInterface defines the interface for access-token revocation.
type TokenStoreInterface interface {
	Blacklist(ctx context.Context, token string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

// RateLimitStoreInterface defines the interface for request rate limiting.
type RateLimitStoreInterface interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, error)
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface      = (*LockStore)(nil)
	_ TokenStoreInterface     = (*TokenStore)(nil)
	_ RateLimitStoreInterface = (*RateLimitStore)(nil)
)
