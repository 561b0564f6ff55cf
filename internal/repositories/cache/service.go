// Package cache wraps Redis behind a small JSON cache service. Cached
// ledger snapshots serve the fast-path pre-checks in the wallet service;
// they are never the authority for a balance decision.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"primepool/internal/models"

	"github.com/redis/go-redis/v9"
)

// CacheService provides JSON get/set/delete on Redis with a default TTL.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCacheService wraps a Redis client with a default TTL.
func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{client: client, ttl: defaultTTL}
}

// Set stores value under key with the default TTL.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

// SetWithTTL stores value under key with an explicit TTL.
func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get loads key into dest; the bool reports whether the key existed.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

// Delete removes the given keys.
func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func ledgerKey(userID uint) string {
	return fmt.Sprintf("ledger:user:%d", userID)
}

// SetLedger caches a ledger snapshot.
func (s *CacheService) SetLedger(ctx context.Context, ledger *models.Ledger) error {
	return s.Set(ctx, ledgerKey(ledger.UserID), ledger)
}

// GetLedger returns the cached snapshot, or (nil, nil) on a miss.
func (s *CacheService) GetLedger(ctx context.Context, userID uint) (*models.Ledger, error) {
	var ledger models.Ledger
	found, err := s.Get(ctx, ledgerKey(userID), &ledger)
	if err != nil || !found {
		return nil, err
	}
	return &ledger, nil
}

// InvalidateLedger drops the cached snapshot after a mutation.
func (s *CacheService) InvalidateLedger(ctx context.Context, userID uint) error {
	return s.Delete(ctx, ledgerKey(userID))
}

// FlushAll clears the whole cache. Used at startup so stale snapshots
// from a previous run never survive a deploy.
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// HealthCheck pings the backend.
func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *CacheService) Close() error {
	return s.client.Close()
}
