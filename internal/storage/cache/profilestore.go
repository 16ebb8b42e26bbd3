// --- File: internal/storage/cache/profilestore.go ---
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Gen3ratorX/clinic-app/pkg/dispatch"
	"github.com/Gen3ratorX/clinic-app/pkg/notification"
	"github.com/redis/go-redis/v9"
)

// CacheClient defines the subset of Redis commands we need.
type CacheClient interface {
	// Get returns redis.Nil if the key is not present.
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// CachedProfileStore is a Decorator that adds Read-Aside caching to any
// ProfileStore. Misses and lookup errors are never cached.
type CachedProfileStore struct {
	realStore dispatch.ProfileStore
	cache     CacheClient
	ttl       time.Duration
	logger    *slog.Logger
}

func NewCachedProfileStore(realStore dispatch.ProfileStore, cache CacheClient, ttl time.Duration, logger *slog.Logger) *CachedProfileStore {
	return &CachedProfileStore{
		realStore: realStore,
		cache:     cache,
		ttl:       ttl,
		logger:    logger.With("component", "CachedProfileStore"),
	}
}

func (s *CachedProfileStore) GetProfile(ctx context.Context, userID string) (*notification.UserProfile, error) {
	key := cacheKey(userID)

	var cached notification.UserProfile
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		// Redis down: serve from the source of truth.
		s.logger.Warn("Profile cache read failed", "user_id", userID, "err", err)
	}

	fresh, err := s.realStore.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, fresh, s.ttl); err != nil {
		s.logger.Warn("Profile cache write failed", "user_id", userID, "err", err)
	}
	return fresh, nil
}

func cacheKey(userID string) string {
	return "clinic:profiles:" + userID
}
