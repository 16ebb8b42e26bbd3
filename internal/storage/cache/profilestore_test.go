// --- File: internal/storage/cache/profilestore_test.go ---
package cache_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Gen3ratorX/clinic-app/internal/storage/cache"
	"github.com/Gen3ratorX/clinic-app/pkg/notification"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest any) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}
func (m *MockCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

type MockRealStore struct {
	mock.Mock
}

func (m *MockRealStore) GetProfile(ctx context.Context, userID string) (*notification.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.UserProfile), args.Error(1)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCachedProfileStore(t *testing.T) {
	ctx := context.Background()
	cacheKey := "clinic:profiles:u1"
	jane := &notification.UserProfile{FirstName: "Jane", LastName: "Doe"}

	t.Run("Hit skips Firestore", func(t *testing.T) {
		mockCache := new(MockCache)
		mockDB := new(MockRealStore)
		store := cache.NewCachedProfileStore(mockDB, mockCache, time.Hour, newTestLogger())

		mockCache.On("Get", ctx, cacheKey, mock.Anything).Run(func(args mock.Arguments) {
			*args.Get(2).(*notification.UserProfile) = *jane
		}).Return(nil)

		profile, err := store.GetProfile(ctx, "u1")

		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", profile.FullName())
		mockDB.AssertNotCalled(t, "GetProfile", mock.Anything, mock.Anything)
	})

	t.Run("Miss reads Firestore and fills cache", func(t *testing.T) {
		mockCache := new(MockCache)
		mockDB := new(MockRealStore)
		store := cache.NewCachedProfileStore(mockDB, mockCache, time.Hour, newTestLogger())

		mockCache.On("Get", ctx, cacheKey, mock.Anything).Return(redis.Nil)
		mockDB.On("GetProfile", ctx, "u1").Return(jane, nil)
		mockCache.On("Set", ctx, cacheKey, jane, time.Hour).Return(nil)

		profile, err := store.GetProfile(ctx, "u1")

		require.NoError(t, err)
		assert.Equal(t, jane, profile)
		mockDB.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("Not found is passed through and not cached", func(t *testing.T) {
		mockCache := new(MockCache)
		mockDB := new(MockRealStore)
		store := cache.NewCachedProfileStore(mockDB, mockCache, time.Hour, newTestLogger())

		mockCache.On("Get", ctx, cacheKey, mock.Anything).Return(redis.Nil)
		mockDB.On("GetProfile", ctx, "u1").Return(nil, notification.ErrProfileNotFound)

		_, err := store.GetProfile(ctx, "u1")

		assert.ErrorIs(t, err, notification.ErrProfileNotFound)
		mockCache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Cache outage degrades to Firestore", func(t *testing.T) {
		mockCache := new(MockCache)
		mockDB := new(MockRealStore)
		store := cache.NewCachedProfileStore(mockDB, mockCache, time.Hour, newTestLogger())

		mockCache.On("Get", ctx, cacheKey, mock.Anything).Return(errors.New("connection refused"))
		mockDB.On("GetProfile", ctx, "u1").Return(jane, nil)
		mockCache.On("Set", ctx, cacheKey, jane, time.Hour).Return(errors.New("connection refused"))

		profile, err := store.GetProfile(ctx, "u1")

		require.NoError(t, err)
		assert.Equal(t, jane, profile)
	})
}
