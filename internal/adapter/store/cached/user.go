package cached

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"rest-user-service/internal/adapter/cache"
	domain "rest-user-service/internal/domain/user"
)

// CachedUserStore implements domain.Store with caching support.
// It wraps a persistent store (DB) and a cache implementation.
type CachedUserStore struct {
	dbStore domain.Store
	cache   cache.UserCache
	log     *zap.Logger
	group   singleflight.Group
}

// NewCachedUserStore creates a new instance of CachedUserStore.
func NewCachedUserStore(dbStore domain.Store, cache cache.UserCache, log *zap.Logger) domain.Store {
	return &CachedUserStore{
		dbStore: dbStore,
		cache:   cache,
		log:     log,
	}
}

// FindByID retrieves a user by ID using the cache-aside pattern.
// Concurrent misses for the same ID collapse into one DB read.
func (s *CachedUserStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if s.cache != nil {
		cachedUser, err := s.cache.Get(ctx, id)
		if err != nil {
			s.log.Warn("cache get error, falling back to database", zap.String("id", id.String()), zap.Error(err))
		} else if cachedUser != nil {
			s.log.Debug("user retrieved from cache", zap.String("id", id.String()))
			return cachedUser, nil
		}
	}

	key := fmt.Sprintf("user:%s", id)
	result, err, _ := s.group.Do(key, func() (any, error) {
		// Another request may have populated the cache while we waited
		if s.cache != nil {
			cachedUser, err := s.cache.Get(ctx, id)
			if err == nil && cachedUser != nil {
				s.log.Debug("user retrieved from cache after single-flight wait", zap.String("id", id.String()))
				return cachedUser, nil
			}
		}

		u, err := s.dbStore.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if u == nil {
			// Absent users are not cached; a later insert must be visible
			return (*domain.User)(nil), nil
		}

		if s.cache != nil {
			if err := s.cache.Set(ctx, u); err != nil {
				s.log.Warn("failed to cache user", zap.String("id", id.String()), zap.Error(err))
			}
		}

		return u, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*domain.User), nil
}

// Insert delegates to the DB store and primes the cache with the
// freshly assigned entity.
func (s *CachedUserStore) Insert(ctx context.Context, u *domain.User) (*domain.User, error) {
	created, err := s.dbStore.Insert(ctx, u)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, created); err != nil {
			s.log.Warn("failed to cache user after insert", zap.String("id", created.ID.String()), zap.Error(err))
		}
	}

	return created, nil
}

// UpdateOrInsert upserts in the DB and invalidates the cached entry.
func (s *CachedUserStore) UpdateOrInsert(ctx context.Context, u *domain.User) (bool, error) {
	inserted, err := s.dbStore.UpdateOrInsert(ctx, u)
	if err != nil {
		return false, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, u.ID); err != nil {
			s.log.Warn("failed to invalidate cache after upsert", zap.String("id", u.ID.String()), zap.Error(err))
		}
	}

	return inserted, nil
}

// Delete deletes the user from DB and invalidates the cache.
func (s *CachedUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.dbStore.Delete(ctx, id); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.log.Warn("failed to invalidate cache after delete", zap.String("id", id.String()), zap.Error(err))
		}
	}

	return nil
}

// GetPage delegates to the DB store.
func (s *CachedUserStore) GetPage(ctx context.Context, pageNumber, pageSize int) (*domain.Page, error) {
	return s.dbStore.GetPage(ctx, pageNumber, pageSize)
}
