package cached

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"rest-user-service/internal/adapter/cache"
	"rest-user-service/internal/adapter/db/postgres"
	domain "rest-user-service/internal/domain/user"
)

func setupCachedStore(t *testing.T) (domain.Store, *redis.Client) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&postgres.UserSchema{}))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := zaptest.NewLogger(t)
	userCache := cache.NewRedisUserCache(client, 5*time.Minute, log)
	dbStore := postgres.NewUserStorePG(db, log)

	return NewCachedUserStore(dbStore, userCache, log), client
}

func TestCachedUserStore_InsertPrimesCache(t *testing.T) {
	store, client := setupCachedStore(t)

	created, err := store.Insert(context.Background(), &domain.User{Login: "jdoe"})
	require.NoError(t, err)

	exists, err := client.Exists(context.Background(), "user:"+created.ID.String()).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
}

func TestCachedUserStore_FindByID_ServesFromCache(t *testing.T) {
	store, client := setupCachedStore(t)

	created, err := store.Insert(context.Background(), &domain.User{Login: "jdoe"})
	require.NoError(t, err)

	found, err := store.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "jdoe", found.Login)

	// Cache miss path repopulates the entry
	require.NoError(t, client.Del(context.Background(), "user:"+created.ID.String()).Err())

	found, err = store.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)

	exists, err := client.Exists(context.Background(), "user:"+created.ID.String()).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
}

func TestCachedUserStore_FindByID_MissingUser(t *testing.T) {
	store, _ := setupCachedStore(t)

	found, err := store.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestCachedUserStore_UpsertInvalidatesCache(t *testing.T) {
	store, client := setupCachedStore(t)

	created, err := store.Insert(context.Background(), &domain.User{Login: "before"})
	require.NoError(t, err)

	_, err = store.UpdateOrInsert(context.Background(), &domain.User{ID: created.ID, Login: "after"})
	require.NoError(t, err)

	exists, err := client.Exists(context.Background(), "user:"+created.ID.String()).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)

	found, err := store.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "after", found.Login)
}

// blockingStore counts FindByID calls and holds them until released.
type blockingStore struct {
	domain.Store
	user    *domain.User
	calls   atomic.Int32
	release chan struct{}
}

func (s *blockingStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.calls.Add(1)
	<-s.release
	return s.user, nil
}

func TestCachedUserStore_ConcurrentMissesCollapse(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := zaptest.NewLogger(t)
	userCache := cache.NewRedisUserCache(client, 5*time.Minute, log)

	id := uuid.New()
	backing := &blockingStore{
		user:    &domain.User{ID: id, Login: "jdoe"},
		release: make(chan struct{}),
	}
	store := NewCachedUserStore(backing, userCache, log)

	const readers = 10
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			found, err := store.FindByID(context.Background(), id)
			assert.NoError(t, err)
			assert.NotNil(t, found)
		}()
	}

	// Let every reader join the in-flight lookup before it completes.
	time.Sleep(50 * time.Millisecond)
	close(backing.release)
	wg.Wait()

	assert.Equal(t, int32(1), backing.calls.Load())
}

func TestCachedUserStore_DeleteInvalidatesCache(t *testing.T) {
	store, client := setupCachedStore(t)

	created, err := store.Insert(context.Background(), &domain.User{Login: "jdoe"})
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), created.ID))

	exists, err := client.Exists(context.Background(), "user:"+created.ID.String()).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)

	found, err := store.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}
