package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "rest-user-service/internal/domain/user"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

func TestRedisUserCache_SetAndGet(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))

	u := &domain.User{
		ID:        uuid.New(),
		Login:     "jdoe",
		FirstName: "John",
		LastName:  "Doe",
	}

	require.NoError(t, cache.Set(context.Background(), u))

	// Verify the raw key shape
	data, err := client.Get(context.Background(), "user:"+u.ID.String()).Bytes()
	require.NoError(t, err)
	var raw domain.User
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, u.Login, raw.Login)

	cached, err := cache.Get(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, u.ID, cached.ID)
	assert.Equal(t, u.Login, cached.Login)
	assert.Equal(t, u.FirstName, cached.FirstName)
	assert.Equal(t, u.LastName, cached.LastName)
}

func TestRedisUserCache_Set_NilUser(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))

	assert.Error(t, cache.Set(context.Background(), nil))
}

func TestRedisUserCache_Get_Miss(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))

	cached, err := cache.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestRedisUserCache_Delete(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))

	u := &domain.User{ID: uuid.New(), Login: "jdoe"}
	require.NoError(t, cache.Set(context.Background(), u))
	require.NoError(t, cache.Delete(context.Background(), u.ID))

	cached, err := cache.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestRedisUserCache_TTLExpires(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))

	u := &domain.User{ID: uuid.New(), Login: "jdoe"}
	require.NoError(t, cache.Set(context.Background(), u))

	mr.FastForward(2 * time.Minute)

	cached, err := cache.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Nil(t, cached)
}
