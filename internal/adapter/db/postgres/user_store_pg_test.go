package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"rest-user-service/internal/domain/user"
	pkgerrors "rest-user-service/pkg/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// Migrate the schema
	err = db.AutoMigrate(&UserSchema{})
	require.NoError(t, err)

	return db
}

func setupStore(t *testing.T) *UserStorePG {
	return NewUserStorePG(setupTestDB(t), zaptest.NewLogger(t))
}

func TestUserStorePG_Insert_AssignsID(t *testing.T) {
	store := setupStore(t)

	created, err := store.Insert(context.Background(), &user.User{
		Login:     "jdoe",
		FirstName: "John",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEqual(t, uuid.Nil, created.ID)

	found, err := store.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "jdoe", found.Login)
	assert.Equal(t, "John", found.FirstName)
	assert.Equal(t, "Doe", found.LastName)
}

func TestUserStorePG_FindByID_Missing(t *testing.T) {
	store := setupStore(t)

	found, err := store.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestUserStorePG_UpdateOrInsert(t *testing.T) {
	store := setupStore(t)
	id := uuid.New()

	t.Run("inserts when absent", func(t *testing.T) {
		inserted, err := store.UpdateOrInsert(context.Background(), &user.User{
			ID:    id,
			Login: "alice",
		})
		require.NoError(t, err)
		assert.True(t, inserted)

		found, err := store.FindByID(context.Background(), id)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, id, found.ID)
		assert.Equal(t, "alice", found.Login)
	})

	t.Run("overwrites when present", func(t *testing.T) {
		inserted, err := store.UpdateOrInsert(context.Background(), &user.User{
			ID:        id,
			Login:     "alice2",
			FirstName: "Alice",
		})
		require.NoError(t, err)
		assert.False(t, inserted)

		found, err := store.FindByID(context.Background(), id)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, id, found.ID)
		assert.Equal(t, "alice2", found.Login)
		assert.Equal(t, "Alice", found.FirstName)
	})

	t.Run("rejects nil id", func(t *testing.T) {
		_, err := store.UpdateOrInsert(context.Background(), &user.User{Login: "x"})
		assert.Error(t, err)
	})
}

func TestUserStorePG_Delete(t *testing.T) {
	store := setupStore(t)

	created, err := store.Insert(context.Background(), &user.User{Login: "gone"})
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), created.ID))

	found, err := store.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	err = store.Delete(context.Background(), created.ID)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestUserStorePG_GetPage(t *testing.T) {
	store := setupStore(t)

	var ids []uuid.UUID
	for i := 0; i < 25; i++ {
		created, err := store.Insert(context.Background(), &user.User{
			Login: fmt.Sprintf("user%02d", i),
		})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	t.Run("first page", func(t *testing.T) {
		page, err := store.GetPage(context.Background(), 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(25), page.TotalCount)
		assert.Equal(t, 1, page.CurrentPage)
		assert.Equal(t, 10, page.PageSize)
		assert.Len(t, page.Items, 10)
		assert.Equal(t, int64(3), page.TotalPages())
		assert.False(t, page.HasPrevious())
		assert.True(t, page.HasNext())
	})

	t.Run("last page is short", func(t *testing.T) {
		page, err := store.GetPage(context.Background(), 3, 10)
		require.NoError(t, err)
		assert.Len(t, page.Items, 5)
		assert.True(t, page.HasPrevious())
		assert.False(t, page.HasNext())
	})

	t.Run("order is stable across pages", func(t *testing.T) {
		seen := make(map[uuid.UUID]bool)
		for p := 1; p <= 3; p++ {
			page, err := store.GetPage(context.Background(), p, 10)
			require.NoError(t, err)
			for _, u := range page.Items {
				assert.False(t, seen[u.ID], "user repeated across pages")
				seen[u.ID] = true
			}
		}
		assert.Len(t, seen, 25)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		page, err := store.GetPage(context.Background(), 5, 10)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, int64(25), page.TotalCount)
	})
}
