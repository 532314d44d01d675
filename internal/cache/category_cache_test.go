package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thriftstore/pos/internal/db"
	"github.com/thriftstore/pos/pkg/logger"
)

type countingStore struct {
	categories []db.Category
	reads      int
}

func (s *countingStore) ListCategories(context.Context) ([]db.Category, error) {
	s.reads++
	return append([]db.Category(nil), s.categories...), nil
}

func (s *countingStore) AddCategory(_ context.Context, category *db.Category) error {
	category.ID = uint(len(s.categories) + 1)
	s.categories = append(s.categories, *category)
	return nil
}

func setupCache(t *testing.T) (*CachedCategoryRepository, *countingStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb, err := Connect(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })

	store := &countingStore{categories: []db.Category{{ID: 1, Name: "Clothing"}, {ID: 2, Name: "Books"}}}
	return NewCachedCategoryRepository(store, rdb, time.Minute, logger.NewLogger("test", "error")), store, mr
}

func TestListCategoriesServedFromCache(t *testing.T) {
	cached, store, mr := setupCache(t)
	ctx := context.Background()

	first, err := cached.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 2)
	assert.Equal(t, 1, store.reads)
	assert.True(t, mr.Exists(categoriesKey))

	second, err := cached.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.reads)

	mr.FastForward(2 * time.Minute)
	_, err = cached.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, store.reads)
}

func TestAddCategoryInvalidates(t *testing.T) {
	cached, store, mr := setupCache(t)
	ctx := context.Background()

	_, err := cached.ListCategories(ctx)
	require.NoError(t, err)

	require.NoError(t, cached.AddCategory(ctx, &db.Category{Name: "Toys"}))
	assert.False(t, mr.Exists(categoriesKey))

	categories, err := cached.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 3)
	assert.Equal(t, 2, store.reads)
}

func TestRedisFailureFallsBackToStore(t *testing.T) {
	cached, store, mr := setupCache(t)
	mr.Close()

	categories, err := cached.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 2)
	assert.Equal(t, 1, store.reads)
}

func TestUnreadableEntryIsReloaded(t *testing.T) {
	cached, store, mr := setupCache(t)
	require.NoError(t, mr.Set(categoriesKey, "not json"))

	categories, err := cached.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 2)
	assert.Equal(t, 1, store.reads)
}

func TestConnectFailsWithoutServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Connect(context.Background(), addr, "", 0)
	assert.Error(t, err)
}
