package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/thriftstore/pos/internal/db"
	"go.uber.org/zap"
)

const categoriesKey = "thriftstore:categories:all"

// CategoryStore is the backing source of categories
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]db.Category, error)
	AddCategory(ctx context.Context, category *db.Category) error
}

// CachedCategoryRepository serves the category list from redis and falls back
// to the store on a miss or any redis failure
type CachedCategoryRepository struct {
	store CategoryStore
	redis *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

// NewCachedCategoryRepository wraps store with a read-through cache
func NewCachedCategoryRepository(store CategoryStore, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *CachedCategoryRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedCategoryRepository{
		store: store,
		redis: rdb,
		ttl:   ttl,
		log:   log,
	}
}

// ListCategories returns the cached list, loading and caching it on a miss
func (c *CachedCategoryRepository) ListCategories(ctx context.Context) ([]db.Category, error) {
	data, err := c.redis.Get(ctx, categoriesKey).Bytes()
	switch {
	case err == nil:
		var categories []db.Category
		if err := json.Unmarshal(data, &categories); err == nil {
			return categories, nil
		}
		c.log.Warn("Discarding unreadable cached categories", zap.Error(err))
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("Redis read failed, continuing with database", zap.Error(err))
	}

	categories, err := c.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(categories)
	if err != nil {
		c.log.Warn("Failed to marshal categories", zap.Error(err))
		return categories, nil
	}
	if err := c.redis.Set(ctx, categoriesKey, body, c.ttl).Err(); err != nil {
		c.log.Warn("Failed to cache categories", zap.Error(err))
	}
	return categories, nil
}

// AddCategory writes through to the store and drops the cached list
func (c *CachedCategoryRepository) AddCategory(ctx context.Context, category *db.Category) error {
	if err := c.store.AddCategory(ctx, category); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

// Invalidate removes the cached category list
func (c *CachedCategoryRepository) Invalidate(ctx context.Context) {
	if err := c.redis.Del(ctx, categoriesKey).Err(); err != nil {
		c.log.Warn("Failed to invalidate category cache", zap.Error(err))
	}
}
