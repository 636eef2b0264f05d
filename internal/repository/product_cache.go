package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"shop-admin/internal/domain"
)

// Cache is the narrow contract the cached repository needs. ErrCacheMiss is
// returned when the key is absent.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ErrCacheMiss reports an absent cache key.
var ErrCacheMiss = errors.New("cache miss")

// RedisCache adapts go-redis to the Cache contract.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

const productCacheTTL = 30 * time.Second

// cachedProductRepository layers a cache-aside read path over FindBySlug,
// the hot lookup on every editing-session hydration. Writes invalidate.
// Cache failures only degrade to the database; they never fail the request.
type cachedProductRepository struct {
	inner  ProductRepository
	cache  Cache
	logger *zap.Logger
}

// NewCachedProductRepository wraps inner with slug-keyed caching.
func NewCachedProductRepository(inner ProductRepository, cache Cache, logger *zap.Logger) ProductRepository {
	return &cachedProductRepository{inner: inner, cache: cache, logger: logger}
}

func slugKey(slug string) string {
	return fmt.Sprintf("product:slug:%s", slug)
}

func (r *cachedProductRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if raw, err := r.cache.Get(ctx, slugKey(slug)); err == nil {
		product := &domain.Product{}
		if err := json.Unmarshal([]byte(raw), product); err == nil {
			return product, nil
		}
		// undecodable entry: fall through to the database and rewrite it
	} else if !errors.Is(err, ErrCacheMiss) {
		r.logger.Warn("Product cache read failed", zap.String("slug", slug), zap.Error(err))
	}

	product, err := r.inner.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(product); err == nil {
		if err := r.cache.Set(ctx, slugKey(slug), string(raw), productCacheTTL); err != nil {
			r.logger.Warn("Product cache write failed", zap.String("slug", slug), zap.Error(err))
		}
	}

	return product, nil
}

func (r *cachedProductRepository) Insert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	created, err := r.inner.Insert(ctx, product)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, created.Slug)
	return created, nil
}

func (r *cachedProductRepository) Replace(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	// The slug may have changed; drop both the old and the new entry.
	var staleSlug string
	if prev, err := r.inner.FindByID(ctx, product.ID); err == nil {
		staleSlug = prev.Slug
	}

	updated, err := r.inner.Replace(ctx, product)
	if err != nil {
		return nil, err
	}

	if staleSlug != "" && staleSlug != updated.Slug {
		r.invalidate(ctx, staleSlug, updated.Slug)
	} else {
		r.invalidate(ctx, updated.Slug)
	}
	return updated, nil
}

func (r *cachedProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var staleSlug string
	if prev, err := r.inner.FindByID(ctx, id); err == nil {
		staleSlug = prev.Slug
	}

	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}

	if staleSlug != "" {
		r.invalidate(ctx, staleSlug)
	}
	return nil
}

func (r *cachedProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return r.inner.FindByID(ctx, id)
}

func (r *cachedProductRepository) List(ctx context.Context, page, pageSize int) ([]*domain.Product, int, error) {
	return r.inner.List(ctx, page, pageSize)
}

func (r *cachedProductRepository) invalidate(ctx context.Context, slugs ...string) {
	keys := make([]string, len(slugs))
	for i, s := range slugs {
		keys[i] = slugKey(s)
	}
	if err := r.cache.Delete(ctx, keys...); err != nil {
		r.logger.Warn("Product cache invalidation failed", zap.Strings("slugs", slugs), zap.Error(err))
	}
}
