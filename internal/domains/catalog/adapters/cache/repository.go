// Package cache decorates the catalog repository with a Redis read-through
// layer. Product reads during order placement hit this path on every line
// item, so single-product lookups are the only thing cached.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/lamunshop/storefront-api/internal/domains/catalog/domain"
	"github.com/lamunshop/storefront-api/internal/domains/catalog/ports"
	platformcache "github.com/lamunshop/storefront-api/internal/platform/cache"
)

var _ ports.Repository = (*Repository)(nil)

const defaultTTL = 30 * time.Second

// Repository wraps an inner catalog repository with a cache. Cache failures
// degrade to the inner repository and are logged, never surfaced.
type Repository struct {
	inner  ports.Repository
	cache  platformcache.Cache
	logger *slog.Logger
	ttl    time.Duration
}

func NewRepository(inner ports.Repository, cache platformcache.Cache, logger *slog.Logger) *Repository {
	return &Repository{inner: inner, cache: cache, logger: logger, ttl: defaultTTL}
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	key := r.cache.Key("product", id)
	if raw, err := r.cache.Get(ctx, key); err == nil && raw != "" {
		var product domain.Product
		if err := json.Unmarshal([]byte(raw), &product); err == nil {
			return &product, nil
		}
	} else if err != nil {
		r.logWarn("cache read failed", key, err)
	}

	product, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(product); err == nil {
		if err := r.cache.Set(ctx, key, raw, r.ttl); err != nil {
			r.logWarn("cache write failed", key, err)
		}
	}
	return product, nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	return r.inner.List(ctx)
}

func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	saved, err := r.inner.Save(ctx, product)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Del(ctx, r.cache.Key("product", saved.ID)); err != nil {
		r.logWarn("cache invalidation failed", r.cache.Key("product", saved.ID), err)
	}
	return saved, nil
}

func (r *Repository) logWarn(msg, key string, err error) {
	if r.logger != nil {
		r.logger.Warn(msg, slog.String("key", key), slog.String("error", err.Error()))
	}
}
