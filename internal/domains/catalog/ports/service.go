package ports

import (
	"context"

	"github.com/lamunshop/storefront-api/internal/domains/catalog/domain"
)

// Service exposes catalog read use cases to adapters.
type Service interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
}
