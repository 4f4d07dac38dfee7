// Package catalogbridge adapts the catalog context's repository to the
// narrow product view order placement needs.
package catalogbridge

import (
	"context"
	"errors"

	catalogports "github.com/lamunshop/storefront-api/internal/domains/catalog/ports"
	"github.com/lamunshop/storefront-api/internal/domains/checkout/ports"
)

var _ ports.ProductGateway = (*Gateway)(nil)

type Gateway struct {
	repo catalogports.Repository
}

func New(repo catalogports.Repository) *Gateway {
	return &Gateway{repo: repo}
}

func (g *Gateway) Product(ctx context.Context, id int64) (*ports.CatalogProduct, error) {
	product, err := g.repo.GetByID(ctx, id)
	if errors.Is(err, catalogports.ErrNotFound) {
		return nil, ports.ErrProductUnknown
	}
	if err != nil {
		return nil, err
	}
	return &ports.CatalogProduct{
		ID:        product.ID,
		Names:     product.Names,
		UnitPrice: product.UnitPrice(),
		Stock:     product.Stock,
	}, nil
}
