package ports

import (
	"context"
	"errors"

	"github.com/lamunshop/storefront-api/internal/domains/catalog/domain"
)

var ErrNotFound = errors.New("product not found")

// Repository persists catalog products.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
}

// StockConflictError reports a conditional stock decrement that affected zero
// rows: the product no longer has enough stock.
type StockConflictError struct {
	ProductID int64
}

func (e *StockConflictError) Error() string {
	return "insufficient stock for product"
}

// StockReserver applies a conditional "decrement where stock >= quantity"
// update. A shortfall returns *StockConflictError so callers can abort their
// transaction instead of overselling.
type StockReserver interface {
	Reserve(ctx context.Context, productID int64, quantity int) error
	Release(ctx context.Context, productID int64, quantity int) error
}
