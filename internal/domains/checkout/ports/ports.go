package ports

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/shopspring/decimal"

	"github.com/lamunshop/storefront-api/internal/domains/checkout/application/types"
	"github.com/lamunshop/storefront-api/internal/domains/checkout/domain"
)

var ErrNotFound = errors.New("order not found")

// OrderRepository persists orders. PlaceOrder is the all-or-nothing unit:
// coupon usage reservation, order plus items, and conditional stock
// decrements either all commit or none do.
type OrderRepository interface {
	// PlaceOrder may fail with domain.ErrCouponExhausted when the coupon
	// reservation loses to a concurrent placement, or with a
	// *StockConflictError when a conditional stock decrement hits zero rows.
	PlaceOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, customerID, orderID int64) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error)
	// UpdateSlip persists a slip reference attached after creation together
	// with the status advance computed by the aggregate.
	UpdateSlip(ctx context.Context, order *domain.Order) (*domain.Order, error)
}

// StockConflictError reports the product whose conditional decrement failed
// inside the transaction.
type StockConflictError struct {
	ProductID int64
}

func (e *StockConflictError) Error() string {
	return "insufficient stock for product"
}

// CouponRepository resolves coupon codes for the pre-transaction check. The
// usage-count reservation itself happens inside OrderRepository.PlaceOrder.
type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

// CatalogProduct is the checkout-local view of a product: just what pricing
// and stock validation need.
type CatalogProduct struct {
	ID        int64
	Names     map[string]string
	UnitPrice decimal.Decimal
	Stock     int
}

// ProductGateway loads authoritative product records from the catalog
// context.
type ProductGateway interface {
	// Product returns ErrProductUnknown when no record exists for the id.
	Product(ctx context.Context, id int64) (*CatalogProduct, error)
}

// ErrProductUnknown is returned by ProductGateway for an id with no record.
var ErrProductUnknown = errors.New("unknown product")

// GeoResolver maps a province/city name to coordinates. The bool is false
// for names outside the known table.
type GeoResolver interface {
	Locate(name string) (domain.Coordinates, bool)
}

// SlipStore persists an uploaded payment-proof image and returns its public
// reference path.
type SlipStore interface {
	SaveUpload(fh *multipart.FileHeader) (string, error)
}

// Service exposes checkout use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, cmd types.PlaceOrderCommand) (*domain.Order, error)
	GetOrder(ctx context.Context, customerID, orderID int64) (*domain.Order, error)
	ListOrders(ctx context.Context, customerID int64) ([]*domain.Order, error)
	AttachSlip(ctx context.Context, customerID, orderID int64, slipPath string) (*domain.Order, error)
}
