package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lamunshop/storefront-api/internal/shared/locale"
)

var (
	ErrEmptyName     = errors.New("product name is required in at least one locale")
	ErrInvalidPrice  = errors.New("product price must be greater than zero")
	ErrNegativeSale  = errors.New("sale price must not be negative")
	ErrNegativeStock = errors.New("stock must not be negative")
)

// Product is the catalog aggregate consumed by the storefront and by order
// placement. Names and Descriptions are keyed by primary locale subtag.
type Product struct {
	ID           int64
	Names        map[string]string
	Descriptions map[string]string
	Images       []string
	Price        decimal.Decimal
	SalePrice    *decimal.Decimal
	Stock        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewProduct validates the invariants and builds a new Product aggregate.
func NewProduct(id int64, names map[string]string, price decimal.Decimal, stock int) (*Product, error) {
	p := &Product{ID: id, Names: names, Price: price, Stock: stock}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate enforces invariants on the aggregate.
func (p *Product) Validate() error {
	if !hasText(p.Names) {
		return ErrEmptyName
	}
	if p.Price.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidPrice
	}
	if p.SalePrice != nil && p.SalePrice.IsNegative() {
		return ErrNegativeSale
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// UnitPrice is the authoritative selling price: the sale price when one is
// set, the live price otherwise. Order placement always charges this value.
func (p *Product) UnitPrice() decimal.Decimal {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// Name resolves the display name for the requested locale.
func (p *Product) Name(requested, fallback string) string {
	return locale.Resolve(p.Names, requested, fallback)
}

func hasText(texts map[string]string) bool {
	for _, text := range texts {
		if text != "" {
			return true
		}
	}
	return false
}
