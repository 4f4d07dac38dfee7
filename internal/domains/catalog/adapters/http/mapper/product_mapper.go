package mapper

import (
	"github.com/lamunshop/storefront-api/internal/domains/catalog/domain"
	"github.com/lamunshop/storefront-api/internal/shared/locale"
)

// Product is the transport-layer product shape. Names arrive resolved to one
// locale; prices travel as fixed-point strings so clients never see float
// artifacts.
type Product struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Images         []string `json:"images,omitempty"`
	Price          string   `json:"price"`
	SalePrice      *string  `json:"salePrice,omitempty"`
	PriceFormatted string   `json:"priceFormatted"`
	Stock          int      `json:"stock"`
}

// FromProduct resolves localized texts and renders money for one product.
func FromProduct(product *domain.Product, requested string) Product {
	if product == nil {
		return Product{}
	}
	out := Product{
		ID:             product.ID,
		Name:           product.Name(requested, locale.Default),
		Description:    locale.Resolve(product.Descriptions, requested, locale.Default),
		Images:         product.Images,
		Price:          product.Price.StringFixed(2),
		PriceFormatted: locale.FormatAmount(product.UnitPrice(), requested),
		Stock:          product.Stock,
	}
	if out.Description == locale.Placeholder {
		out.Description = ""
	}
	if product.SalePrice != nil {
		sale := product.SalePrice.StringFixed(2)
		out.SalePrice = &sale
	}
	return out
}

// FromProductList maps a catalog listing.
func FromProductList(products []*domain.Product, requested string) []Product {
	out := make([]Product, 0, len(products))
	for _, product := range products {
		out = append(out, FromProduct(product, requested))
	}
	return out
}
