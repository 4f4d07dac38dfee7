package mapper

import (
	"time"

	"github.com/lamunshop/storefront-api/internal/domains/checkout/domain"
	"github.com/lamunshop/storefront-api/internal/shared/locale"
)

// Order is the transport-layer order shape. Money travels as fixed-point
// strings plus a locale-formatted rendering; dates are formatted for the
// locale the order was placed under.
type Order struct {
	ID             int64       `json:"id"`
	OrderNumber    string      `json:"orderNumber"`
	Status         string      `json:"status"`
	PaymentMethod  string      `json:"paymentMethod"`
	Address        Address     `json:"address"`
	Items          []OrderItem `json:"items"`
	Subtotal       string      `json:"subtotal"`
	Discount       string      `json:"discount"`
	Total          string      `json:"total"`
	TotalFormatted string      `json:"totalFormatted"`
	CouponCode     string      `json:"couponCode,omitempty"`
	Delivery       Delivery    `json:"delivery"`
	SlipURL        string      `json:"slipUrl,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	CreatedAtLocal string      `json:"createdAtLocal"`
}

type Address struct {
	Recipient  string `json:"recipient"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	Line3      string `json:"line3,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country"`
}

type OrderItem struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	Subtotal  string `json:"subtotal"`
}

type Delivery struct {
	DistanceKm float64 `json:"distanceKm"`
	Tier       string  `json:"tier,omitempty"`
	Fee        string  `json:"fee"`
}

// FromOrder renders a placed order for transport. productNames carries the
// already locale-resolved name per product id; lines whose product has since
// disappeared fall back to the placeholder.
func FromOrder(order *domain.Order, productNames map[int64]string) Order {
	if order == nil {
		return Order{}
	}
	out := Order{
		ID:            order.ID,
		OrderNumber:   order.Number,
		Status:        string(order.Status),
		PaymentMethod: string(order.PaymentMethod),
		Address: Address{
			Recipient:  order.Address.Recipient,
			Line1:      order.Address.Line1,
			Line2:      order.Address.Line2,
			Line3:      order.Address.Line3,
			City:       order.Address.City,
			PostalCode: order.Address.PostalCode,
			Country:    order.Address.Country,
		},
		Subtotal:       order.Subtotal.StringFixed(2),
		Discount:       order.Discount.StringFixed(2),
		Total:          order.Total.StringFixed(2),
		TotalFormatted: locale.FormatAmount(order.Total, order.Locale),
		CouponCode:     order.CouponCode,
		Delivery: Delivery{
			DistanceKm: order.Delivery.DistanceKm,
			Tier:       order.Delivery.Tier,
			Fee:        order.Delivery.Fee.StringFixed(2),
		},
		SlipURL:        order.SlipPath,
		CreatedAt:      order.CreatedAt,
		CreatedAtLocal: locale.FormatDate(order.CreatedAt, order.Locale),
	}
	for _, item := range order.Items {
		name, ok := productNames[item.ProductID]
		if !ok {
			name = locale.Placeholder
		}
		out.Items = append(out.Items, OrderItem{
			ProductID: item.ProductID,
			Name:      name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Subtotal:  item.Subtotal().StringFixed(2),
		})
	}
	return out
}

// FromOrderList renders an order history listing. productNames is invoked per
// order because each order freezes its own locale: a product shared by two
// orders may need two different display names.
func FromOrderList(orders []*domain.Order, productNames func(*domain.Order) map[int64]string) []Order {
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, FromOrder(order, productNames(order)))
	}
	return out
}
