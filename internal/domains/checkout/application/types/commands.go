// Package types carries the use-case inputs shared between the checkout
// ports and the application service.
package types

import (
	"fmt"
	"strings"

	"github.com/lamunshop/storefront-api/internal/domains/checkout/domain"
)

// ValidationError names the request field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s is required", e.Field)
}

// ItemInput is one requested line: the product and how many. Any
// client-supplied price is dropped before it gets here.
type ItemInput struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// PlaceOrderCommand is the canonical place-order request, produced by the
// HTTP layer from either wire shape before any business logic runs.
type PlaceOrderCommand struct {
	CustomerID    int64
	Locale        string
	Recipient     string
	Line1         string
	Line2         string
	Line3         string
	City          string
	PostalCode    string
	Country       string
	PaymentMethod string
	Items         []ItemInput
	CouponCode    string

	// Delivery inputs: resolved province names when the client supplied
	// them, plus the client-declared fee used only when coordinates cannot
	// be resolved server-side.
	OriginProvince      string
	DestinationProvince string
	DeclaredDeliveryFee *float64

	// SlipPath is set by the transport after persisting an uploaded slip,
	// or taken verbatim from a pre-existing slip URL.
	SlipPath string
}

// Validate checks required fields and the payment method against the closed
// set. Item contents are checked per entry so errors can name the field.
func (c *PlaceOrderCommand) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"recipient", c.Recipient},
		{"line1", c.Line1},
		{"city", c.City},
		{"country", c.Country},
		{"paymentMethod", c.PaymentMethod},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field}
		}
	}
	if !domain.ValidPaymentMethod(domain.PaymentMethod(c.PaymentMethod)) {
		return &ValidationError{Field: "paymentMethod", Reason: "must be one of bank_transfer, credit_card, cod"}
	}
	if len(c.Items) == 0 {
		return &ValidationError{Field: "items", Reason: "must not be empty"}
	}
	for _, item := range c.Items {
		if item.ProductID <= 0 {
			return &ValidationError{Field: "items", Reason: "entries must carry a productId"}
		}
		if item.Quantity < 1 {
			return &ValidationError{Field: "items", Reason: "quantities must be at least 1"}
		}
	}
	return nil
}
