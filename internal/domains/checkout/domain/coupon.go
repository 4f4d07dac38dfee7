package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType tells how a coupon's value applies to the subtotal.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountAbsolute   DiscountType = "absolute"
)

var (
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponExpired   = errors.New("coupon has expired")
	ErrCouponExhausted = errors.New("coupon usage limit reached")
)

// Coupon is the discount aggregate. UsedCount only ever increases, and when
// UsageLimit is set it never exceeds it; the reservation that guarantees this
// is a conditional update inside the order transaction, not a read-then-write.
type Coupon struct {
	ID         int64
	Code       string
	Type       DiscountType
	Value      decimal.Decimal
	ExpiresAt  *time.Time
	UsageLimit *int
	UsedCount  int
}

// Validate checks expiry and the usage limit against the given clock. A pass
// here is only advisory: the transaction re-checks the limit via CAS.
func (c *Coupon) Validate(now time.Time) error {
	if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
		return ErrCouponExpired
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return ErrCouponExhausted
	}
	return nil
}

// Discount computes the amount taken off the subtotal, clamped so the
// discount never exceeds the subtotal.
func (c *Coupon) Discount(subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch c.Type {
	case DiscountPercentage:
		discount = subtotal.Mul(c.Value).Div(decimal.NewFromInt(100)).Round(2)
	default:
		discount = c.Value
	}
	if discount.GreaterThan(subtotal) {
		return subtotal
	}
	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount
}
