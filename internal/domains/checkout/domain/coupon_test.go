package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCouponValidate(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	limit := 5

	fresh := &Coupon{Code: "SAVE10", Type: DiscountPercentage, Value: decimal.NewFromInt(10), ExpiresAt: &future, UsageLimit: &limit, UsedCount: 4}
	assert.NoError(t, fresh.Validate(now))

	expired := &Coupon{Code: "OLD", ExpiresAt: &past}
	assert.ErrorIs(t, expired.Validate(now), ErrCouponExpired)

	exhausted := &Coupon{Code: "GONE", UsageLimit: &limit, UsedCount: 5}
	assert.ErrorIs(t, exhausted.Validate(now), ErrCouponExhausted)

	unlimited := &Coupon{Code: "FOREVER", UsedCount: 100000}
	assert.NoError(t, unlimited.Validate(now))
}

func TestCouponDiscount(t *testing.T) {
	subtotal := decimal.NewFromInt(300)

	percent := &Coupon{Type: DiscountPercentage, Value: decimal.NewFromInt(10)}
	assert.True(t, percent.Discount(subtotal).Equal(decimal.NewFromInt(30)))

	absolute := &Coupon{Type: DiscountAbsolute, Value: decimal.NewFromInt(50)}
	assert.True(t, absolute.Discount(subtotal).Equal(decimal.NewFromInt(50)))

	// discount never exceeds the subtotal
	oversized := &Coupon{Type: DiscountAbsolute, Value: decimal.NewFromInt(500)}
	assert.True(t, oversized.Discount(subtotal).Equal(subtotal))

	negative := &Coupon{Type: DiscountAbsolute, Value: decimal.NewFromInt(-10)}
	assert.True(t, negative.Discount(subtotal).Equal(decimal.Zero))

	halfSatang := &Coupon{Type: DiscountPercentage, Value: decimal.NewFromFloat(7.5)}
	assert.Equal(t, "22.5", halfSatang.Discount(subtotal).String())
}
