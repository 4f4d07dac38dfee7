package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDistanceTier(t *testing.T) {
	cases := []struct {
		km        float64
		tier      Tier
		surcharge int64
	}{
		{-5, TierNear, 0},
		{0, TierNear, 0},
		{149, TierNear, 0},
		{150, TierNear, 0},
		{151, TierMedium, 10},
		{400, TierMedium, 10},
		{401, TierFar, 20},
		{1200, TierFar, 20},
	}
	for _, tc := range cases {
		tier, surcharge := DistanceTier(tc.km)
		assert.Equal(t, tc.tier, tier, "km=%v", tc.km)
		assert.True(t, surcharge.Equal(decimal.NewFromInt(tc.surcharge)), "km=%v", tc.km)
	}
}

func TestDeliveryFee(t *testing.T) {
	assert.True(t, DeliveryFee(0, DefaultBaseFee).Equal(decimal.NewFromInt(20)))
	assert.True(t, DeliveryFee(200, DefaultBaseFee).Equal(decimal.NewFromInt(30)))
	assert.True(t, DeliveryFee(500, DefaultBaseFee).Equal(decimal.NewFromInt(40)))
}

func TestHaversineKm(t *testing.T) {
	bangkok := Coordinates{Lat: 13.7563, Lng: 100.5018}
	chiangmai := Coordinates{Lat: 18.7883, Lng: 98.9853}

	assert.Zero(t, HaversineKm(bangkok, bangkok))

	km := HaversineKm(bangkok, chiangmai)
	// straight-line Bangkok to Chiang Mai is roughly 580 km
	assert.InDelta(t, 580, km, 15)
	assert.InDelta(t, km, HaversineKm(chiangmai, bangkok), 1e-9)
}
