package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// Tier is one of the discrete delivery-fee bands.
type Tier string

const (
	TierNear   Tier = "near"
	TierMedium Tier = "medium"
	TierFar    Tier = "far"
)

const earthRadiusKm = 6371.0

// DefaultBaseFee is the delivery base fee applied before the tier surcharge.
var DefaultBaseFee = decimal.NewFromInt(20)

// Coordinates is a geographic point.
type Coordinates struct {
	Lat float64
	Lng float64
}

// HaversineKm computes the great-circle distance between two points in
// kilometers.
func HaversineKm(from, to Coordinates) float64 {
	lat1 := from.Lat * math.Pi / 180
	lat2 := to.Lat * math.Pi / 180
	dLat := (to.Lat - from.Lat) * math.Pi / 180
	dLng := (to.Lng - from.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// DistanceTier maps a distance to its band and surcharge. Boundaries belong
// to the lower band: 150 km is still near, 400 km still medium. Negative
// distances clamp to zero.
func DistanceTier(km float64) (Tier, decimal.Decimal) {
	if km < 0 {
		km = 0
	}
	switch {
	case km <= 150:
		return TierNear, decimal.Zero
	case km <= 400:
		return TierMedium, decimal.NewFromInt(10)
	default:
		return TierFar, decimal.NewFromInt(20)
	}
}

// DeliveryFee prices delivery for a distance: base fee plus the tier
// surcharge, with no per-kilometer component.
func DeliveryFee(km float64, base decimal.Decimal) decimal.Decimal {
	_, surcharge := DistanceTier(km)
	return base.Add(surcharge)
}
