// Package geo resolves Thai province names to coordinates for delivery
// pricing. The table covers the provinces the shop actually ships to; names
// match case-insensitively on the romanized spelling or the Thai name.
package geo

import (
	"strings"

	"github.com/lamunshop/storefront-api/internal/domains/checkout/domain"
	"github.com/lamunshop/storefront-api/internal/domains/checkout/ports"
)

var _ ports.GeoResolver = (*Resolver)(nil)

type Resolver struct {
	table map[string]domain.Coordinates
}

func NewResolver() *Resolver {
	r := &Resolver{table: map[string]domain.Coordinates{}}
	for _, p := range provinces {
		coords := domain.Coordinates{Lat: p.lat, Lng: p.lng}
		r.table[normalize(p.name)] = coords
		if p.thai != "" {
			r.table[normalize(p.thai)] = coords
		}
	}
	return r
}

func (r *Resolver) Locate(name string) (domain.Coordinates, bool) {
	coords, ok := r.table[normalize(name)]
	return coords, ok
}

func normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

type province struct {
	name string
	thai string
	lat  float64
	lng  float64
}

var provinces = []province{
	{"Bangkok", "กรุงเทพมหานคร", 13.7563, 100.5018},
	{"Nonthaburi", "นนทบุรี", 13.8622, 100.5144},
	{"Pathum Thani", "ปทุมธานี", 14.0208, 100.5250},
	{"Samut Prakan", "สมุทรปราการ", 13.5991, 100.5998},
	{"Chon Buri", "ชลบุรี", 13.3611, 100.9847},
	{"Ayutthaya", "พระนครศรีอยุธยา", 14.3692, 100.5877},
	{"Ratchaburi", "ราชบุรี", 13.5283, 99.8134},
	{"Hua Hin", "หัวหิน", 12.5684, 99.9577},
	{"Nakhon Ratchasima", "นครราชสีมา", 14.9799, 102.0978},
	{"Khon Kaen", "ขอนแก่น", 16.4322, 102.8236},
	{"Udon Thani", "อุดรธานี", 17.4064, 102.7872},
	{"Ubon Ratchathani", "อุบลราชธานี", 15.2287, 104.8564},
	{"Chiang Mai", "เชียงใหม่", 18.7883, 98.9853},
	{"Chiang Rai", "เชียงราย", 19.9105, 99.8406},
	{"Phitsanulok", "พิษณุโลก", 16.8211, 100.2659},
	{"Nakhon Sawan", "นครสวรรค์", 15.7047, 100.1372},
	{"Surat Thani", "สุราษฎร์ธานี", 9.1382, 99.3215},
	{"Phuket", "ภูเก็ต", 7.8804, 98.3923},
	{"Krabi", "กระบี่", 8.0863, 98.9063},
	{"Songkhla", "สงขลา", 7.1756, 100.6142},
	{"Hat Yai", "หาดใหญ่", 7.0086, 100.4747},
}
