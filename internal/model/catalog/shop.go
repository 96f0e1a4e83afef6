package catalog

import (
	"math"
	"sort"
)

const earthRadiusKM = 6371.0

// Shop is a physical store shown by the store locator.
type Shop struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Brand   string  `json:"brand"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	IsOpen  bool    `json:"isOpen"`
	Rating  float64 `json:"rating"`
}

// ShopDistance pairs a shop with its distance from the caller.
type ShopDistance struct {
	Shop
	KM float64 `json:"km"`
}

// SeedShops provides the store locator's demo data.
func SeedShops() []Shop {
	return []Shop{
		{ID: 1, Name: "Levi's Official Store", Brand: "Levi's", Address: "123 Fashion Ave, Downtown", Lat: 40.7128, Lng: -74.0060, IsOpen: true, Rating: 4.8},
		{ID: 2, Name: "H&M City Center", Brand: "H&M", Address: "456 Market St, Westside", Lat: 40.7300, Lng: -73.9950, IsOpen: true, Rating: 4.2},
		{ID: 3, Name: "Zara Flagship", Brand: "Zara", Address: "789 Broadway, SoHo", Lat: 40.7200, Lng: -74.0000, IsOpen: false, Rating: 4.6},
		{ID: 4, Name: "Nike Town", Brand: "Nike", Address: "5th Avenue, Midtown", Lat: 40.7600, Lng: -73.9700, IsOpen: true, Rating: 4.9},
		{ID: 5, Name: "Uniqlo", Brand: "Uniqlo", Address: "34th St, Herald Square", Lat: 40.7500, Lng: -73.9900, IsOpen: true, Rating: 4.7},
	}
}

// Nearest orders shops by great-circle distance from (lat, lng).
// A non-positive limit returns every shop.
func Nearest(shops []Shop, lat, lng float64, limit int) []ShopDistance {
	out := make([]ShopDistance, 0, len(shops))
	for _, shop := range shops {
		out = append(out, ShopDistance{Shop: shop, KM: haversine(lat, lng, shop.Lat, shop.Lng)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].KM < out[j].KM
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func haversine(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
