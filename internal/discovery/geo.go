// Package discovery - geo.go
// Coordinate math and formatting. Distances are always computed here,
// client-side, from the user's own fix.
package discovery

import (
	"fmt"
	"math"
	"net/url"
)

// Coords is a WGS84 fix.
type Coords struct {
	Lat  float64
	Long float64
}

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance between a and b in km,
// rounded to two decimals.
func Haversine(a, b Coords) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLong := radians(b.Long - a.Long)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*
			math.Sin(dLong/2)*math.Sin(dLong/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return round2(earthRadiusKm * c)
}

func radians(deg float64) float64 { return deg * (math.Pi / 180) }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// ValidCoords reports whether the pair is a usable Earth coordinate.
func ValidCoords(lat, long float64) bool {
	if math.IsNaN(lat) || math.IsNaN(long) {
		return false
	}
	return lat >= -90 && lat <= 90 && long >= -180 && long <= 180
}

// FormatDistance renders a distance the way the shop list shows it.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%dm away", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%vkm away", round2(km))
}

// MapsURL builds a universal driving-directions link to the shop.
func MapsURL(lat, long float64, name string) string {
	u := fmt.Sprintf("https://www.google.com/maps/dir/?api=1&destination=%v,%v&travelmode=driving", lat, long)
	if name != "" {
		u += "&destination_place_id=" + url.QueryEscape(name)
	}
	return u
}
