package geo

import (
	"fmt"
	"math"

	"lendscope.cityoforlando.net/internal/models"
)

// earthRadiusMiles is the Earth radius used for great-circle distances.
//
// 3958.8 miles is the volumetric mean radius of the Earth, the value the
// program has always used for "miles away" figures shown to citizens.
const earthRadiusMiles = 3958.8

// ToRadians converts degrees to radians.
func ToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// HaversineDistanceMiles returns the great-circle distance in miles between
// two coordinates, computed with the haversine formula.
//
// The result is symmetric, zero (within floating tolerance) iff the
// coordinates are equal, and always finite and non-negative for valid
// coordinates.
func HaversineDistanceMiles(a, b models.Coordinate) float64 {
	dLat := ToRadians(b.Lat - a.Lat)
	dLng := ToRadians(b.Lng - a.Lng)
	lat1 := ToRadians(a.Lat)
	lat2 := ToRadians(b.Lat)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}

// IsValidLatLng returns true if the given latitude and longitude values
// fall within the valid geographic coordinate bounds.
//
// Latitude must be between -90 and 90 degrees, and longitude must be
// between -180 and 180 degrees.
//
// Note: the coordinate (0,0) is treated as invalid, even though it is a
// real location in the Gulf of Guinea. Uninitialized or placeholder
// coordinates are commonly represented as (0,0), and no lending center or
// citizen address is anywhere near it.
func IsValidLatLng(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	if lat == 0 && lng == 0 {
		return false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return false
	}
	return true
}

// BoundingBox defines the corners of a lat/lng box.
type BoundingBox struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLng float64 `json:"minLng"`
	MaxLng float64 `json:"maxLng"`
}

// Contains checks whether the given latitude and longitude are within the
// bounding box.
func (b *BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// ComputeBoundingBox computes the bounding box of all centers that have a
// known coordinate. It is used as a sanity envelope for geocoding results
// when the program config does not define an explicit service area.
func ComputeBoundingBox(centers []models.Center) (BoundingBox, error) {
	minLat := math.MaxFloat64
	maxLat := -math.MaxFloat64
	minLng := math.MaxFloat64
	maxLng := -math.MaxFloat64

	for _, center := range centers {
		if center.Coords == nil {
			continue
		}
		lat := center.Coords.Lat
		lng := center.Coords.Lng
		if lat < minLat {
			minLat = lat
		}
		if lat > maxLat {
			maxLat = lat
		}
		if lng < minLng {
			minLng = lng
		}
		if lng > maxLng {
			maxLng = lng
		}
	}

	if minLat == math.MaxFloat64 || maxLat == -math.MaxFloat64 ||
		minLng == math.MaxFloat64 || maxLng == -math.MaxFloat64 {
		return BoundingBox{}, fmt.Errorf("no centers with known coordinates to compute bounding box")
	}

	return BoundingBox{
		MinLat: minLat,
		MaxLat: maxLat,
		MinLng: minLng,
		MaxLng: maxLng,
	}, nil
}
