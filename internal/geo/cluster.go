package geo

import (
	"fmt"

	"github.com/golang/geo/s2"

	"lendscope.cityoforlando.net/internal/models"
)

// S2Level13 gives roughly neighborhood-sized cells (~1 km), which matches
// how densely the lending centers are spread across the city.
const S2Level13 = 13

// CellID generates a stable S2-based cluster ID for a lat/lng.
func CellID(lat, lng float64, level int) string {
	ll := s2.LatLngFromDegrees(lat, lng)
	cellID := s2.CellIDFromLatLng(ll).Parent(level)
	return fmt.Sprintf("s2_%d", uint64(cellID))
}

// ClusterCenters groups centers with known coordinates into S2 cells at the
// given level and returns the number of centers per cell ID. Centers
// without a coordinate are skipped.
func ClusterCenters(centers []models.Center, level int) map[string]int {
	clusterCount := make(map[string]int)
	for _, center := range centers {
		if center.Coords == nil {
			continue
		}
		if !IsValidLatLng(center.Coords.Lat, center.Coords.Lng) {
			continue
		}
		clusterCount[CellID(center.Coords.Lat, center.Coords.Lng, level)]++
	}
	return clusterCount
}
