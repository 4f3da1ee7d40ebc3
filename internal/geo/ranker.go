package geo

import (
	"math"
	"sort"

	"lendscope.cityoforlando.net/internal/models"
)

// RankCenters annotates each center with its distance from userCoords and
// returns a freshly allocated, ordered sequence. The input slice is never
// mutated.
//
// Ranking policy:
//   - A distance is computed only when both userCoords and the center's
//     coordinate are present; otherwise it is NaN.
//   - With a user coordinate, centers with a finite distance come first,
//     sorted ascending (stable, so ties keep their original relative
//     order), followed by the remaining centers in their original order.
//   - Without a user coordinate, all centers are sorted alphabetically by
//     name (ordinal comparison, deterministic).
func RankCenters(centers []models.Center, userCoords *models.Coordinate) []models.RankedCenter {
	ranked := make([]models.RankedCenter, 0, len(centers))
	for _, center := range centers {
		distance := math.NaN()
		if userCoords != nil && center.Coords != nil {
			distance = HaversineDistanceMiles(*userCoords, *center.Coords)
		}
		ranked = append(ranked, models.RankedCenter{Center: center, DistanceMiles: distance})
	}

	if userCoords == nil {
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Center.LocationName < ranked[j].Center.LocationName
		})
		return ranked
	}

	withDistance := make([]models.RankedCenter, 0, len(ranked))
	withoutDistance := make([]models.RankedCenter, 0)
	for _, r := range ranked {
		if IsFiniteDistance(r.DistanceMiles) {
			withDistance = append(withDistance, r)
		} else {
			withoutDistance = append(withoutDistance, r)
		}
	}
	sort.SliceStable(withDistance, func(i, j int) bool {
		return withDistance[i].DistanceMiles < withDistance[j].DistanceMiles
	})
	return append(withDistance, withoutDistance...)
}

// IsFiniteDistance reports whether a RankedCenter distance is a usable
// finite number (i.e. both coordinates were known when it was computed).
func IsFiniteDistance(distance float64) bool {
	return !math.IsNaN(distance) && !math.IsInf(distance, 0)
}
