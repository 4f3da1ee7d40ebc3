package metrics

import (
	"lendscope.cityoforlando.net/internal/models"
)

// Category label values for the per-center inventory gauges.
const (
	CategoryLaptops  = "laptops"
	CategoryTablets  = "tablets"
	CategoryHotspots = "hotspots"
)

// reportCenterInventory publishes the per-center availability summary as
// gauges labeled by center and category. Centers that disappeared from the
// snapshot keep their last value until the process restarts; the snapshot
// is small enough that resetting the vectors is not worth the scrape gaps.
func reportCenterInventory(rows []models.CenterInventory) {
	for _, row := range rows {
		reportBucket(row.CenterName, CategoryLaptops, row.Laptops)
		reportBucket(row.CenterName, CategoryTablets, row.Tablets)
		reportBucket(row.CenterName, CategoryHotspots, row.Hotspots)
	}
}

func reportBucket(center, category string, b models.Bucket) {
	DevicesAvailable.WithLabelValues(center, category).Set(float64(b.Available))
	DevicesTotal.WithLabelValues(center, category).Set(float64(b.Total))
	AvailabilityPercent.WithLabelValues(center, category).Set(float64(b.Percentage))
}

func reportTotals(totals models.Totals, deviceCount int) {
	DevicesTracked.Set(float64(deviceCount))
	FleetAvailabilityPercent.Set(float64(totals.TotalDevices.Percentage))
}

// reportCenterClusters publishes how many centers fall into each S2 cell at
// the configured clustering level.
func reportCenterClusters(clusters map[string]int) {
	for clusterID, count := range clusters {
		CentersPerCluster.WithLabelValues(clusterID).Set(float64(count))
	}
}
