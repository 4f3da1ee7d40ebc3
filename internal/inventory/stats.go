package inventory

import "lendscope.cityoforlando.net/internal/models"

// PieChart holds the fleet-wide availability split as integer percentages
// that always sum to 100 (both zero when the fleet is empty).
type PieChart struct {
	Available   int `json:"available"`
	Unavailable int `json:"unavailable"`
}

// BarChart holds the total device count per category.
type BarChart struct {
	Laptops  int `json:"laptops"`
	Hotspots int `json:"hotspots"`
	Tablets  int `json:"tablets"`
}

// UsageStats is the payload behind the usage-statistics dashboard.
type UsageStats struct {
	PieChart PieChart `json:"pieChart"`
	BarChart BarChart `json:"barChart"`
}

// ComputeUsageStats derives the dashboard statistics from a flat device
// list: the availability split across the whole fleet and the per-category
// totals. Category counts follow the same substring policy as
// AggregateByCenter.
func ComputeUsageStats(devices []models.Device) UsageStats {
	var stats UsageStats
	available := 0
	for _, device := range devices {
		if IsAvailable(device) {
			available++
		}
		for _, cat := range Categories(device) {
			switch cat {
			case CategoryLaptop:
				stats.BarChart.Laptops++
			case CategoryTablet:
				stats.BarChart.Tablets++
			case CategoryHotspot:
				stats.BarChart.Hotspots++
			}
		}
	}
	if len(devices) > 0 {
		stats.PieChart.Available = Percentage(available, len(devices))
		stats.PieChart.Unavailable = 100 - stats.PieChart.Available
	}
	return stats
}
