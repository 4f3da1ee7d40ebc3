package inventory

import (
	"math"
	"strings"

	"lendscope.cityoforlando.net/internal/models"
)

// Category is a reporting bucket for a device type.
type Category string

const (
	CategoryLaptop       Category = "laptop"
	CategoryTablet       Category = "tablet"
	CategoryHotspot      Category = "hotspot"
	CategoryUnclassified Category = "unclassified"
)

// UnknownLocation is the bucket name for devices whose location record is
// missing or has an empty name.
const UnknownLocation = "Unknown Location"

// availableStatusID is the backend's status ID for a device that can be
// checked out. It is the sole availability predicate and must match the
// status taxonomy exactly.
const availableStatusID = 1

// Classify returns the reporting category of a device based on a
// case-insensitive substring match against its type name, checking for
// "laptop", "tablet" and "hotspot" in that order. Devices matching none of
// the tokens are CategoryUnclassified; they are counted in no bucket but
// never cause an error.
//
// Note that aggregation uses categories (plural): a type name containing
// more than one token is counted under each match. See Categories.
func Classify(device models.Device) Category {
	cats := Categories(device)
	if len(cats) == 0 {
		return CategoryUnclassified
	}
	return cats[0]
}

// Categories returns every category whose token the device's type name
// contains. This is the inherited counting policy: a name like
// "Laptop/Tablet Hybrid" lands in both buckets.
func Categories(device models.Device) []Category {
	name := strings.ToLower(device.TypeName())
	if name == "" {
		return nil
	}
	var cats []Category
	for _, cat := range []Category{CategoryLaptop, CategoryTablet, CategoryHotspot} {
		if strings.Contains(name, string(cat)) {
			cats = append(cats, cat)
		}
	}
	return cats
}

// IsAvailable reports whether a device can currently be checked out.
func IsAvailable(device models.Device) bool {
	return device.Status != nil && device.Status.DeviceStatusID == availableStatusID
}

// AggregateByCenter transforms a flat device list into one inventory row
// per center, grouped by the device's location name. Devices without a
// location name fall into the UnknownLocation bucket. Rows appear in
// first-seen order of center names; the input is never mutated and the
// result is deterministic for a given device list.
func AggregateByCenter(devices []models.Device) []models.CenterInventory {
	rowsByName := make(map[string]*models.CenterInventory)
	var order []string

	for _, device := range devices {
		name := UnknownLocation
		if device.Location != nil && device.Location.LocationName != "" {
			name = device.Location.LocationName
		}

		row, ok := rowsByName[name]
		if !ok {
			row = &models.CenterInventory{CenterName: name}
			rowsByName[name] = row
			order = append(order, name)
		}

		available := IsAvailable(device)
		for _, cat := range Categories(device) {
			bucket := bucketFor(row, cat)
			bucket.Total++
			if available {
				bucket.Available++
			}
		}
	}

	rows := make([]models.CenterInventory, 0, len(order))
	for _, name := range order {
		row := rowsByName[name]
		row.Laptops.Percentage = Percentage(row.Laptops.Available, row.Laptops.Total)
		row.Tablets.Percentage = Percentage(row.Tablets.Available, row.Tablets.Total)
		row.Hotspots.Percentage = Percentage(row.Hotspots.Available, row.Hotspots.Total)
		rows = append(rows, *row)
	}
	return rows
}

func bucketFor(row *models.CenterInventory, cat Category) *models.Bucket {
	switch cat {
	case CategoryLaptop:
		return &row.Laptops
	case CategoryTablet:
		return &row.Tablets
	default:
		return &row.Hotspots
	}
}

// ComputeTotals sums available/total per category across all centers and
// derives the combined bucket spanning every category.
func ComputeTotals(rows []models.CenterInventory) models.Totals {
	var totals models.Totals
	for _, row := range rows {
		totals.Laptops.Available += row.Laptops.Available
		totals.Laptops.Total += row.Laptops.Total
		totals.Tablets.Available += row.Tablets.Available
		totals.Tablets.Total += row.Tablets.Total
		totals.Hotspots.Available += row.Hotspots.Available
		totals.Hotspots.Total += row.Hotspots.Total
	}

	totals.TotalDevices.Available = totals.Laptops.Available + totals.Tablets.Available + totals.Hotspots.Available
	totals.TotalDevices.Total = totals.Laptops.Total + totals.Tablets.Total + totals.Hotspots.Total

	totals.Laptops.Percentage = Percentage(totals.Laptops.Available, totals.Laptops.Total)
	totals.Tablets.Percentage = Percentage(totals.Tablets.Available, totals.Tablets.Total)
	totals.Hotspots.Percentage = Percentage(totals.Hotspots.Available, totals.Hotspots.Total)
	totals.TotalDevices.Percentage = Percentage(totals.TotalDevices.Available, totals.TotalDevices.Total)

	return totals
}

// CenterTotal combines a row's category buckets into a single bucket, as
// shown in the availability table's per-center total column.
func CenterTotal(row models.CenterInventory) models.Bucket {
	available := row.Laptops.Available + row.Tablets.Available + row.Hotspots.Available
	total := row.Laptops.Total + row.Tablets.Total + row.Hotspots.Total
	return models.Bucket{
		Available:  available,
		Total:      total,
		Percentage: Percentage(available, total),
	}
}

// Percentage returns round(available/total*100), or 0 when total is 0.
func Percentage(available, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(available) / float64(total) * 100))
}
