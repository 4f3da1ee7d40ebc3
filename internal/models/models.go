package models

import "strings"

// Coordinate is an immutable latitude/longitude pair in degrees.
// Valid latitudes are in [-90, 90] and longitudes in [-180, 180].
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Center represents a physical neighborhood location that lends devices.
// It mirrors the record returned by the lending backend's /api/locations
// endpoint. Coords is nil until the center's street address has been
// geocoded (or the backend pre-populated it); it is attached by replacing
// the Center value, never by mutating a shared one.
type Center struct {
	LocationID    int         `json:"locationId"`
	LocationName  string      `json:"locationName"`
	StreetAddress string      `json:"streetAddress,omitempty"`
	City          string      `json:"city,omitempty"`
	State         string      `json:"state,omitempty"`
	ZipCode       string      `json:"zipCode,omitempty"`
	ContactNumber string      `json:"contactNumber,omitempty"`
	Coords        *Coordinate `json:"coords,omitempty"`
}

// FullAddress joins the street, city, state and zip fields with ", ",
// dropping any empty parts. The result is used both as the geocoding
// query and for display.
func (c Center) FullAddress() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{c.StreetAddress, c.City, c.State, c.ZipCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// RankedCenter is a center annotated with its distance from a user
// coordinate. DistanceMiles is NaN when either the user coordinate or the
// center coordinate is unknown. RankedCenter values are ephemeral and
// never persisted.
type RankedCenter struct {
	Center        Center
	DistanceMiles float64
}

// DeviceType is the nested type record of a device.
type DeviceType struct {
	DeviceTypeName string `json:"deviceTypeName"`
}

// DeviceStatus is the nested status record of a device.
// DeviceStatusID 1 is the "available" sentinel of the backend's status
// taxonomy.
type DeviceStatus struct {
	DeviceStatusID   int    `json:"deviceStatusId"`
	DeviceStatusName string `json:"deviceStatusName,omitempty"`
}

// DeviceLocation is the nested location record of a device.
type DeviceLocation struct {
	LocationName string `json:"locationName"`
}

// Device mirrors the record returned by the lending backend's /api/devices
// endpoint. The nested records are pointers because the backend may omit
// them; missing fields are treated as absent, not as errors.
type Device struct {
	DeviceID     int             `json:"deviceId"`
	SerialNumber string          `json:"serialNumber,omitempty"`
	Type         *DeviceType     `json:"type"`
	Status       *DeviceStatus   `json:"status"`
	Location     *DeviceLocation `json:"location"`
}

// TypeName returns the device's type name, or "" when the nested record is
// missing.
func (d Device) TypeName() string {
	if d.Type == nil {
		return ""
	}
	return d.Type.DeviceTypeName
}

// StatusName returns the device's status name, or "" when the nested
// record is missing.
func (d Device) StatusName() string {
	if d.Status == nil {
		return ""
	}
	return d.Status.DeviceStatusName
}

// Bucket is an available/total pair with its derived percentage.
// Percentage is round(available/total*100), or 0 when total is 0, so it is
// always an integer in [0, 100].
type Bucket struct {
	Available  int `json:"available"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// CenterInventory is one row of the per-center availability summary:
// available/total counts for each device category at a single center.
type CenterInventory struct {
	CenterName string `json:"centerName"`
	Laptops    Bucket `json:"laptops"`
	Tablets    Bucket `json:"tablets"`
	Hotspots   Bucket `json:"hotspots"`
}

// Totals aggregates the same buckets across all centers, plus a combined
// bucket summing every category.
type Totals struct {
	Laptops      Bucket `json:"laptops"`
	Tablets      Bucket `json:"tablets"`
	Hotspots     Bucket `json:"hotspots"`
	TotalDevices Bucket `json:"totalDevices"`
}
