package app

import (
	"encoding/json"
	"net/http"
	"net/url"

	"lendscope.cityoforlando.net/internal/geo"
	"lendscope.cityoforlando.net/internal/inventory"
	"lendscope.cityoforlando.net/internal/metrics"
	"lendscope.cityoforlando.net/internal/models"
)

// HealthStatus is the JSON body of /v1/healthcheck. Ready reports whether
// the first center snapshot has been loaded; until then the data endpoints
// answer 503.
type HealthStatus struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Version     string `json:"version"`
	Centers     int    `json:"centers"`
	Ready       bool   `json:"ready"`
}

func (app *Application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	centers, ready := app.Lending.Centers.Get()

	status := HealthStatus{
		Status:      "available",
		Environment: app.ConfigService.Config.Env,
		Version:     app.Version,
		Centers:     len(centers),
		Ready:       ready,
	}

	w.Header().Set("Content-Type", "application/json")
	if !ready {
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(status)
}

// nearestCenter is one row of the /v1/centers/nearest response.
// DistanceMiles is omitted when the distance is unknown (either endpoint of
// the pair has no coordinate); the row still appears, after all rows with a
// known distance.
type nearestCenter struct {
	Rank          int      `json:"rank"`
	LocationID    int      `json:"locationId"`
	LocationName  string   `json:"locationName"`
	Address       string   `json:"address,omitempty"`
	ContactNumber string   `json:"contactNumber,omitempty"`
	DistanceMiles *float64 `json:"distanceMiles,omitempty"`
	MapsURL       string   `json:"mapsUrl,omitempty"`
}

type nearestCentersResponse struct {
	Query    string          `json:"query"`
	Resolved bool            `json:"resolved"`
	Fallback bool            `json:"fallback"`
	Centers  []nearestCenter `json:"centers"`
}

// nearestCentersHandler ranks every lending center by distance from the
// address in the "address" query parameter.
//
// When the address cannot be geocoded the configured fallback coordinate
// (typically the city center) is used instead and the response is marked
// fallback=true. With no address at all, and with no fallback configured,
// centers come back in alphabetical order with no distances.
func (app *Application) nearestCentersHandler(w http.ResponseWriter, r *http.Request) {
	centers, loaded := app.Lending.CentersWithCoords()
	if !loaded {
		app.loadingResponse(w)
		return
	}

	program := app.ConfigService.Config.GetProgram()
	address := r.URL.Query().Get("address")

	var userCoords *models.Coordinate
	resolved := false
	fallback := false

	if address != "" {
		coords, ok := app.Resolver.Client.GeocodeAddress(r.Context(), address)
		if ok {
			resolved = true
			userCoords = &coords
			if program.ServiceArea != nil && !program.ServiceArea.Contains(coords.Lat, coords.Lng) {
				metrics.GeocodeOutOfArea.Inc()
				app.Logger.Info("geocoded address is outside the service area", "lat", coords.Lat, "lng", coords.Lng)
			}
		} else if fb := program.FallbackCoordinate(); fb != nil {
			fallback = true
			userCoords = fb
		}
	}

	ranked := geo.RankCenters(centers, userCoords)

	rows := make([]nearestCenter, 0, len(ranked))
	for i, rc := range ranked {
		row := nearestCenter{
			Rank:          i + 1,
			LocationID:    rc.Center.LocationID,
			LocationName:  rc.Center.LocationName,
			Address:       rc.Center.FullAddress(),
			ContactNumber: rc.Center.ContactNumber,
			MapsURL:       mapsURL(rc.Center),
		}
		if geo.IsFiniteDistance(rc.DistanceMiles) {
			d := rc.DistanceMiles
			row.DistanceMiles = &d
		}
		rows = append(rows, row)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(nearestCentersResponse{
		Query:    address,
		Resolved: resolved,
		Fallback: fallback,
		Centers:  rows,
	})
}

// inventoryRow extends the per-center summary with a combined bucket across
// all three categories.
type inventoryRow struct {
	models.CenterInventory
	Total models.Bucket `json:"total"`
}

type inventoryResponse struct {
	Centers []inventoryRow `json:"centers"`
	Totals  models.Totals  `json:"totals"`
}

func (app *Application) inventoryHandler(w http.ResponseWriter, r *http.Request) {
	devices, loaded := app.Lending.Devices.Get()
	if !loaded {
		app.loadingResponse(w)
		return
	}

	summary := inventory.AggregateByCenter(devices)
	rows := make([]inventoryRow, 0, len(summary))
	for _, row := range summary {
		rows = append(rows, inventoryRow{
			CenterInventory: row,
			Total:           inventory.CenterTotal(row),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(inventoryResponse{
		Centers: rows,
		Totals:  inventory.ComputeTotals(summary),
	})
}

func (app *Application) statsHandler(w http.ResponseWriter, r *http.Request) {
	devices, loaded := app.Lending.Devices.Get()
	if !loaded {
		app.loadingResponse(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(inventory.ComputeUsageStats(devices))
}

// deviceRow is one row of the /v1/devices response, flattening the nested
// backend records into display fields.
type deviceRow struct {
	DeviceID     int    `json:"deviceId"`
	SerialNumber string `json:"serialNumber,omitempty"`
	Type         string `json:"type,omitempty"`
	Status       string `json:"status,omitempty"`
	Center       string `json:"center"`
}

type devicesResponse struct {
	Center  string      `json:"center"`
	Status  string      `json:"status"`
	Devices []deviceRow `json:"devices"`
}

// devicesHandler lists the device inventory, optionally narrowed by the
// "center" and "status" query parameters. An empty or "All" value leaves
// that dimension unfiltered; matching is on the exact display name.
func (app *Application) devicesHandler(w http.ResponseWriter, r *http.Request) {
	devices, loaded := app.Lending.Devices.Get()
	if !loaded {
		app.loadingResponse(w)
		return
	}

	centerFilter := filterValue(r.URL.Query().Get("center"))
	statusFilter := filterValue(r.URL.Query().Get("status"))

	rows := make([]deviceRow, 0, len(devices))
	for _, d := range devices {
		center := inventory.UnknownLocation
		if d.Location != nil && d.Location.LocationName != "" {
			center = d.Location.LocationName
		}
		if centerFilter != filterAll && center != centerFilter {
			continue
		}
		if statusFilter != filterAll && d.StatusName() != statusFilter {
			continue
		}
		rows = append(rows, deviceRow{
			DeviceID:     d.DeviceID,
			SerialNumber: d.SerialNumber,
			Type:         d.TypeName(),
			Status:       d.StatusName(),
			Center:       center,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(devicesResponse{
		Center:  centerFilter,
		Status:  statusFilter,
		Devices: rows,
	})
}

const filterAll = "All"

func filterValue(v string) string {
	if v == "" {
		return filterAll
	}
	return v
}

// loadingResponse answers 503 while the first backend snapshot is still
// being fetched, so clients can tell "starting up" from "empty".
func (app *Application) loadingResponse(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	json.NewEncoder(w).Encode(map[string]string{
		"error": "lending data is still loading, try again shortly",
	})
}

// mapsURL builds a Google Maps search link for a center, preferring the
// street address and falling back to the center name.
func mapsURL(c models.Center) string {
	query := c.FullAddress()
	if query == "" {
		query = c.LocationName
	}
	if query == "" {
		return ""
	}
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(query)
}
