package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lendscope.cityoforlando.net/internal/models"
)

func serveRequest(t *testing.T, app *Application, path string) *httptest.ResponseRecorder {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	handler := app.Routes(ctx)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthcheckHandler(t *testing.T) {
	app := newTestApplication(t, "http://unused.invalid", "http://unused.invalid")

	rr := serveRequest(t, app, "/v1/healthcheck")
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 before the first snapshot, got %d", rr.Code)
	}

	var status HealthStatus
	if err := json.NewDecoder(rr.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if status.Ready {
		t.Error("expected ready=false before the first snapshot")
	}
	if status.Version != "1.0.0" || status.Environment != "test" {
		t.Errorf("unexpected status payload: %+v", status)
	}

	app.Lending.Centers.Set([]models.Center{{LocationID: 1, LocationName: "Engelwood"}})

	rr = serveRequest(t, app, "/v1/healthcheck")
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200 once loaded, got %d", rr.Code)
	}
	if err := json.NewDecoder(rr.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !status.Ready || status.Centers != 1 {
		t.Errorf("unexpected status payload: %+v", status)
	}
}

func TestNearestCentersHandlerRanksByDistance(t *testing.T) {
	// The geocoder places the user downtown.
	geocoder := setupGeocoder(t, `[{"lat":"28.545","lon":"-81.387"}]`)
	app := newTestApplication(t, "http://unused.invalid", geocoder.URL)

	app.Lending.Centers.Set([]models.Center{
		{LocationID: 1, LocationName: "Far", StreetAddress: "1 Far St", Coords: &models.Coordinate{Lat: 28.60, Lng: -81.20}},
		{LocationID: 2, LocationName: "Near", StreetAddress: "2 Near St", Coords: &models.Coordinate{Lat: 28.546, Lng: -81.388}},
		{LocationID: 3, LocationName: "Unmapped", StreetAddress: "3 Nowhere St"},
	})

	rr := serveRequest(t, app, "/v1/centers/nearest?address=400+S+Orange+Ave")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp nearestCentersResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !resp.Resolved || resp.Fallback {
		t.Errorf("expected resolved=true fallback=false, got %+v", resp)
	}
	if len(resp.Centers) != 3 {
		t.Fatalf("expected 3 centers, got %d", len(resp.Centers))
	}
	if resp.Centers[0].LocationName != "Near" || resp.Centers[1].LocationName != "Far" {
		t.Errorf("unexpected order: %q, %q", resp.Centers[0].LocationName, resp.Centers[1].LocationName)
	}
	if resp.Centers[0].Rank != 1 || resp.Centers[1].Rank != 2 || resp.Centers[2].Rank != 3 {
		t.Error("ranks should be sequential from 1")
	}
	if resp.Centers[0].DistanceMiles == nil || resp.Centers[1].DistanceMiles == nil {
		t.Error("expected distances for mapped centers")
	}
	// The unmapped center still shows up, last and without a distance.
	if resp.Centers[2].LocationName != "Unmapped" || resp.Centers[2].DistanceMiles != nil {
		t.Errorf("unexpected trailing center: %+v", resp.Centers[2])
	}
	if resp.Centers[0].MapsURL == "" {
		t.Error("expected a maps link")
	}
}

func TestNearestCentersHandlerFallback(t *testing.T) {
	// Geocoder resolves nothing; the configured city-center fallback kicks in.
	geocoder := setupGeocoder(t, "")
	app := newTestApplication(t, "http://unused.invalid", geocoder.URL)

	app.Lending.Centers.Set([]models.Center{
		{LocationID: 1, LocationName: "Engelwood", Coords: &models.Coordinate{Lat: 28.5472, Lng: -81.3511}},
	})

	rr := serveRequest(t, app, "/v1/centers/nearest?address=gibberish+address")
	var resp nearestCentersResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Resolved {
		t.Error("expected resolved=false")
	}
	if !resp.Fallback {
		t.Error("expected fallback=true")
	}
	if resp.Centers[0].DistanceMiles == nil {
		t.Error("expected a distance from the fallback coordinate")
	}
}

func TestNearestCentersHandlerNaNGeocodeFallsBack(t *testing.T) {
	// A candidate with literal "NaN" coordinates parses but is useless;
	// it must count as unresolved so the fallback still applies.
	geocoder := setupGeocoder(t, `[{"lat":"NaN","lon":"NaN"}]`)
	app := newTestApplication(t, "http://unused.invalid", geocoder.URL)

	app.Lending.Centers.Set([]models.Center{
		{LocationID: 1, LocationName: "Engelwood", Coords: &models.Coordinate{Lat: 28.5472, Lng: -81.3511}},
	})

	rr := serveRequest(t, app, "/v1/centers/nearest?address=somewhere")
	var resp nearestCentersResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Resolved {
		t.Error("expected resolved=false for NaN candidate")
	}
	if !resp.Fallback {
		t.Error("expected fallback=true")
	}
	if resp.Centers[0].DistanceMiles == nil {
		t.Error("expected a distance from the fallback coordinate")
	}
}

func TestNearestCentersHandlerNoAddress(t *testing.T) {
	app := newTestApplication(t, "http://unused.invalid", "http://unused.invalid")

	app.Lending.Centers.Set([]models.Center{
		{LocationID: 1, LocationName: "Wadeview Park"},
		{LocationID: 2, LocationName: "Callahan"},
	})

	rr := serveRequest(t, app, "/v1/centers/nearest")
	var resp nearestCentersResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Resolved || resp.Fallback {
		t.Errorf("expected neither resolved nor fallback, got %+v", resp)
	}
	if resp.Centers[0].LocationName != "Callahan" || resp.Centers[1].LocationName != "Wadeview Park" {
		t.Errorf("expected alphabetical order, got %q then %q",
			resp.Centers[0].LocationName, resp.Centers[1].LocationName)
	}
	for _, c := range resp.Centers {
		if c.DistanceMiles != nil {
			t.Error("expected no distances without a user coordinate")
		}
	}
}

func TestNearestCentersHandlerWhileLoading(t *testing.T) {
	app := newTestApplication(t, "http://unused.invalid", "http://unused.invalid")

	rr := serveRequest(t, app, "/v1/centers/nearest?address=anywhere")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 while loading, got %d", rr.Code)
	}
}

func TestInventoryHandler(t *testing.T) {
	app := newTestApplication(t, "http://unused.invalid", "http://unused.invalid")

	app.Lending.Devices.Set([]models.Device{
		testDevice(1, "Laptop", 1, "Engelwood"),
		testDevice(2, "Laptop", 2, "Engelwood"),
		testDevice(3, "Tablet", 1, "Callahan"),
	})

	rr := serveRequest(t, app, "/v1/inventory")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp inventoryResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Centers) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(resp.Centers))
	}
	engelwood := resp.Centers[0]
	if engelwood.CenterName != "Engelwood" {
		t.Fatalf("unexpected first row: %q", engelwood.CenterName)
	}
	if engelwood.Laptops.Available != 1 || engelwood.Laptops.Total != 2 || engelwood.Laptops.Percentage != 50 {
		t.Errorf("unexpected laptops bucket: %+v", engelwood.Laptops)
	}
	if engelwood.Total.Total != 2 || engelwood.Total.Available != 1 {
		t.Errorf("unexpected per-center total: %+v", engelwood.Total)
	}
	if resp.Totals.TotalDevices.Available != 2 || resp.Totals.TotalDevices.Total != 3 || resp.Totals.TotalDevices.Percentage != 67 {
		t.Errorf("unexpected grand totals: %+v", resp.Totals.TotalDevices)
	}
}

func TestStatsHandler(t *testing.T) {
	app := newTestApplication(t, "http://unused.invalid", "http://unused.invalid")

	app.Lending.Devices.Set([]models.Device{
		testDevice(1, "Laptop", 1, "A"),
		testDevice(2, "Tablet", 2, "B"),
	})

	rr := serveRequest(t, app, "/v1/stats")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp struct {
		PieChart struct {
			Available   int `json:"available"`
			Unavailable int `json:"unavailable"`
		} `json:"pieChart"`
		BarChart struct {
			Laptops  int `json:"laptops"`
			Hotspots int `json:"hotspots"`
			Tablets  int `json:"tablets"`
		} `json:"barChart"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.PieChart.Available != 50 || resp.PieChart.Unavailable != 50 {
		t.Errorf("unexpected pie chart: %+v", resp.PieChart)
	}
	if resp.BarChart.Laptops != 1 || resp.BarChart.Tablets != 1 {
		t.Errorf("unexpected bar chart: %+v", resp.BarChart)
	}
}

func TestDevicesHandlerFilters(t *testing.T) {
	app := newTestApplication(t, "http://unused.invalid", "http://unused.invalid")

	app.Lending.Devices.Set([]models.Device{
		{DeviceID: 1, Type: &models.DeviceType{DeviceTypeName: "Laptop"},
			Status:   &models.DeviceStatus{DeviceStatusID: 1, DeviceStatusName: "Available"},
			Location: &models.DeviceLocation{LocationName: "Engelwood"}},
		{DeviceID: 2, Type: &models.DeviceType{DeviceTypeName: "Tablet"},
			Status:   &models.DeviceStatus{DeviceStatusID: 2, DeviceStatusName: "Checked Out"},
			Location: &models.DeviceLocation{LocationName: "Callahan"}},
		{DeviceID: 3},
	})

	tests := []struct {
		name     string
		path     string
		expected []int
	}{
		{"no filters", "/v1/devices", []int{1, 2, 3}},
		{"explicit All", "/v1/devices?center=All&status=All", []int{1, 2, 3}},
		{"by center", "/v1/devices?center=Engelwood", []int{1}},
		{"by status", "/v1/devices?status=Checked+Out", []int{2}},
		{"center and status", "/v1/devices?center=Callahan&status=Available", nil},
		{"unknown center", "/v1/devices?center=Nowhere", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serveRequest(t, app, tt.path)
			if rr.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rr.Code)
			}
			var resp devicesResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			var got []int
			for _, d := range resp.Devices {
				got = append(got, d.DeviceID)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Fatalf("expected %v, got %v", tt.expected, got)
				}
			}
		})
	}
}

func TestDevicesHandlerUnknownLocationBucket(t *testing.T) {
	app := newTestApplication(t, "http://unused.invalid", "http://unused.invalid")
	app.Lending.Devices.Set([]models.Device{{DeviceID: 9}})

	rr := serveRequest(t, app, "/v1/devices?center=Unknown+Location")
	var resp devicesResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Devices) != 1 || resp.Devices[0].Center != "Unknown Location" {
		t.Errorf("unexpected devices: %+v", resp.Devices)
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	app := newTestApplication(t, "http://unused.invalid", "http://unused.invalid")
	rr := serveRequest(t, app, "/v1/healthcheck")
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("expected nosniff header, got %q", got)
	}
}
