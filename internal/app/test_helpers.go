package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lendscope.cityoforlando.net/internal/config"
	"lendscope.cityoforlando.net/internal/models"
)

// newTestApplication wires a full Application against the given backend and
// geocoder base URLs, logging to a discard handler.
func newTestApplication(t *testing.T, backendURL, geocodeURL string) *Application {
	t.Helper()

	program := config.Program{
		Name:           "Test Program",
		ApiBaseURL:     backendURL,
		GeocodeBaseURL: geocodeURL,
		FallbackLat:    28.53833,
		FallbackLng:    -81.37924,
	}
	cfg := config.NewConfig(4000, "test", program)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := &http.Client{Timeout: 5 * time.Second}

	return New(cfg, logger, client, "1.0.0")
}

// setupBackend serves canned /api/locations and /api/devices responses.
func setupBackend(t *testing.T, locationsJSON, devicesJSON string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/locations", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(locationsJSON))
	})
	mux.HandleFunc("/api/devices", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(devicesJSON))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

// setupGeocoder serves a fixed candidate list for every query, or an empty
// list when body is "".
func setupGeocoder(t *testing.T, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if body == "" {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func testDevice(id int, typeName string, statusID int, centerName string) models.Device {
	d := models.Device{
		DeviceID: id,
		Type:     &models.DeviceType{DeviceTypeName: typeName},
		Status:   &models.DeviceStatus{DeviceStatusID: statusID},
	}
	if centerName != "" {
		d.Location = &models.DeviceLocation{LocationName: centerName}
	}
	return d
}
