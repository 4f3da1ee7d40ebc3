package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"

	"lendscope.cityoforlando.net/internal/metrics"
	"lendscope.cityoforlando.net/internal/models"
	"lendscope.cityoforlando.net/internal/report"
	"lendscope.cityoforlando.net/internal/utils"
)

// DefaultBaseURL is the public Nominatim instance of OpenStreetMap.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// userAgent identifies the service to the geocoding provider, as Nominatim's
// usage policy requires.
const userAgent = "lendscope/1.0 (device-lending center finder)"

// Client resolves free-text addresses into coordinates through a
// Nominatim-style search endpoint.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient returns a geocoding client for the given base URL. An empty
// baseURL falls back to the public Nominatim instance, a nil httpClient to
// a plain client with a 10 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: httpClient}
}

// candidate is one entry of the geocoder's JSON response. Nominatim returns
// lat/lon as strings.
type candidate struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// GeocodeAddress resolves a free-text address into a coordinate using the
// first candidate the service returns. The second return value is false
// when the address is unresolved: transport errors, non-2xx statuses,
// unparseable bodies, empty candidate lists and malformed or non-finite
// lat/lon values
// all degrade to that single outcome. The caller decides the fallback; no
// failure escapes this boundary and no retries are made.
func (c *Client) GeocodeAddress(ctx context.Context, query string) (models.Coordinate, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.unresolved()
	}

	searchURL := fmt.Sprintf("%s/search?format=json&q=%s", c.BaseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("geocode_url", c.BaseURL),
			Level: sentry.LevelWarning,
		})
		return c.unresolved()
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return c.unresolved()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		report.ReportErrorWithSentryOptions(
			fmt.Errorf("geocoding service returned status %d", resp.StatusCode),
			report.SentryReportOptions{
				Tags:  utils.MakeMap("geocode_url", c.BaseURL),
				Level: sentry.LevelWarning,
			})
		return c.unresolved()
	}

	var candidates []candidate
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return c.unresolved()
	}
	if len(candidates) == 0 {
		return c.unresolved()
	}

	lat, latErr := strconv.ParseFloat(candidates[0].Lat, 64)
	lng, lngErr := strconv.ParseFloat(candidates[0].Lon, 64)
	if latErr != nil || lngErr != nil {
		return c.unresolved()
	}
	// ParseFloat accepts literal "NaN" and "Inf"; a candidate carrying those
	// is as useless as an unparseable one.
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return c.unresolved()
	}

	metrics.GeocodeRequests.WithLabelValues(metrics.GeocodeOutcomeResolved).Inc()
	return models.Coordinate{Lat: lat, Lng: lng}, true
}

func (c *Client) unresolved() (models.Coordinate, bool) {
	metrics.GeocodeRequests.WithLabelValues(metrics.GeocodeOutcomeUnresolved).Inc()
	return models.Coordinate{}, false
}
