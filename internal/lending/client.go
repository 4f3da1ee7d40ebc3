package lending

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"

	"lendscope.cityoforlando.net/internal/config"
	"lendscope.cityoforlando.net/internal/models"
	"lendscope.cityoforlando.net/internal/report"
	"lendscope.cityoforlando.net/internal/utils"
)

const (
	centersPath = "/api/locations"
	devicesPath = "/api/devices"

	// A failed fetch is not retried. The collector reruns on its own
	// interval and the stores keep their previous snapshot on failure.
	maxFetchRetries = 0
)

// Client talks to the device lending backend's REST API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient creates a lending backend client. A nil httpClient gets a
// default with a 10 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    httpClient,
	}
}

// FetchCenters retrieves every lending center known to the backend.
func (c *Client) FetchCenters(ctx context.Context) ([]models.Center, error) {
	var centers []models.Center
	if err := c.fetchJSON(ctx, centersPath, &centers); err != nil {
		return nil, err
	}
	return centers, nil
}

// FetchDevices retrieves the full device inventory from the backend.
func (c *Client) FetchDevices(ctx context.Context) ([]models.Device, error) {
	var devices []models.Device
	if err := c.fetchJSON(ctx, devicesPath, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

func (c *Client) fetchJSON(ctx context.Context, path string, out any) error {
	url := c.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return c.reportFetchError(fmt.Errorf("failed to create request for %s: %w", url, err), url)
	}

	resp, err := config.DoWithBackoff(ctx, c.HTTP, req, maxFetchRetries)
	if err != nil {
		return c.reportFetchError(fmt.Errorf("failed to make GET request to %s: %w", url, err), url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.reportFetchError(fmt.Errorf("unexpected response status %d from %s", resp.StatusCode, url), url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.reportFetchError(fmt.Errorf("failed to read response body from %s: %w", url, err), url)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return c.reportFetchError(fmt.Errorf("failed to unmarshal response from %s: %w", url, err), url)
	}
	return nil
}

func (c *Client) reportFetchError(err error, url string) error {
	report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
		Tags: utils.MakeMap("endpoint", url),
		ExtraContext: map[string]interface{}{
			"base_url": c.BaseURL,
		},
		Level: sentry.LevelError,
	})
	return err
}
