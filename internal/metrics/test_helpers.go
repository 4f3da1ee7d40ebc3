package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"lendscope.cityoforlando.net/internal/models"
)

// getMetricValue retrieves the current float64 value of a Prometheus GaugeVec metric
// for the given set of labels. Returns an error if the metric cannot be parsed.
func getMetricValue(metric *prometheus.GaugeVec, labels map[string]string) (float64, error) {
	// Create a collector for our specific metric
	c := make(chan prometheus.Metric, 1)
	metric.With(labels).Collect(c)

	// Get the metric from the channel
	m := <-c

	var metricValue float64
	pb := &dto.Metric{}
	if err := m.Write(pb); err != nil {
		return 0, err
	}

	if pb.Gauge != nil {
		metricValue = pb.Gauge.GetValue()
	}

	return metricValue, nil
}

// getGaugeValue reads a plain (unlabeled) gauge the same way.
func getGaugeValue(metric prometheus.Gauge) (float64, error) {
	pb := &dto.Metric{}
	if err := metric.Write(pb); err != nil {
		return 0, err
	}
	return pb.Gauge.GetValue(), nil
}

// setupTestServer creates a new httptest.Server with the provided HTTP handler.
// Automatically registers a cleanup function to close the server after the test ends.
func setupTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(func() { ts.Close() })
	return ts
}

// createTestDevice builds a device with the given type, status and center
// name, filling in the nested records tests usually don't care about.
func createTestDevice(id int, typeName string, statusID int, centerName string) models.Device {
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
