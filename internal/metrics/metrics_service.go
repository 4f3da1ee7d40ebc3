package metrics

import (
	"fmt"
	"log/slog"

	"lendscope.cityoforlando.net/internal/geo"
	"lendscope.cityoforlando.net/internal/inventory"
	"lendscope.cityoforlando.net/internal/models"
)

// CenterSource yields the current center snapshot; the lending package's
// CenterStore satisfies it.
type CenterSource interface {
	Get() ([]models.Center, bool)
}

// DeviceSource yields the current device snapshot.
type DeviceSource interface {
	Get() ([]models.Device, bool)
}

// MetricsService reads the lending snapshots and publishes the derived
// availability metrics. It never writes to the stores.
type MetricsService struct {
	Centers CenterSource
	Devices DeviceSource
	Logger  *slog.Logger
}

func NewMetricsService(centers CenterSource, devices DeviceSource, logger *slog.Logger) *MetricsService {
	return &MetricsService{
		Centers: centers,
		Devices: devices,
		Logger:  logger,
	}
}

// CollectInventoryMetrics recomputes the per-center and fleet-wide
// availability gauges from the current snapshots. It is a no-op error until
// both snapshots have loaded at least once.
func (ms *MetricsService) CollectInventoryMetrics() error {
	centers, centersLoaded := ms.Centers.Get()
	devices, devicesLoaded := ms.Devices.Get()
	if !centersLoaded || !devicesLoaded {
		return fmt.Errorf("snapshots not loaded yet (centers=%t, devices=%t)", centersLoaded, devicesLoaded)
	}

	CentersTracked.Set(float64(len(centers)))

	rows := inventory.AggregateByCenter(devices)
	reportCenterInventory(rows)

	totals := inventory.ComputeTotals(rows)
	reportTotals(totals, len(devices))
	return nil
}

// ReportCenterClusters groups the given centers into S2 cells and publishes
// the per-cluster counts. Centers without coordinates are skipped.
func (ms *MetricsService) ReportCenterClusters(centers []models.Center) {
	reportCenterClusters(geo.ClusterCenters(centers, geo.S2Level13))
}

// ReportBackendStatus records whether the latest fetch from a backend
// endpoint succeeded.
func (ms *MetricsService) ReportBackendStatus(endpoint string, up bool) {
	value := 0.0
	if up {
		value = 1.0
	}
	BackendApiStatus.WithLabelValues(endpoint).Set(value)
}
