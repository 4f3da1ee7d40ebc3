package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendApiStatus API Status (up/down)
	BackendApiStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lending_api_status",
			Help: "Status of the lending program backend API (0 = not working, 1 = working)",
		},
		[]string{"endpoint"},
	)
)

var (
	CentersTracked = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lending_centers_count",
		Help: "Number of lending centers in the current location snapshot",
	})

	DevicesTracked = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lending_devices_count",
		Help: "Number of devices in the current device snapshot",
	})
)

var (
	DevicesAvailable = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "center_devices_available",
		Help: "Number of available devices per center and device category",
	}, []string{"center", "category"})

	DevicesTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "center_devices_total",
		Help: "Total number of devices per center and device category",
	}, []string{"center", "category"})

	AvailabilityPercent = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "center_availability_percent",
		Help: "Percentage of devices available per center and device category",
	}, []string{"center", "category"})

	FleetAvailabilityPercent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fleet_availability_percent",
		Help: "Percentage of all devices across all centers that are available",
	})
)

var (
	GeocodeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geocode_requests_total",
		Help: "Number of geocoding requests by outcome (resolved or unresolved)",
	}, []string{"outcome"})

	GeocodedCenters = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "geocoded_centers_count",
		Help: "Number of centers with a resolved coordinate",
	})

	GeocodeOutOfArea = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geocode_out_of_service_area_total",
		Help: "Number of geocoded user addresses that fell outside the program's service area",
	})
)

var (
	CentersPerCluster = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "centers_per_cluster_count",
		Help: "Number of centers per S2 geographic cluster",
	}, []string{"cluster_id"})
)

var (
	OutgoingLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outgoing_request_latency_seconds",
		Help:    "Latency of outgoing HTTP requests to the backend and geocoding APIs",
		Buckets: prometheus.DefBuckets,
	}, []string{"url", "method", "status"})
)

// Label values for the geocode_requests_total outcome label.
const (
	GeocodeOutcomeResolved   = "resolved"
	GeocodeOutcomeUnresolved = "unresolved"
)
