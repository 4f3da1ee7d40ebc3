package app

import (
	"log/slog"
	"net/http"

	"lendscope.cityoforlando.net/internal/config"
	"lendscope.cityoforlando.net/internal/geocode"
	"lendscope.cityoforlando.net/internal/lending"
	"lendscope.cityoforlando.net/internal/metrics"
)

// Application wires the services together: the config layer, the lending
// backend snapshots, the geocoding resolver and the metrics publisher.
type Application struct {
	ConfigService  *config.ConfigService
	Lending        *lending.Service
	Resolver       *geocode.Resolver
	MetricsService *metrics.MetricsService
	Logger         *slog.Logger
	Version        string
}

// New creates and wires all dependencies for the Application.
// Accepts config, logger, client, and version as arguments.
func New(cfg *config.Config, logger *slog.Logger, client *http.Client, version string) *Application {
	program := cfg.GetProgram()

	centerStore := lending.NewCenterStore()
	deviceStore := lending.NewDeviceStore()
	coordStore := geocode.NewCoordStore()

	configService := config.NewConfigService(logger, client, cfg)
	lendingClient := lending.NewClient(program.ApiBaseURL, client)
	lendingService := lending.NewService(lendingClient, centerStore, deviceStore, coordStore, logger)
	geocodeClient := geocode.NewClient(program.GeocodeBaseURL, client)
	resolver := geocode.NewResolver(geocodeClient, coordStore, logger)
	metricsService := metrics.NewMetricsService(centerStore, deviceStore, logger)

	return &Application{
		ConfigService:  configService,
		Lending:        lendingService,
		Resolver:       resolver,
		MetricsService: metricsService,
		Logger:         logger,
		Version:        version,
	}
}
