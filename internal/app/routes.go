package app

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"

	"lendscope.cityoforlando.net/internal/middleware"
)

// Routes registers the handlers and returns the final http.Handler.
//
// Registered routes:
//   - GET /v1/healthcheck      service status and readiness
//   - GET /v1/centers/nearest  centers ranked by distance from an address
//   - GET /v1/inventory        per-center device availability summary
//   - GET /v1/stats            fleet-wide usage charts
//   - GET /v1/devices          device list with optional center/status filters
//   - GET /metrics             Prometheus exposition, cached
//
// The router is wrapped with the Sentry middleware for panic reporting and
// with SecurityHeaders. The context bounds the metrics cache refresh loop.
func (app *Application) Routes(ctx context.Context) http.Handler {
	router := httprouter.New()

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthcheckHandler)
	router.HandlerFunc(http.MethodGet, "/v1/centers/nearest", app.nearestCentersHandler)
	router.HandlerFunc(http.MethodGet, "/v1/inventory", app.inventoryHandler)
	router.HandlerFunc(http.MethodGet, "/v1/stats", app.statsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/devices", app.devicesHandler)
	router.Handler(http.MethodGet, "/metrics", middleware.NewCachedPromHandler(ctx, prometheus.DefaultGatherer, 10*time.Second))

	handler := middleware.SentryMiddleware(router)
	return middleware.SecurityHeaders(handler)
}
