package app

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"lendscope.cityoforlando.net/internal/report"
	"lendscope.cityoforlando.net/internal/utils"
)

const defaultRefreshInterval = 30 * time.Second

// StartCollecting launches the refresh loop in a goroutine. The loop polls
// the lending backend, re-geocodes centers when the center set changes, and
// republishes the availability metrics. It runs one cycle immediately so
// the endpoints have data as soon as possible, then ticks at the program's
// configured interval until the context is canceled.
func (app *Application) StartCollecting(ctx context.Context) {
	interval := defaultRefreshInterval
	if s := app.ConfigService.Config.GetProgram().RefreshSeconds; s > 0 {
		interval = time.Duration(s) * time.Second
	}

	go func() {
		app.collectOnce(ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				app.Logger.Info("Stopping collection routine")
				return
			case <-ticker.C:
				app.collectOnce(ctx)
			}
		}
	}()
}

// collectOnce runs a single refresh cycle. Each step failing leaves the
// previous snapshot serving and is retried on the next tick.
func (app *Application) collectOnce(ctx context.Context) {
	changed, err := app.Lending.RefreshCenters(ctx)
	app.MetricsService.ReportBackendStatus("locations", err == nil)
	if err != nil {
		app.Logger.Error("Failed to refresh centers", "error", err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("endpoint", "locations"),
			Level: sentry.LevelError,
		})
	} else if changed {
		centers, _ := app.Lending.Centers.Get()
		app.Resolver.ResolveCenters(ctx, centers)

		withCoords, _ := app.Lending.CentersWithCoords()
		app.MetricsService.ReportCenterClusters(withCoords)
	}

	err = app.Lending.RefreshDevices(ctx)
	app.MetricsService.ReportBackendStatus("devices", err == nil)
	if err != nil {
		app.Logger.Error("Failed to refresh devices", "error", err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("endpoint", "devices"),
			Level: sentry.LevelError,
		})
	}

	if err := app.MetricsService.CollectInventoryMetrics(); err != nil {
		app.Logger.Debug("Skipping inventory metrics", "reason", err)
	}
}
