package config

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/getsentry/sentry-go"

	"lendscope.cityoforlando.net/internal/report"
	"lendscope.cityoforlando.net/internal/utils"
)

// ValidateConfigFlags ensures that exactly one configuration source is
// specified: either a config file "--config-file" or a remote config URL
// "--config-url".
func ValidateConfigFlags(configFile, configURL *string) error {
	if *configFile == "" && *configURL == "" {
		return fmt.Errorf("no configuration provided, either --config-file or --config-url must be specified")
	}
	if (*configFile != "" && *configURL != "") || (*configFile != "" && len(flag.Args()) > 0) || (*configURL != "" && len(flag.Args()) > 0) {
		return fmt.Errorf("only one of --config-file or --config-url can be specified")
	}
	return nil
}

// LoadConfigFromFile reads a JSON program configuration from disk.
func LoadConfigFromFile(filePath string) (Program, error) {
	program, err := loadConfigFromFile(filePath)
	if err != nil {
		err := fmt.Errorf("failed to load config from file %s: %w", filePath, err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("file_path", filePath),
			Level: sentry.LevelError,
		})
		return Program{}, err
	}
	return program, nil
}

// LoadConfigFromURL fetches a JSON program configuration from a remote
// HTTP(S) endpoint, with optional basic authentication.
func LoadConfigFromURL(ctx context.Context, client *http.Client, url, authUser, authPass string) (Program, error) {
	program, err := loadConfigFromURL(ctx, client, url, authUser, authPass)
	if err != nil {
		err := fmt.Errorf("failed to load config from URL %s: %w", url, err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("config_url", url),
			Level: sentry.LevelError,
		})
		return Program{}, err
	}
	return program, nil
}

func loadConfigFromFile(filePath string) (Program, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Program{}, fmt.Errorf("failed to read config file: %v", err)
	}

	var program Program
	if err := json.Unmarshal(data, &program); err != nil {
		return Program{}, fmt.Errorf("failed to unmarshal JSON: %v", err)
	}
	if err := program.Validate(); err != nil {
		return Program{}, err
	}

	return program, nil
}

func loadConfigFromURL(ctx context.Context, client *http.Client, url, authUser, authPass string) (Program, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Program{}, fmt.Errorf("failed to create request: %v", err)
	}

	if authUser != "" && authPass != "" {
		req.SetBasicAuth(authUser, authPass)
	}

	resp, err := DoWithBackoff(ctx, client, req, defaultMaxRetries)
	if err != nil {
		return Program{}, fmt.Errorf("failed to fetch remote config: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Program{}, fmt.Errorf("remote config returned status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Program{}, fmt.Errorf("failed to read remote config: %v", err)
	}

	var program Program
	if err := json.Unmarshal(data, &program); err != nil {
		return Program{}, fmt.Errorf("failed to unmarshal JSON: %v", err)
	}
	if err := program.Validate(); err != nil {
		return Program{}, err
	}

	return program, nil
}

// refreshConfig periodically fetches the remote configuration and replaces
// the application's program config. Errors are logged and reported but
// never stop the loop; the routine exits when the context is canceled.
func refreshConfig(ctx context.Context, client *http.Client, configURL, authUser, authPass string, cfg *Config, logger *slog.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping config refresh routine")
			return
		case <-ticker.C:
			program, err := LoadConfigFromURL(ctx, client, configURL, authUser, authPass)
			if err != nil {
				logger.Error("Failed to refresh remote config", "error", err)
				continue
			}
			cfg.UpdateProgram(program)
			logger.Info("Successfully refreshed program configuration")
		}
	}
}
