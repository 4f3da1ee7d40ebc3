package config

import (
	"fmt"
	"sync"

	"lendscope.cityoforlando.net/internal/geo"
	"lendscope.cityoforlando.net/internal/models"
)

// Program describes the lending program this instance watches: where its
// backend API lives, which geocoding service to use, and the optional
// geographic hints for ranking and sanity checks.
type Program struct {
	Name           string `json:"name"`
	ApiBaseURL     string `json:"apiBaseUrl"`
	GeocodeBaseURL string `json:"geocodeBaseUrl"`

	// FallbackLat/FallbackLng is the city-center coordinate used to rank
	// centers when a citizen's address cannot be geocoded. Zero values mean
	// no fallback is configured.
	FallbackLat float64 `json:"fallbackLat"`
	FallbackLng float64 `json:"fallbackLng"`

	// RefreshSeconds is the snapshot refresh interval. Zero means the
	// default of 30 seconds.
	RefreshSeconds int `json:"refreshSeconds"`

	// ServiceArea bounds the area the program serves. Geocoded addresses
	// outside it are counted as out-of-area.
	ServiceArea *geo.BoundingBox `json:"serviceArea,omitempty"`
}

// Validate checks the fields a running instance cannot do without.
func (p Program) Validate() error {
	if p.ApiBaseURL == "" {
		return fmt.Errorf("program config is missing apiBaseUrl")
	}
	return nil
}

// FallbackCoordinate returns the configured fallback coordinate, or nil
// when none is configured or the configured one is out of range.
func (p Program) FallbackCoordinate() *models.Coordinate {
	if !geo.IsValidLatLng(p.FallbackLat, p.FallbackLng) {
		return nil
	}
	return &models.Coordinate{Lat: p.FallbackLat, Lng: p.FallbackLng}
}

// Config holds all the configuration settings for our application.
type Config struct {
	Port    int
	Env     string
	Mu      sync.RWMutex
	Program Program
}

// NewConfig creates a new instance of a Config struct.
func NewConfig(port int, env string, program Program) *Config {
	return &Config{
		Port:    port,
		Env:     env,
		Program: program,
	}
}

// UpdateProgram safely replaces the program configuration.
func (cfg *Config) UpdateProgram(program Program) {
	cfg.Mu.Lock()
	defer cfg.Mu.Unlock()
	cfg.Program = program
}

// GetProgram safely returns a copy of the program configuration. This
// method should be used to access the program from other parts of the
// application.
func (cfg *Config) GetProgram() Program {
	cfg.Mu.RLock()
	defer cfg.Mu.RUnlock()
	return cfg.Program
}
