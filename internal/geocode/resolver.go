package geocode

import (
	"context"
	"log/slog"
	"sync"

	"lendscope.cityoforlando.net/internal/geo"
	"lendscope.cityoforlando.net/internal/metrics"
	"lendscope.cityoforlando.net/internal/models"
)

// Resolver geocodes center addresses and keeps the results in a CoordStore.
type Resolver struct {
	Client *Client
	Store  *CoordStore
	Logger *slog.Logger
}

// NewResolver creates a Resolver around the given client and store.
func NewResolver(client *Client, store *CoordStore, logger *slog.Logger) *Resolver {
	return &Resolver{
		Client: client,
		Store:  store,
		Logger: logger,
	}
}

// ResolveCenters geocodes the address of every center as independent
// concurrent tasks and waits for all of them.
//
// Each result is applied to the store as it arrives, so partially resolved
// data is usable before the join completes. A center that fails to geocode
// is logged and skipped without affecting its peers. All writes are stamped
// with this fan-out's generation: if ResolveCenters is called again before
// an earlier call finished, the earlier call's remaining results are
// discarded instead of overwriting newer ones.
func (r *Resolver) ResolveCenters(ctx context.Context, centers []models.Center) {
	gen := r.Store.Begin()

	var wg sync.WaitGroup
	for _, center := range centers {
		c := center

		// Pre-populated coordinates skip the geocoder entirely.
		if c.Coords != nil && geo.IsValidLatLng(c.Coords.Lat, c.Coords.Lng) {
			r.Store.Set(gen, c.LocationID, *c.Coords)
			continue
		}

		address := c.FullAddress()
		if address == "" {
			r.Logger.Warn("center has no address to geocode", "location_id", c.LocationID, "location_name", c.LocationName)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()

			coords, ok := r.Client.GeocodeAddress(ctx, address)
			if !ok {
				r.Logger.Warn("failed to geocode center address",
					"location_id", c.LocationID,
					"location_name", c.LocationName,
					"address", address,
				)
				return
			}
			if !geo.IsValidLatLng(coords.Lat, coords.Lng) {
				r.Logger.Warn("geocoder returned out-of-range coordinate",
					"location_id", c.LocationID,
					"lat", coords.Lat,
					"lng", coords.Lng,
				)
				return
			}
			if !r.Store.Set(gen, c.LocationID, coords) {
				r.Logger.Debug("dropping stale geocode result", "location_id", c.LocationID)
			}
		}()
	}
	wg.Wait()

	metrics.GeocodedCenters.Set(float64(r.Store.Len()))
}
