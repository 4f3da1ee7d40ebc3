package lending

import (
	"context"
	"log/slog"

	"lendscope.cityoforlando.net/internal/geocode"
	"lendscope.cityoforlando.net/internal/models"
)

// Service owns the backend snapshots and the coordinate cache that geocoding
// fills in. It is the single writer for both stores; handlers only read.
type Service struct {
	Client  *Client
	Centers *CenterStore
	Devices *DeviceStore
	Coords  *geocode.CoordStore
	Logger  *slog.Logger
}

func NewService(client *Client, centers *CenterStore, devices *DeviceStore, coords *geocode.CoordStore, logger *slog.Logger) *Service {
	return &Service{
		Client:  client,
		Centers: centers,
		Devices: devices,
		Coords:  coords,
		Logger:  logger,
	}
}

// RefreshCenters fetches the current center list and replaces the snapshot.
// It reports whether the center set changed since the previous snapshot, so
// the caller knows when a re-geocode is needed. A fetch failure leaves the
// previous snapshot in place.
func (s *Service) RefreshCenters(ctx context.Context) (changed bool, err error) {
	centers, err := s.Client.FetchCenters(ctx)
	if err != nil {
		return false, err
	}

	previous, loaded := s.Centers.Get()
	changed = !loaded || !sameCenterSet(previous, centers)
	s.Centers.Set(centers)
	if changed {
		s.Logger.Info("Center snapshot changed", "centers", len(centers))
	}
	return changed, nil
}

// RefreshDevices fetches the current device inventory and replaces the
// snapshot. A fetch failure leaves the previous snapshot in place.
func (s *Service) RefreshDevices(ctx context.Context) error {
	devices, err := s.Client.FetchDevices(ctx)
	if err != nil {
		return err
	}
	s.Devices.Set(devices)
	return nil
}

// CentersWithCoords returns the current center snapshot with any known
// coordinates attached. Coordinates are attached to the copies, never to
// the stored centers. The bool mirrors the store's loaded flag.
func (s *Service) CentersWithCoords() ([]models.Center, bool) {
	centers, loaded := s.Centers.Get()
	for i := range centers {
		if centers[i].Coords != nil {
			continue
		}
		if coords, ok := s.Coords.Get(centers[i].LocationID); ok {
			c := coords
			centers[i].Coords = &c
		}
	}
	return centers, loaded
}

// sameCenterSet compares two center snapshots on identity and address only.
// A center whose address changes must be geocoded again, so address edits
// count as a change; other field edits do not.
func sameCenterSet(a, b []models.Center) bool {
	if len(a) != len(b) {
		return false
	}
	byID := make(map[int]string, len(a))
	for _, c := range a {
		byID[c.LocationID] = c.FullAddress()
	}
	for _, c := range b {
		addr, ok := byID[c.LocationID]
		if !ok || addr != c.FullAddress() {
			return false
		}
	}
	return true
}
