package lending

import (
	"sync"

	"lendscope.cityoforlando.net/internal/models"
)

// CenterStore is a thread-safe snapshot of the lending centers fetched from
// the backend. Readers get a copy of the slice so a concurrent refresh can
// never mutate data a handler is iterating.
type CenterStore struct {
	mu      sync.RWMutex
	centers []models.Center
	loaded  bool
}

// NewCenterStore returns an empty CenterStore. Get reports loaded=false
// until the first Set.
func NewCenterStore() *CenterStore {
	return &CenterStore{}
}

// Set replaces the snapshot with a copy of the given centers.
func (s *CenterStore) Set(centers []models.Center) {
	snapshot := make([]models.Center, len(centers))
	copy(snapshot, centers)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.centers = snapshot
	s.loaded = true
}

// Get returns a copy of the current snapshot and whether a snapshot has
// been loaded at all.
func (s *CenterStore) Get() ([]models.Center, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]models.Center, len(s.centers))
	copy(snapshot, s.centers)
	return snapshot, s.loaded
}

// DeviceStore is the device-inventory counterpart of CenterStore.
type DeviceStore struct {
	mu      sync.RWMutex
	devices []models.Device
	loaded  bool
}

func NewDeviceStore() *DeviceStore {
	return &DeviceStore{}
}

func (s *DeviceStore) Set(devices []models.Device) {
	snapshot := make([]models.Device, len(devices))
	copy(snapshot, devices)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices = snapshot
	s.loaded = true
}

func (s *DeviceStore) Get() ([]models.Device, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]models.Device, len(s.devices))
	copy(snapshot, s.devices)
	return snapshot, s.loaded
}
