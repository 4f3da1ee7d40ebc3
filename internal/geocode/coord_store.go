package geocode

import (
	"sync"

	"lendscope.cityoforlando.net/internal/models"
)

// CoordStore is a thread-safe in-memory store of geocoded center
// coordinates, keyed by location ID.
//
// Every resolve fan-out begins a new generation; writes carry the
// generation they belong to and are dropped when a newer fan-out has
// started since. That way a slow, superseded fan-out can never overwrite
// coordinates produced by a later one, no matter in which order the
// responses arrive.
type CoordStore struct {
	mu     sync.RWMutex
	gen    uint64
	coords map[int]models.Coordinate
}

// NewCoordStore creates an empty CoordStore.
func NewCoordStore() *CoordStore {
	return &CoordStore{coords: make(map[int]models.Coordinate)}
}

// Begin starts a new generation and returns its token. Results of all
// previously started fan-outs become stale from this point on.
func (s *CoordStore) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// Set stores a coordinate for a location if gen is still the current
// generation. It reports whether the write was applied.
func (s *CoordStore) Set(gen uint64, locationID int, coords models.Coordinate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.coords[locationID] = coords
	return true
}

// Get returns the stored coordinate for a location, if any.
func (s *CoordStore) Get(locationID int) (models.Coordinate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	coords, ok := s.coords[locationID]
	return coords, ok
}

// Len returns the number of locations with a stored coordinate.
func (s *CoordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.coords)
}
