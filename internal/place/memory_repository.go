package place

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use FileRepository
// or PostgresRepository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	places   []Place
	selected string
}

// NewInMemoryRepository creates a new in-memory place repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// LoadPlaces returns a copy of the stored place list.
func (r *InMemoryRepository) LoadPlaces(_ context.Context) ([]Place, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Place, len(r.places))
	copy(out, r.places)
	return out, nil
}

// SavePlaces replaces the stored place list.
func (r *InMemoryRepository) SavePlaces(_ context.Context, places []Place) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.places = make([]Place, len(places))
	copy(r.places, places)
	return nil
}

// LoadSelectedID returns the stored selected place ID.
func (r *InMemoryRepository) LoadSelectedID(_ context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selected, nil
}

// SaveSelectedID stores the selected place ID.
func (r *InMemoryRepository) SaveSelectedID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = id
	return nil
}

// InMemoryRecentStore is an in-memory implementation of RecentStore.
type InMemoryRecentStore struct {
	mu    sync.RWMutex
	names []string
}

// NewInMemoryRecentStore creates a new in-memory recent-places store.
func NewInMemoryRecentStore() *InMemoryRecentStore {
	return &InMemoryRecentStore{}
}

// Load returns the stored recent place names.
func (s *InMemoryRecentStore) Load(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.names))
	copy(out, s.names)
	return out, nil
}

// Save replaces the stored recent place names.
func (s *InMemoryRecentStore) Save(_ context.Context, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.names = make([]string, len(names))
	copy(s.names, names)
	return nil
}
