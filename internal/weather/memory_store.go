package weather

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests and single-process deployments.
type MemoryStore struct {
	mu        sync.RWMutex
	byPlaceID map[string]Payload
}

// NewMemoryStore creates an empty in-memory weather cache.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byPlaceID: make(map[string]Payload)}
}

// LoadCache returns a copy of the cached payloads.
func (s *MemoryStore) LoadCache(_ context.Context) map[string]Payload {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Payload, len(s.byPlaceID))
	for id, p := range s.byPlaceID {
		out[id] = p
	}
	return out
}

// Save stores the payload for placeID.
func (s *MemoryStore) Save(_ context.Context, placeID string, payload Payload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byPlaceID[placeID] = payload
}

// Remove drops the entry for placeID.
func (s *MemoryStore) Remove(_ context.Context, placeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byPlaceID, placeID)
}

// Clear drops every entry.
func (s *MemoryStore) Clear(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byPlaceID = make(map[string]Payload)
}
