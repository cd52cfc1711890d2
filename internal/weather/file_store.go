package weather

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// cacheSnapshot is the on-disk layout of the weather cache.
type cacheSnapshot struct {
	ByPlaceID map[string]Payload `json:"byPlaceId"`
	SavedAt   time.Time          `json:"savedAt"`
}

// FileStore is a JSON-file-backed Store.
type FileStore struct {
	path   string
	logger zerolog.Logger

	mu sync.Mutex
}

// NewFileStore creates a file-backed weather cache at path.
func NewFileStore(path string, logger zerolog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// LoadCache returns the cached payloads. A missing or corrupt file yields an
// empty map, never an error.
func (s *FileStore) LoadCache(_ context.Context) map[string]Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().ByPlaceID
}

// Save persists the payload for placeID. Failures are logged and swallowed.
func (s *FileStore) Save(_ context.Context, placeID string, payload Payload) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.read()
	snap.ByPlaceID[placeID] = payload
	s.write(snap)
}

// Remove drops the cache entry for placeID.
func (s *FileStore) Remove(_ context.Context, placeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.read()
	delete(snap.ByPlaceID, placeID)
	s.write(snap)
}

// Clear drops every cache entry.
func (s *FileStore) Clear(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(cacheSnapshot{ByPlaceID: make(map[string]Payload)})
}

func (s *FileStore) read() cacheSnapshot {
	empty := cacheSnapshot{ByPlaceID: make(map[string]Payload)}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("failed to read weather cache")
		}
		return empty
	}

	var snap cacheSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("weather cache corrupt, starting empty")
		return empty
	}
	if snap.ByPlaceID == nil {
		snap.ByPlaceID = make(map[string]Payload)
	}
	return snap
}

func (s *FileStore) write(snap cacheSnapshot) {
	snap.SavedAt = time.Now()

	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode weather cache")
		return
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("failed to write weather cache")
	}
}
