package place

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// DefaultRecentLimit bounds the most-recently-used place list.
const DefaultRecentLimit = 10

// FileRecentStore persists recent place names as a JSON array.
type FileRecentStore struct {
	mu   sync.Mutex
	path string
}

// NewFileRecentStore creates a file-backed recent-places store.
func NewFileRecentStore(path string) *FileRecentStore {
	return &FileRecentStore{path: path}
}

// Load returns the saved recent place names. A missing file yields an empty list.
func (s *FileRecentStore) Load(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading recent places: %w", err)
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("decoding recent places: %w", err)
	}
	return names, nil
}

// Save replaces the saved recent place names.
func (s *FileRecentStore) Save(_ context.Context, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("encoding recent places: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing recent places: %w", err)
	}
	return nil
}

// Touch moves name to the front of the recent list, deduplicating and
// truncating to limit. The updated list is returned for the caller to reuse.
func Touch(ctx context.Context, store RecentStore, name string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	current, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}

	next := make([]string, 0, len(current)+1)
	next = append(next, name)
	for _, n := range current {
		if n != name {
			next = append(next, n)
		}
	}
	if len(next) > limit {
		next = next[:limit]
	}

	if err := store.Save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}
