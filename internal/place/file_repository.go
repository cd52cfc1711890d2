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

// placesDocument is the on-disk layout of the place list.
type placesDocument struct {
	Places          []Place `json:"places"`
	SelectedPlaceID string  `json:"selectedPlaceId,omitempty"`
}

// FileRepository persists the place list as a single JSON document.
//
// It also reads the legacy schema, a bare JSON array of city-name strings,
// upgrading entries to name-only Places on load. The upgrade is read-time
// only; the current schema is written on the next natural save.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

// NewFileRepository creates a file-backed place repository at the given path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// LoadPlaces returns the saved place list, upgrading legacy data if found.
func (r *FileRepository) LoadPlaces(_ context.Context) ([]Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return nil, err
	}
	return doc.Places, nil
}

// SavePlaces replaces the saved place list, preserving the selection.
func (r *FileRepository) SavePlaces(_ context.Context, places []Place) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return err
	}
	doc.Places = places
	return r.write(doc)
}

// LoadSelectedID returns the saved selected place ID, or "" if none.
func (r *FileRepository) LoadSelectedID(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return "", err
	}
	return doc.SelectedPlaceID, nil
}

// SaveSelectedID persists the selected place ID. An empty ID clears it.
func (r *FileRepository) SaveSelectedID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return err
	}
	doc.SelectedPlaceID = id
	return r.write(doc)
}

func (r *FileRepository) read() (placesDocument, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return placesDocument{}, nil
	}
	if err != nil {
		return placesDocument{}, fmt.Errorf("reading place list: %w", err)
	}

	var doc placesDocument
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	// Legacy schema: a bare array of city-name strings.
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return placesDocument{}, fmt.Errorf("decoding place list: %w", err)
	}

	places := make([]Place, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		places = append(places, FromName(n))
	}
	return placesDocument{Places: places}, nil
}

func (r *FileRepository) write(doc placesDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding place list: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("writing place list: %w", err)
	}
	return nil
}
