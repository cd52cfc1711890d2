// Package place defines user-facing queryable locations and their persistence.
package place

import (
	"errors"
	"fmt"
	"strings"
)

// Place errors.
var (
	ErrPlaceNotFound = errors.New("place not found")
)

// CurrentLocationID is the reserved ID for the "current device location" entry.
// A place carrying this ID is pinned to the front of the tracked list.
const CurrentLocationID = "current-location"

// Place represents a user-facing location that can be used to query weather.
//
// If Latitude/Longitude are present the forecast can be queried directly.
// Legacy entries carry only a name and are geocoded lazily on first fetch.
type Place struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Country   string   `json:"country,omitempty"`
	Admin1    string   `json:"admin1,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// New creates a Place with a stable content-derived ID.
func New(name, country, admin1 string, lat, lon *float64) Place {
	return Place{
		ID:        MakeID(name, country, admin1, lat, lon),
		Name:      name,
		Country:   country,
		Admin1:    admin1,
		Latitude:  lat,
		Longitude: lon,
	}
}

// FromName creates a coordinate-less Place from a bare name.
// Used when upgrading legacy stored entries and for direct user text entry.
func FromName(name string) Place {
	return New(strings.TrimSpace(name), "", "", nil, nil)
}

// MakeID derives the stable identity used as the join key between the place
// list, the weather cache, and in-flight fetch tracking.
//
// Coordinates are rounded to 4 decimal places so float representation noise
// below 1e-4 degrees cannot produce different IDs for the same location.
func MakeID(name, country, admin1 string, lat, lon *float64) string {
	if lat != nil && lon != nil {
		return fmt.Sprintf("coords:%.4f,%.4f", *lat, *lon)
	}

	id := strings.ToLower(strings.TrimSpace(name))
	if a := strings.ToLower(strings.TrimSpace(admin1)); a != "" {
		id += "|" + a
	}
	if c := strings.ToLower(strings.TrimSpace(country)); c != "" {
		id += "|" + c
	}
	return "name:" + id
}

// HasCoordinates reports whether the place can be queried without geocoding.
func (p Place) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// IsCurrentLocation reports whether the place is the device-location sentinel.
func (p Place) IsCurrentLocation() bool {
	return p.ID == CurrentLocationID
}

// DisplayName is a derived presentation label: name, admin1, country.
func (p Place) DisplayName() string {
	parts := []string{p.Name}
	if p.Admin1 != "" {
		parts = append(parts, p.Admin1)
	}
	if p.Country != "" {
		parts = append(parts, p.Country)
	}
	return strings.Join(parts, " · ")
}
