package models

import (
	"github.com/skycastlabs/skycast/internal/place"
	"github.com/skycastlabs/skycast/internal/weather"
)

// AddPlaceRequest adds a place to the tracked list. Coordinates are optional;
// a name-only place is geocoded lazily on first fetch.
type AddPlaceRequest struct {
	Name      string   `json:"name" validate:"required"`
	Country   string   `json:"country,omitempty"`
	Admin1    string   `json:"admin1,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`

	// CurrentLocation pins the place to the front of the list under the
	// reserved current-location ID.
	CurrentLocation bool `json:"currentLocation,omitempty"`
}

// SelectPlaceRequest changes the selected place.
type SelectPlaceRequest struct {
	PlaceID string `json:"placeId" validate:"required"`
}

// PlacesResponse lists the tracked places and the current selection.
type PlacesResponse struct {
	Places          []place.Place `json:"places"`
	SelectedPlaceID string        `json:"selectedPlaceId,omitempty"`
}

// PlaceWeatherResponse carries the weather state for one tracked place.
type PlaceWeatherResponse struct {
	PlaceID    string        `json:"placeId"`
	State      weather.State `json:"state"`
	Refreshing bool          `json:"refreshing"`
}
