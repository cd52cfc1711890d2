// Package geo resolves "where is this device" and free-text city queries
// into queryable places.
package geo

import (
	"context"
	"errors"

	"github.com/skycastlabs/skycast/internal/place"
)

// Geo errors.
var (
	// ErrNetwork is returned when a lookup fails at the transport layer or
	// with a non-success HTTP status.
	ErrNetwork = errors.New("location lookup failed")

	// ErrParse is returned when a provider response cannot be decoded.
	ErrParse = errors.New("location response malformed")
)

// IPLocation is a raw IP-based location record. Fields match ipinfo.io /json;
// provider-specific fields are kept optional.
type IPLocation struct {
	IP       string `json:"ip"`
	City     string `json:"city,omitempty"`
	Region   string `json:"region,omitempty"`
	Country  string `json:"country,omitempty"`
	Loc      string `json:"loc,omitempty"`
	Org      string `json:"org,omitempty"`
	Postal   string `json:"postal,omitempty"`
	Timezone string `json:"timezone,omitempty"`

	// Readme is included by ipinfo on unauthenticated calls; kept for diagnostics.
	Readme string `json:"readme,omitempty"`
}

// CityLocationResult is a normalized city-locating result, independent from
// the underlying provider.
type CityLocationResult struct {
	// RawLocationText is the human-readable raw location, for debugging or UI.
	RawLocationText string `json:"rawLocationText"`

	// CityCandidates are candidate city names ordered from most to least
	// specific.
	CityCandidates []string `json:"cityCandidates"`
}

// CityAutoMatchResult is the outcome of matching a located region against the
// suggestion source.
type CityAutoMatchResult struct {
	RawLocationText   string   `json:"rawLocationText"`
	LocatedCandidates []string `json:"locatedCandidates"`

	// MatchedCity is set only when exactly one distinct city name was found
	// across all candidates' suggestions.
	MatchedCity string `json:"matchedCity,omitempty"`

	// SuggestedCities holds the deduplicated union when no confident match
	// exists, for the caller to disambiguate.
	SuggestedCities []string `json:"suggestedCities,omitempty"`
}

// PublicIPProvider resolves the device's public IP address.
type PublicIPProvider interface {
	PublicIP(ctx context.Context) (string, error)
}

// IPLocationProvider resolves the device's coarse location from its IP.
type IPLocationProvider interface {
	IPLocation(ctx context.Context) (IPLocation, error)
}

// IPTextLocationProvider resolves an IP address to a human-readable location
// string in a provider-specific format.
type IPTextLocationProvider interface {
	LocationText(ctx context.Context, ip string) (string, error)
}

// CityLocator resolves the device location to city-name candidates.
type CityLocator interface {
	LocateCityCandidates(ctx context.Context) (CityLocationResult, error)
}

// CitySuggester returns ranked candidate places for a free-text query.
type CitySuggester interface {
	Suggestions(ctx context.Context, query string, limit int) ([]place.Place, error)
}
