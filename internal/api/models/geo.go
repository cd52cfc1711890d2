package models

import (
	"github.com/skycastlabs/skycast/internal/geo"
	"github.com/skycastlabs/skycast/internal/place"
)

// SuggestResponse lists candidate places for a free-text query.
type SuggestResponse struct {
	Query  string        `json:"query"`
	Places []place.Place `json:"places"`
}

// LocateResponse carries the IP-based location result.
type LocateResponse struct {
	geo.CityLocationResult
}

// MatchResponse carries an auto-match result plus when it was computed, so
// clients can decide freshness themselves.
type MatchResponse struct {
	geo.CityAutoMatchResult
	ResolvedAt Timestamp `json:"resolvedAt"`
}
