package geo

import (
	"context"

	"github.com/rs/zerolog"
)

// matcherSuggestionLimit bounds the suggestion query issued per candidate.
const matcherSuggestionLimit = 10

// AutoMatcher combines the city locator with the suggestion source to decide
// whether the located region maps unambiguously to one queryable place.
type AutoMatcher struct {
	locator   CityLocator
	suggester CitySuggester
	logger    zerolog.Logger
}

// AutoMatcherConfig holds configuration for the auto-matcher.
type AutoMatcherConfig struct {
	Locator   CityLocator
	Suggester CitySuggester
	Logger    zerolog.Logger
}

// NewAutoMatcher creates a new city auto-matcher.
func NewAutoMatcher(cfg AutoMatcherConfig) *AutoMatcher {
	return &AutoMatcher{
		locator:   cfg.Locator,
		suggester: cfg.Suggester,
		logger:    cfg.Logger,
	}
}

// ResolveCity locates the device, maps every candidate through the suggester,
// and accepts the result only when exactly one distinct city name remains.
// Accepting among several candidates sharing a name fragment would risk
// silently picking the wrong city, so ambiguity is left to the caller.
//
// Locator and suggester errors propagate unchanged.
func (m *AutoMatcher) ResolveCity(ctx context.Context) (CityAutoMatchResult, error) {
	located, err := m.locator.LocateCityCandidates(ctx)
	if err != nil {
		return CityAutoMatchResult{}, err
	}

	var combined []string
	for _, candidate := range located.CityCandidates {
		suggestions, err := m.suggester.Suggestions(ctx, candidate, matcherSuggestionLimit)
		if err != nil {
			return CityAutoMatchResult{}, err
		}
		for _, s := range suggestions {
			combined = append(combined, s.Name)
		}
	}

	deduped := dedupeNonEmpty(combined)

	result := CityAutoMatchResult{
		RawLocationText:   located.RawLocationText,
		LocatedCandidates: located.CityCandidates,
	}
	if len(deduped) == 1 {
		result.MatchedCity = deduped[0]
	} else {
		result.SuggestedCities = deduped
	}

	m.logger.Debug().
		Str("raw_location", located.RawLocationText).
		Strs("candidates", located.CityCandidates).
		Strs("deduped", deduped).
		Str("matched", result.MatchedCity).
		Msg("city auto-match resolved")

	return result, nil
}
