package handler

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/skycastlabs/skycast/internal/api/models"
	"github.com/skycastlabs/skycast/internal/api/response"
	"github.com/skycastlabs/skycast/internal/geo"
	"github.com/skycastlabs/skycast/internal/weather"
)

const (
	defaultSuggestLimit = 10
	maxSuggestLimit     = 20

	// matchCacheTTL bounds how long an auto-match result is reused before the
	// locator and suggester are consulted again.
	matchCacheTTL = 10 * time.Minute
)

// GeoHandler handles city suggestion and device-location endpoints.
type GeoHandler struct {
	suggester geo.CitySuggester
	locator   geo.CityLocator
	matcher   *geo.AutoMatcher

	mu         sync.Mutex
	match      *geo.CityAutoMatchResult
	resolvedAt time.Time
}

// NewGeoHandler creates a new GeoHandler.
func NewGeoHandler(suggester geo.CitySuggester, locator geo.CityLocator, matcher *geo.AutoMatcher) *GeoHandler {
	return &GeoHandler{
		suggester: suggester,
		locator:   locator,
		matcher:   matcher,
	}
}

// Suggest handles GET /v1/geo/suggest?q=&limit= - ranked city suggestions.
func (h *GeoHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, r, "q is required", []models.FieldError{
			{Field: "q", Message: "must not be empty"},
		})
		return
	}

	limit := defaultSuggestLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(w, r, "limit must be a positive integer", []models.FieldError{
				{Field: "limit", Message: "must be a positive integer"},
			})
			return
		}
		limit = parsed
	}
	if limit > maxSuggestLimit {
		limit = maxSuggestLimit
	}

	places, err := h.suggester.Suggestions(r.Context(), query, limit)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.SuggestResponse{
		Query:  query,
		Places: places,
	})
}

// Locate handles GET /v1/geo/locate - IP-based city candidates.
func (h *GeoHandler) Locate(w http.ResponseWriter, r *http.Request) {
	located, err := h.locator.LocateCityCandidates(r.Context())
	if err != nil {
		writeLookupError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.LocateResponse{CityLocationResult: located})
}

// Match handles GET /v1/geo/match - auto-match the device location to a city.
// Results are cached briefly so repeated polling does not hammer the upstream
// IP and geocoding services.
func (h *GeoHandler) Match(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.match != nil && time.Since(h.resolvedAt) < matchCacheTTL {
		resp := models.MatchResponse{
			CityAutoMatchResult: *h.match,
			ResolvedAt:          models.Timestamp(h.resolvedAt),
		}
		h.mu.Unlock()
		response.JSON(w, r, http.StatusOK, resp)
		return
	}
	h.mu.Unlock()

	result, err := h.matcher.ResolveCity(r.Context())
	if err != nil {
		writeLookupError(w, r, err)
		return
	}

	now := time.Now()
	h.mu.Lock()
	h.match = &result
	h.resolvedAt = now
	h.mu.Unlock()

	response.JSON(w, r, http.StatusOK, models.MatchResponse{
		CityAutoMatchResult: result,
		ResolvedAt:          models.Timestamp(now),
	})
}

// writeLookupError maps geo and weather lookup errors onto problem responses.
func writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, weather.ErrValidation):
		response.BadRequest(w, r, err.Error(), nil)
	case errors.Is(err, weather.ErrNotFound):
		response.NotFound(w, r, err.Error())
	case errors.Is(err, geo.ErrNetwork), errors.Is(err, geo.ErrParse),
		errors.Is(err, weather.ErrNetwork), errors.Is(err, weather.ErrParse):
		response.BadGateway(w, r, err.Error())
	default:
		response.InternalError(w, r, "lookup failed")
	}
}
