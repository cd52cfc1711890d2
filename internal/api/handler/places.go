package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skycastlabs/skycast/internal/api/models"
	"github.com/skycastlabs/skycast/internal/api/response"
	"github.com/skycastlabs/skycast/internal/place"
	"github.com/skycastlabs/skycast/internal/weather"
)

// PlacesHandler handles tracked-place and per-place weather endpoints.
type PlacesHandler struct {
	board *weather.Board
}

// NewPlacesHandler creates a new PlacesHandler.
func NewPlacesHandler(board *weather.Board) *PlacesHandler {
	return &PlacesHandler{board: board}
}

// ListPlaces handles GET /v1/places - list tracked places and the selection.
func (h *PlacesHandler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	snap := h.board.Snapshot()
	response.JSON(w, r, http.StatusOK, models.PlacesResponse{
		Places:          snap.Places,
		SelectedPlaceID: snap.SelectedID,
	})
}

// AddPlace handles POST /v1/places - track a new place and select it.
func (h *PlacesHandler) AddPlace(w http.ResponseWriter, r *http.Request) {
	var input models.AddPlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if input.Name == "" && !input.CurrentLocation {
		response.BadRequest(w, r, "name is required", []models.FieldError{
			{Field: "name", Message: "must not be empty"},
		})
		return
	}
	if (input.Latitude == nil) != (input.Longitude == nil) {
		response.BadRequest(w, r, "latitude and longitude must be provided together", nil)
		return
	}
	if input.Latitude != nil {
		if *input.Latitude < -90 || *input.Latitude > 90 {
			response.BadRequest(w, r, "latitude out of range", []models.FieldError{
				{Field: "latitude", Message: "must be between -90 and 90"},
			})
			return
		}
		if *input.Longitude < -180 || *input.Longitude > 180 {
			response.BadRequest(w, r, "longitude out of range", []models.FieldError{
				{Field: "longitude", Message: "must be between -180 and 180"},
			})
			return
		}
	}

	p := place.New(input.Name, input.Country, input.Admin1, input.Latitude, input.Longitude)
	if input.CurrentLocation {
		p.ID = place.CurrentLocationID
	}

	h.board.AddPlace(r.Context(), p)

	location := fmt.Sprintf("/v1/places/%s/weather", p.ID)
	response.Created(w, r, location, p)
}

// DeletePlace handles DELETE /v1/places/{placeId} - stop tracking a place.
func (h *PlacesHandler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "placeId")
	if placeID == "" {
		response.BadRequest(w, r, "placeId is required", nil)
		return
	}

	h.board.RemovePlace(r.Context(), placeID)
	response.NoContent(w, r)
}

// SelectPlace handles PUT /v1/places/selected - change the selected place.
func (h *PlacesHandler) SelectPlace(w http.ResponseWriter, r *http.Request) {
	var input models.SelectPlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if input.PlaceID == "" {
		response.BadRequest(w, r, "placeId is required", []models.FieldError{
			{Field: "placeId", Message: "must not be empty"},
		})
		return
	}

	if err := h.board.SelectPlace(r.Context(), input.PlaceID); err != nil {
		if errors.Is(err, place.ErrPlaceNotFound) {
			response.NotFound(w, r, "place is not tracked")
			return
		}
		response.InternalError(w, r, "failed to select place")
		return
	}

	snap := h.board.Snapshot()
	response.JSON(w, r, http.StatusOK, models.PlacesResponse{
		Places:          snap.Places,
		SelectedPlaceID: snap.SelectedID,
	})
}

// RefreshPlace handles POST /v1/places/{placeId}/refresh - trigger a fetch.
func (h *PlacesHandler) RefreshPlace(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "placeId")
	if placeID == "" {
		response.BadRequest(w, r, "placeId is required", nil)
		return
	}

	snap := h.board.Snapshot()
	if _, ok := snap.States[placeID]; !ok {
		response.NotFound(w, r, "place is not tracked")
		return
	}

	h.board.Fetch(placeID)
	response.Accepted(w, r, fmt.Sprintf("/v1/places/%s/weather", placeID), nil)
}

// RefreshAll handles POST /v1/places/refresh - trigger fetches for every place.
func (h *PlacesHandler) RefreshAll(w http.ResponseWriter, r *http.Request) {
	h.board.RefreshAll()
	response.Accepted(w, r, "/v1/places", nil)
}

// GetWeather handles GET /v1/places/{placeId}/weather - per-place weather state.
func (h *PlacesHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "placeId")
	if placeID == "" {
		response.BadRequest(w, r, "placeId is required", nil)
		return
	}

	snap := h.board.Snapshot()
	state, ok := snap.States[placeID]
	if !ok {
		response.NotFound(w, r, "place is not tracked")
		return
	}

	response.JSON(w, r, http.StatusOK, models.PlaceWeatherResponse{
		PlaceID:    placeID,
		State:      state,
		Refreshing: snap.Refreshing[placeID],
	})
}
