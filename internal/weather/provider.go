package weather

import (
	"context"

	"github.com/skycastlabs/skycast/internal/place"
)

// Provider fetches and normalizes forecast data for a place.
type Provider interface {
	// Fetch returns the current + hourly + daily forecast for the place.
	// Places without coordinates are geocoded by name first; ErrValidation is
	// returned when the place has neither, ErrNotFound when geocoding yields
	// nothing. A single attempt is made; retry policy belongs to the caller.
	Fetch(ctx context.Context, p place.Place) (*Payload, error)

	// Name returns the provider name for logging.
	Name() string
}
