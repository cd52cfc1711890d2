// Package worker provides background job processing for SkyCast.
package worker

import (
	"time"

	"github.com/skycastlabs/skycast/internal/place"
)

// RefreshConfig holds configuration for the cache refresh job.
type RefreshConfig struct {
	// FallbackPlaces are refreshed when the place store is empty or
	// unavailable. If empty, uses DefaultRefreshPlaces.
	FallbackPlaces []place.Place

	// Concurrency is the number of concurrent refresh operations.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for each refresh operation.
	// Default: 30 seconds
	Timeout time.Duration
}

// DefaultRefreshConfig returns the default refresh configuration.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		FallbackPlaces: DefaultRefreshPlaces(),
		Concurrency:    3,
		Timeout:        30 * time.Second,
	}
}

// DefaultRefreshPlaces returns the default refresh places: major Chinese
// cities, so fresh forecasts are cached for the most common first-launch
// selections even before any user tracks a place.
func DefaultRefreshPlaces() []place.Place {
	return []place.Place{
		newRefreshPlace("北京", 39.9042, 116.4074),
		newRefreshPlace("上海", 31.2304, 121.4737),
		newRefreshPlace("广州", 23.1291, 113.2644),
		newRefreshPlace("深圳", 22.5431, 114.0579),
		newRefreshPlace("成都", 30.5728, 104.0668),
		newRefreshPlace("杭州", 30.2741, 120.1551),
		newRefreshPlace("武汉", 30.5928, 114.3055),
		newRefreshPlace("西安", 34.3416, 108.9398),
	}
}

func newRefreshPlace(name string, lat, lon float64) place.Place {
	return place.New(name, "中国", "", &lat, &lon)
}
