package weather

import (
	"errors"
)

// Weather errors. Callers match with errors.Is; none of them trigger an
// automatic retry anywhere in this package.
var (
	ErrValidation = errors.New("place has neither coordinates nor a name")
	ErrNotFound   = errors.New("no results for location")
	ErrNetwork    = errors.New("weather provider unreachable")
	ErrParse      = errors.New("weather response malformed")
)

// Payload is the normalized forecast snapshot for one place. WeatherInfo may
// be nil when the provider responded but produced no usable current-conditions
// snapshot, which is distinct from a fetch failure.
type Payload struct {
	WeatherInfo *Info   `json:"weatherInfo,omitempty"`
	Hourly      *Hourly `json:"hourly,omitempty"`
	Daily       *Daily  `json:"daily,omitempty"`
	Alarms      []Alarm `json:"alarms,omitempty"`
}

// Info is the normalized current-conditions snapshot. The string fields are
// display-ready; the pointer fields carry the raw numeric counterparts for
// gauges and are nil when the provider omitted them.
type Info struct {
	City          string `json:"city"`
	UpdateTime    string `json:"updateTime"`
	Temperature   string `json:"temperature"`
	TempHigh      string `json:"tempHigh"`
	TempLow       string `json:"tempLow"`
	Weather       string `json:"weather"`
	WindDirection string `json:"windDirection"`
	WindScale     string `json:"windScale"`

	Precipitation string `json:"precipitation,omitempty"`
	Visibility    string `json:"visibility,omitempty"`
	Sunrise       string `json:"sunrise,omitempty"`
	Sunset        string `json:"sunset,omitempty"`

	TemperatureC    *float64 `json:"temperatureC,omitempty"`
	WindDegrees     *float64 `json:"windDegrees,omitempty"`
	WindSpeedMS     *float64 `json:"windSpeedMs,omitempty"`
	WindGustMS      *float64 `json:"windGustMs,omitempty"`
	Humidity        *float64 `json:"humidity,omitempty"`
	PrecipitationMM *float64 `json:"precipitationMm,omitempty"`
	Pressure        *float64 `json:"pressure,omitempty"`
	VisibilityM     *float64 `json:"visibilityM,omitempty"`
	UVIndex         *float64 `json:"uvIndex,omitempty"`
}

// Hourly holds hour-by-hour forecast series as parallel arrays: index i across
// every non-empty array refers to the same timestamp.
type Hourly struct {
	Time                     []string  `json:"time"`
	Temperature2M            []float64 `json:"temperature2m"`
	PrecipitationProbability []float64 `json:"precipitationProbability,omitempty"`
	WeatherCode              []int     `json:"weatherCode,omitempty"`
}

// AlignedLen returns the shortest length across the non-empty series. Consumers
// must clamp to it before zipping arrays, since the provider may omit a field.
func (h *Hourly) AlignedLen() int {
	n := len(h.Time)
	n = clampLen(n, h.Temperature2M)
	n = clampLen(n, h.PrecipitationProbability)
	n = clampLen(n, h.WeatherCode)
	return n
}

// Daily holds day-by-day forecast series, same parallel-array contract as Hourly.
type Daily struct {
	Time             []string  `json:"time"`
	Temperature2MMax []float64 `json:"temperature2mMax,omitempty"`
	Temperature2MMin []float64 `json:"temperature2mMin,omitempty"`
	WeatherCode      []int     `json:"weatherCode,omitempty"`
	Sunrise          []string  `json:"sunrise,omitempty"`
	Sunset           []string  `json:"sunset,omitempty"`
	UVIndexMax       []float64 `json:"uvIndexMax,omitempty"`
}

// AlignedLen returns the shortest length across the non-empty series.
func (d *Daily) AlignedLen() int {
	n := len(d.Time)
	n = clampLen(n, d.Temperature2MMax)
	n = clampLen(n, d.Temperature2MMin)
	n = clampLen(n, d.WeatherCode)
	n = clampLen(n, d.Sunrise)
	n = clampLen(n, d.Sunset)
	n = clampLen(n, d.UVIndexMax)
	return n
}

func clampLen[T any](n int, s []T) int {
	if s != nil && len(s) < n {
		return len(s)
	}
	return n
}

// Alarm is a severe-weather warning published alongside a forecast.
type Alarm struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	PublishTime string `json:"publishTime"`
	Details     string `json:"details"`
}

// ID identifies an alarm for dedup purposes.
func (a Alarm) ID() string {
	return a.PublishTime + "|" + a.Title
}

// Status names the lifecycle phase of a place's weather state.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusFailed  Status = "failed"
)

// State is the per-place weather state the board tracks. Payload is set only
// when Status is StatusLoaded; Err only when Status is StatusFailed.
type State struct {
	Status  Status   `json:"status"`
	Payload *Payload `json:"payload,omitempty"`
	Err     string   `json:"error,omitempty"`
}

// Loaded reports whether the state carries a successfully fetched payload.
func (s State) Loaded() bool {
	return s.Status == StatusLoaded && s.Payload != nil
}
