package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/skycastlabs/skycast/internal/place"
	"github.com/skycastlabs/skycast/internal/provider/resilience"
	"github.com/skycastlabs/skycast/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "open-meteo"

	// DefaultForecastURL is the Open-Meteo forecast API base URL.
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

	// DefaultGeocodingURL is the Open-Meteo geocoding search API base URL.
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

	// maxSuggestionCount is the provider's upper bound for geocoding results.
	maxSuggestionCount = 20
)

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	// ForecastURL is the forecast API URL (optional).
	ForecastURL string

	// GeocodingURL is the geocoding search API URL (optional).
	GeocodingURL string

	// Language tags geocoding searches (optional, defaults to "zh").
	Language string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults: single attempt, no retry.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an Open-Meteo API client. It implements both the weather provider
// and the city suggester: forecast fetches and free-text geocoding share the
// same upstream service.
type Client struct {
	forecastURL  string
	geocodingURL string
	language     string
	httpClient   *resilience.Client
	logger       zerolog.Logger
}

// NewClient creates a new Open-Meteo client.
func NewClient(cfg ClientConfig) *Client {
	forecastURL := cfg.ForecastURL
	if forecastURL == "" {
		forecastURL = DefaultForecastURL
	}

	geocodingURL := cfg.GeocodingURL
	if geocodingURL == "" {
		geocodingURL = DefaultGeocodingURL
	}

	language := cfg.Language
	if language == "" {
		language = "zh"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig("open-meteo"))
	}

	return &Client{
		forecastURL:  forecastURL,
		geocodingURL: geocodingURL,
		language:     language,
		httpClient:   httpClient,
		logger:       cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Fetch returns the normalized forecast for a place. Places without
// coordinates are geocoded by name first, taking the top result by relevance;
// zero geocoding results fail with weather.ErrNotFound before the forecast
// endpoint is ever called.
func (c *Client) Fetch(ctx context.Context, p place.Place) (*weather.Payload, error) {
	if !p.HasCoordinates() && strings.TrimSpace(p.Name) == "" {
		return nil, weather.ErrValidation
	}

	lat, lon := 0.0, 0.0
	if p.HasCoordinates() {
		lat, lon = *p.Latitude, *p.Longitude
	} else {
		results, err := c.search(ctx, p.Name, 1)
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			return nil, fmt.Errorf("%w: %q", weather.ErrNotFound, p.Name)
		}
		lat, lon = results[0].Latitude, results[0].Longitude
	}

	query := url.Values{}
	query.Set("latitude", fmt.Sprintf("%.4f", lat))
	query.Set("longitude", fmt.Sprintf("%.4f", lon))
	query.Set("current", strings.Join([]string{
		"temperature_2m", "relative_humidity_2m", "precipitation",
		"weather_code", "surface_pressure",
		"wind_speed_10m", "wind_direction_10m", "wind_gusts_10m",
	}, ","))
	query.Set("hourly", strings.Join([]string{
		"temperature_2m", "precipitation_probability", "weather_code",
	}, ","))
	query.Set("daily", strings.Join([]string{
		"temperature_2m_max", "temperature_2m_min", "weather_code",
		"sunrise", "sunset", "uv_index_max",
	}, ","))
	query.Set("timezone", "auto")
	query.Set("wind_speed_unit", "ms")

	c.logger.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Str("place_id", p.ID).
		Msg("fetching forecast")

	var resp forecastResponse
	if err := c.getJSON(ctx, c.forecastURL+"?"+query.Encode(), &resp); err != nil {
		return nil, err
	}

	return toPayload(p, &resp), nil
}

// Suggestions returns ranked candidate places for a free-text query,
// deduplicated by place ID while preserving the server's relevance order.
// An empty or whitespace-only query, or a non-positive limit, returns nil
// without a network call.
func (c *Client) Suggestions(ctx context.Context, query string, limit int) ([]place.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return nil, nil
	}

	count := limit
	if count > maxSuggestionCount {
		count = maxSuggestionCount
	}

	results, err := c.search(ctx, query, count)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(results))
	places := make([]place.Place, 0, len(results))
	for _, r := range results {
		lat, lon := r.Latitude, r.Longitude
		p := place.New(r.Name, r.Country, r.Admin1, &lat, &lon)
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		places = append(places, p)
		if len(places) == limit {
			break
		}
	}
	return places, nil
}

// search runs a geocoding query and returns the raw results.
func (c *Client) search(ctx context.Context, name string, count int) ([]geocodingResult, error) {
	query := url.Values{}
	query.Set("name", name)
	query.Set("count", fmt.Sprintf("%d", count))
	query.Set("language", c.language)
	query.Set("format", "json")

	var resp geocodingResponse
	if err := c.getJSON(ctx, c.geocodingURL+"?"+query.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// getJSON performs one GET and decodes the body, mapping failures onto the
// weather error taxonomy.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", weather.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status code %d", weather.ErrNetwork, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", weather.ErrParse, err)
	}
	return nil
}

// toPayload maps the forecast response into the normalized weather schema.
func toPayload(p place.Place, resp *forecastResponse) *weather.Payload {
	payload := &weather.Payload{}

	if resp.Hourly != nil {
		payload.Hourly = &weather.Hourly{
			Time:                     resp.Hourly.Time,
			Temperature2M:            resp.Hourly.Temperature2M,
			PrecipitationProbability: resp.Hourly.PrecipitationProbability,
			WeatherCode:              resp.Hourly.WeatherCode,
		}
	}
	if resp.Daily != nil {
		payload.Daily = &weather.Daily{
			Time:             resp.Daily.Time,
			Temperature2MMax: resp.Daily.Temperature2MMax,
			Temperature2MMin: resp.Daily.Temperature2MMin,
			WeatherCode:      resp.Daily.WeatherCode,
			Sunrise:          resp.Daily.Sunrise,
			Sunset:           resp.Daily.Sunset,
			UVIndexMax:       resp.Daily.UVIndexMax,
		}
	}

	cur := resp.Current
	if cur == nil {
		return payload
	}

	info := &weather.Info{
		City:       p.Name,
		UpdateTime: cur.Time,
	}
	if info.City == "" {
		info.City = p.DisplayName()
	}

	if cur.Temperature2M != nil {
		info.Temperature = weather.FormatTemperature(*cur.Temperature2M)
		info.TemperatureC = cur.Temperature2M
	}
	if cur.WeatherCode != nil {
		info.Weather = weather.DescribeWeatherCode(*cur.WeatherCode)
	}
	if cur.WindDirection10M != nil {
		info.WindDirection = weather.CompassDirection(*cur.WindDirection10M)
		info.WindDegrees = cur.WindDirection10M
	}
	if cur.WindSpeed10M != nil {
		info.WindScale = weather.BeaufortScale(*cur.WindSpeed10M)
		info.WindSpeedMS = cur.WindSpeed10M
	}
	info.WindGustMS = cur.WindGusts10M
	info.Humidity = cur.RelativeHumidity2M
	info.Pressure = cur.SurfacePressure
	if cur.Precipitation != nil {
		info.Precipitation = weather.FormatPrecipitation(*cur.Precipitation)
		info.PrecipitationMM = cur.Precipitation
	}

	if d := payload.Daily; d != nil && d.AlignedLen() > 0 {
		if len(d.Temperature2MMax) > 0 {
			info.TempHigh = weather.FormatTemperature(d.Temperature2MMax[0])
		}
		if len(d.Temperature2MMin) > 0 {
			info.TempLow = weather.FormatTemperature(d.Temperature2MMin[0])
		}
		if len(d.Sunrise) > 0 {
			info.Sunrise = d.Sunrise[0]
		}
		if len(d.Sunset) > 0 {
			info.Sunset = d.Sunset[0]
		}
		if len(d.UVIndexMax) > 0 {
			uv := d.UVIndexMax[0]
			info.UVIndex = &uv
		}
	}

	payload.WeatherInfo = info
	return payload
}
