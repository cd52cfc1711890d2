// Package weathercn fetches forecasts from weather.com.cn, the China
// Meteorological Administration portal. Unlike Open-Meteo it keys lookups by
// exact city name against the portal's city list, and it is the only provider
// that publishes severe-weather alarms.
package weathercn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/skycastlabs/skycast/internal/place"
	"github.com/skycastlabs/skycast/internal/provider/resilience"
	"github.com/skycastlabs/skycast/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "weather-com-cn"

	// DefaultCityListURL serves the JSONP city id registry.
	DefaultCityListURL = "https://i.tq121.com.cn/j/webgis_v2/city.json"

	// DefaultWeatherURL is the dingzhi page base; the city id and ".html" are appended.
	DefaultWeatherURL = "https://d1.weather.com.cn/dingzhi/"

	// referer is required by the upstream CDN or it serves an empty page.
	referer = "https://www.weather.com.cn/"

	userAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148"

	// cityListKey is the single go-cache entry holding the decoded city list.
	cityListKey = "citylist"

	// cityListTTL bounds city list staleness; the list changes rarely.
	cityListTTL = 24 * time.Hour
)

// cityInfo is one entry of the city registry: display name plus coordinates.
type cityInfo struct {
	Name string `json:"n"`
	X    string `json:"x"`
	Y    string `json:"y"`
}

// ClientConfig holds configuration for the weather.com.cn client.
type ClientConfig struct {
	// CityListURL overrides the city registry URL (optional).
	CityListURL string

	// WeatherURL overrides the dingzhi page base URL (optional).
	WeatherURL string

	// HTTPClient is the HTTP client to use (optional).
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a weather.com.cn provider.
type Client struct {
	cityListURL string
	weatherURL  string
	httpClient  *resilience.Client
	logger      zerolog.Logger
	cityList    *gocache.Cache
}

// NewClient creates a new weather.com.cn client.
func NewClient(cfg ClientConfig) *Client {
	cityListURL := cfg.CityListURL
	if cityListURL == "" {
		cityListURL = DefaultCityListURL
	}

	weatherURL := cfg.WeatherURL
	if weatherURL == "" {
		weatherURL = DefaultWeatherURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig("weather-com-cn"))
	}

	return &Client{
		cityListURL: cityListURL,
		weatherURL:  weatherURL,
		httpClient:  httpClient,
		logger:      cfg.Logger,
		cityList:    gocache.New(cityListTTL, cityListTTL),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Fetch resolves the place name to a city id via the registry, then parses the
// current conditions and any active alarms from the dingzhi page. Coordinates
// are not used; this provider is name-keyed only.
func (c *Client) Fetch(ctx context.Context, p place.Place) (*weather.Payload, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, weather.ErrValidation
	}

	cityID, err := c.cityID(ctx, name)
	if err != nil {
		return nil, err
	}
	if cityID == "" {
		return nil, fmt.Errorf("%w: %q", weather.ErrNotFound, name)
	}

	return c.fetchWeather(ctx, cityID)
}

// cityID looks the name up in the (cached) city registry; "" means unknown.
func (c *Client) cityID(ctx context.Context, name string) (string, error) {
	cities, err := c.loadCityList(ctx)
	if err != nil {
		return "", err
	}
	for id, info := range cities {
		if info.Name == name {
			return id, nil
		}
	}
	return "", nil
}

func (c *Client) loadCityList(ctx context.Context) (map[string]cityInfo, error) {
	if cached, ok := c.cityList.Get(cityListKey); ok {
		return cached.(map[string]cityInfo), nil
	}

	url := fmt.Sprintf("%s?_=%d", c.cityListURL, time.Now().UnixMilli())
	body, err := c.get(ctx, url, false)
	if err != nil {
		return nil, err
	}

	// The registry is JSONP: weacity({...}).
	text := strings.TrimSuffix(strings.TrimPrefix(string(body), "weacity("), ")")

	var cities map[string]cityInfo
	if err := json.Unmarshal([]byte(text), &cities); err != nil {
		return nil, fmt.Errorf("%w: city list: %v", weather.ErrParse, err)
	}

	c.cityList.Set(cityListKey, cities, gocache.DefaultExpiration)
	c.logger.Debug().Int("cities", len(cities)).Msg("city list refreshed")
	return cities, nil
}

func (c *Client) fetchWeather(ctx context.Context, cityID string) (*weather.Payload, error) {
	url := fmt.Sprintf("%s%s.html?_=%d", c.weatherURL, cityID, time.Now().UnixMilli())
	body, err := c.get(ctx, url, true)
	if err != nil {
		return nil, err
	}

	return parseDingzhi(string(body))
}

// get performs one GET with the headers the upstream requires.
func (c *Client) get(ctx context.Context, url string, mobileUA bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Referer", referer)
	if mobileUA {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", weather.ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrNetwork, err)
	}
	return body, nil
}

// parseDingzhi splits the page into its semicolon-separated JSON fragments:
// the first carries current conditions, the second active alarms.
func parseDingzhi(text string) (*weather.Payload, error) {
	parts := splitFragments(text)
	payload := &weather.Payload{}

	if len(parts) > 0 && strings.Contains(parts[0], "{") {
		var envelope struct {
			WeatherInfo struct {
				CityName string `json:"cityname"`
				FCTime   string `json:"fctime"`
				Temp     string `json:"temp"`
				TempN    string `json:"tempn"`
				Weather  string `json:"weather"`
				WD       string `json:"wd"`
				WS       string `json:"ws"`
			} `json:"weatherinfo"`
		}
		if err := json.Unmarshal([]byte(fromFirstBrace(parts[0])), &envelope); err != nil {
			return nil, fmt.Errorf("%w: weather fragment: %v", weather.ErrParse, err)
		}
		w := envelope.WeatherInfo
		payload.WeatherInfo = &weather.Info{
			City:          w.CityName,
			UpdateTime:    reformatFCTime(w.FCTime),
			TempHigh:      w.Temp,
			TempLow:       w.TempN,
			Weather:       w.Weather,
			WindDirection: w.WD,
			WindScale:     w.WS,
		}
	}

	if len(parts) > 1 && strings.Contains(parts[1], "{") {
		var envelope struct {
			W []struct {
				W5  string `json:"w5"`
				W7  string `json:"w7"`
				W8  string `json:"w8"`
				W9  string `json:"w9"`
				W13 string `json:"w13"`
			} `json:"w"`
		}
		if err := json.Unmarshal([]byte(fromFirstBrace(parts[1])), &envelope); err != nil {
			return nil, fmt.Errorf("%w: alarm fragment: %v", weather.ErrParse, err)
		}
		for _, a := range envelope.W {
			if a.W13 == "" || a.W5 == "" || a.W7 == "" || a.W8 == "" || a.W9 == "" {
				continue
			}
			payload.Alarms = append(payload.Alarms, weather.Alarm{
				Title:       a.W13,
				Type:        fmt.Sprintf("%s %s预警", a.W5, a.W7),
				PublishTime: a.W8,
				Details:     a.W9,
			})
		}
	}

	return payload, nil
}

func splitFragments(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ";") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func fromFirstBrace(text string) string {
	if idx := strings.Index(text, "{"); idx >= 0 {
		return text[idx:]
	}
	return text
}

// reformatFCTime converts "YYYYMMDDHHmm" to "YYYY-MM-DD HH:mm:00"; any other
// shape passes through untouched.
func reformatFCTime(text string) string {
	if len(text) != 12 {
		return text
	}
	return fmt.Sprintf("%s-%s-%s %s:%s:00", text[0:4], text[4:6], text[6:8], text[8:10], text[10:12])
}
