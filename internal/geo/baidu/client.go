// Package baidu is a client for the Baidu OpenData IP location API, which maps
// an IP address to a CN administrative location string.
package baidu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/skycastlabs/skycast/internal/geo"
	"github.com/skycastlabs/skycast/internal/provider/resilience"
)

// DefaultBaseURL is the Baidu OpenData API endpoint.
const DefaultBaseURL = "https://opendata.baidu.com/api.php"

// resourceID selects the IP-location dataset on the OpenData API.
const resourceID = "6006"

// ClientConfig holds configuration for the Baidu OpenData client.
type ClientConfig struct {
	// BaseURL overrides the API URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, a resilient client with a 6s timeout and no retry is used.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client resolves IP addresses to location text via Baidu OpenData.
type Client struct {
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new Baidu OpenData client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig("baidu-opendata")
		clientCfg.Timeout = 6 * time.Second
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// LocationText resolves an IP to a human-readable location string, e.g.
// "新疆维吾尔自治区昌吉回族自治州昌吉市 电信".
func (c *Client) LocationText(ctx context.Context, ip string) (string, error) {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return "", fmt.Errorf("%w: empty ip", geo.ErrNetwork)
	}

	query := url.Values{}
	query.Set("query", ip)
	query.Set("co", "")
	query.Set("resource_id", resourceID)
	query.Set("oe", "utf8")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), http.NoBody)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", geo.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status code %d", geo.ErrNetwork, resp.StatusCode)
	}

	var decoded struct {
		Status string `json:"status"`
		Data   []struct {
			Location string `json:"location"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: %v", geo.ErrParse, err)
	}

	if decoded.Status != "0" {
		return "", fmt.Errorf("%w: status %q", geo.ErrParse, decoded.Status)
	}

	location := ""
	if len(decoded.Data) > 0 {
		location = strings.TrimSpace(decoded.Data[0].Location)
	}
	if location == "" {
		return "", fmt.Errorf("%w: empty location", geo.ErrParse)
	}

	c.logger.Debug().Str("ip", ip).Str("location", location).Msg("ip location text resolved")
	return location, nil
}
