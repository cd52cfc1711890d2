// Package ipinfo is a minimal client for the ipinfo.io lookup API.
package ipinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/skycastlabs/skycast/internal/geo"
	"github.com/skycastlabs/skycast/internal/provider/resilience"
)

// DefaultBaseURL is the ipinfo.io lookup endpoint.
const DefaultBaseURL = "https://ipinfo.io/json"

// ClientConfig holds configuration for the ipinfo client.
type ClientConfig struct {
	// BaseURL overrides the lookup URL (optional).
	BaseURL string

	// Token is the ipinfo API token (optional; unauthenticated calls work
	// with a lower rate limit).
	Token string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, a resilient client with a 6s timeout and no retry is used.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an ipinfo.io client. It serves both as the structured location
// provider and as the public-IP provider for the two-hop locator.
type Client struct {
	baseURL    string
	token      string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new ipinfo client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig("ipinfo")
		clientCfg.Timeout = 6 * time.Second
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		baseURL:    baseURL,
		token:      cfg.Token,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// IPLocation fetches the device's public IP and coarse location.
func (c *Client) IPLocation(ctx context.Context) (geo.IPLocation, error) {
	lookupURL := c.baseURL
	if c.token != "" {
		lookupURL += "?token=" + url.QueryEscape(c.token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, http.NoBody)
	if err != nil {
		return geo.IPLocation{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geo.IPLocation{}, fmt.Errorf("%w: %v", geo.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.IPLocation{}, fmt.Errorf("%w: unexpected status code %d", geo.ErrNetwork, resp.StatusCode)
	}

	var loc geo.IPLocation
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		return geo.IPLocation{}, fmt.Errorf("%w: %v", geo.ErrParse, err)
	}

	c.logger.Debug().
		Str("ip", loc.IP).
		Str("country", loc.Country).
		Str("region", loc.Region).
		Str("city", loc.City).
		Msg("ip location resolved")
	return loc, nil
}

// PublicIP resolves the device's public IP address.
func (c *Client) PublicIP(ctx context.Context) (string, error) {
	loc, err := c.IPLocation(ctx)
	if err != nil {
		return "", err
	}
	return loc.IP, nil
}
