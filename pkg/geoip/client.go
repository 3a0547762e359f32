// Package geoip resolves client IP addresses to ISO country codes using ip-api.com,
// with an optional redis cache in front.
package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL  = "http://ip-api.com"
	defaultCacheTTL = 24 * time.Hour
	cachePrefix     = "geoip:"
)

// ErrNotPublic is returned for empty, private or loopback addresses
var ErrNotPublic = errors.New("geoip: address is not a public ip")

// ErrUnknown is returned when the lookup service has no country for the address
var ErrUnknown = errors.New("geoip: country not found")

// Cache stores resolved codes by ip. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Config defines geoip client settings
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Cache      Cache // optional
	CacheTTL   time.Duration
}

// Client looks up countries by ip
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	ttl        time.Duration
}

type lookupResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	CountryCode string `json:"countryCode"`
}

// NewClient builds a geoip client
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		cache:      cfg.Cache,
		ttl:        ttl,
	}
}

// Locate returns the lower-cased two-letter country code for ip
func (c *Client) Locate(ctx context.Context, ip string) (string, error) {
	addr := net.ParseIP(strings.TrimSpace(ip))
	if addr == nil || addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() || addr.IsLinkLocalUnicast() {
		return "", ErrNotPublic
	}
	key := cachePrefix + addr.String()

	if c.cache != nil {
		// cache failures fall through to a live lookup
		if code, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			return code, nil
		}
	}

	code, err := c.lookup(ctx, addr.String())
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, key, code, c.ttl)
	}
	return code, nil
}

func (c *Client) lookup(ctx context.Context, ip string) (string, error) {
	u := c.baseURL + "/json/" + url.PathEscape(ip) + "?fields=status,message,countryCode"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("geoip: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("geoip: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("geoip: API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("geoip: decode response: %w", err)
	}
	if out.Status == "fail" || out.CountryCode == "" {
		return "", ErrUnknown
	}
	return strings.ToLower(out.CountryCode), nil
}
