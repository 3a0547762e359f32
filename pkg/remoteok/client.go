// Package remoteok is a small client for the public RemoteOK JSON feed.
package remoteok

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://remoteok.com/api"
	defaultUserAgent = "startsmart/1.0 (+https://github.com/honeycarbs/startsmart)"
	maxBodyBytes     = 16 << 20
)

// Config defines RemoteOK client settings. The feed is public, APIKey is optional.
type Config struct {
	APIKey     string
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client

	// RequestsPerSecond throttles outgoing calls; zero disables throttling
	RequestsPerSecond float64

	// MaxBodyBytes caps the feed size; zero means 16 MiB
	MaxBodyBytes int64
}

// ErrResponseTooLarge is returned when the feed exceeds the configured size cap
var ErrResponseTooLarge = errors.New("remoteok: response too large")

// Client fetches the RemoteOK feed
type Client struct {
	apiKey     string
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxBody    int64
}

// Job is one RemoteOK listing
type Job struct {
	ID          string
	Slug        string
	Position    string
	Company     string
	Description string
	Location    string
	Tags        []string
	Date        *time.Time
	URL         string
	ApplyURL    string
}

type listing struct {
	ID          flexString `json:"id"`
	Slug        string     `json:"slug"`
	Position    string     `json:"position"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Tags        []string   `json:"tags"`
	Date        string     `json:"date"`
	URL         string     `json:"url"`
	ApplyURL    string     `json:"apply_url"`
}

// flexString accepts both JSON strings and numbers
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

// NewClient builds a RemoteOK client
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = maxBodyBytes
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		limiter:    newLimiter(cfg.RequestsPerSecond),
		maxBody:    maxBody,
	}
}

// Search fetches the feed and keeps listings whose position or tags contain
// at least one term. No terms keeps everything. limit <= 0 means no limit.
func (c *Client) Search(ctx context.Context, terms []string, limit int) ([]Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("remoteok: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("remoteok: rate limit wait: %w", err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remoteok: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("remoteok: API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("remoteok: read response: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: feed exceeds %d bytes", ErrResponseTooLarge, c.maxBody)
	}

	jobs, err := parseFeed(body)
	if err != nil {
		return nil, err
	}

	jobs = filterJobs(jobs, terms)
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

// parseFeed decodes the feed array. Element [0] is legal metadata and is skipped.
func parseFeed(body []byte) ([]Job, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("remoteok: decode response: %w", err)
	}
	if len(raw) <= 1 {
		return []Job{}, nil
	}

	jobs := make([]Job, 0, len(raw)-1)
	for _, item := range raw[1:] {
		var l listing
		if err := json.Unmarshal(item, &l); err != nil {
			continue
		}

		position := l.Position
		if position == "" {
			position = l.Title
		}
		if position == "" {
			continue
		}

		j := Job{
			ID:          string(l.ID),
			Slug:        l.Slug,
			Position:    position,
			Company:     l.Company,
			Description: l.Description,
			Location:    l.Location,
			Tags:        append([]string(nil), l.Tags...),
			URL:         l.URL,
			ApplyURL:    l.ApplyURL,
		}
		if l.Date != "" {
			if ts, err := time.Parse(time.RFC3339, l.Date); err == nil {
				ts = ts.UTC()
				j.Date = &ts
			}
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

func filterJobs(jobs []Job, terms []string) []Job {
	needles := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			needles = append(needles, t)
		}
	}
	if len(needles) == 0 {
		return jobs
	}

	out := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if matchesAny(j, needles) {
			out = append(out, j)
		}
	}
	return out
}

func matchesAny(j Job, needles []string) bool {
	position := strings.ToLower(j.Position)
	for _, n := range needles {
		if strings.Contains(position, n) {
			return true
		}
		for _, tag := range j.Tags {
			if strings.Contains(strings.ToLower(tag), n) {
				return true
			}
		}
	}
	return false
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}
