// Package jooble wraps the Jooble REST search API.
package jooble

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://jooble.org/api"

// Config defines Jooble client settings
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client

	// RequestsPerSecond throttles outgoing calls; zero disables throttling
	RequestsPerSecond float64
}

// Client queries Jooble
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// SearchParams describe one Jooble search
type SearchParams struct {
	Keywords string
	Location string
	Page     int
	Limit    int
}

// Job is one Jooble result
type Job struct {
	ID       string
	Title    string
	Company  string
	Snippet  string
	Location string
	Type     string
	Salary   string
	Source   string
	Updated  *time.Time
	Link     string
}

type searchRequest struct {
	Keywords     string `json:"keywords"`
	Location     string `json:"location,omitempty"`
	Page         string `json:"page,omitempty"`
	ResultOnPage string `json:"ResultOnPage,omitempty"`
}

type searchResponse struct {
	TotalCount int       `json:"totalCount"`
	Jobs       []joobJob `json:"jobs"`
}

type joobJob struct {
	ID       flexString `json:"id"`
	Title    string     `json:"title"`
	Location string     `json:"location"`
	Snippet  string     `json:"snippet"`
	Salary   string     `json:"salary"`
	Source   string     `json:"source"`
	Type     string     `json:"type"`
	Link     string     `json:"link"`
	Company  string     `json:"company"`
	Updated  string     `json:"updated"`
}

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

// NewClient builds a Jooble client; the API key is required
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("jooble: api key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		limiter:    newLimiter(cfg.RequestsPerSecond),
	}, nil
}

// Search posts a keyword query and returns the jobs in response order
func (c *Client) Search(ctx context.Context, params SearchParams) ([]Job, error) {
	payload := searchRequest{
		Keywords: strings.TrimSpace(params.Keywords),
		Location: strings.TrimSpace(params.Location),
	}
	if params.Page > 0 {
		payload.Page = fmt.Sprint(params.Page)
	}
	if params.Limit > 0 {
		payload.ResultOnPage = fmt.Sprint(params.Limit)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("jooble: encode request: %w", err)
	}

	endpoint := c.baseURL + "/" + url.PathEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("jooble: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("jooble: rate limit wait: %w", err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jooble: request failed: %w", redact(err, c.apiKey))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("jooble: API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("jooble: decode response: %w", err)
	}

	jobs := make([]Job, 0, len(out.Jobs))
	for _, j := range out.Jobs {
		jobs = append(jobs, Job{
			ID:       string(j.ID),
			Title:    j.Title,
			Company:  j.Company,
			Snippet:  j.Snippet,
			Location: j.Location,
			Type:     j.Type,
			Salary:   j.Salary,
			Source:   j.Source,
			Updated:  parseUpdated(j.Updated),
			Link:     j.Link,
		})
	}
	return jobs, nil
}

var updatedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.0000000",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseUpdated(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range updatedLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			ts = ts.UTC()
			return &ts
		}
	}
	return nil
}

// redact keeps the key, which is part of the URL, out of error messages
func redact(err error, key string) error {
	if key == "" {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), url.PathEscape(key), "***"))
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}
