package adzuna

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Config defines Adzuna API client settings
type Config struct {
	AppID      string
	AppKey     string
	BaseURL    string
	HTTPClient *http.Client
	PageSize   int

	// RequestsPerSecond throttles outgoing calls; zero disables throttling
	RequestsPerSecond float64
}

// Client queries Adzuna job search API
type Client struct {
	appID      string
	appKey     string
	baseURL    string
	httpClient *http.Client
	pageSize   int
	limiter    *rate.Limiter
}

// SearchParams describe a job search request
type SearchParams struct {
	Country string // two-letter Adzuna country code
	What    string // keywords
	Where   string
	Page    int
	Limit   int // results_per_page, defaults to the client page size
}

type jobSearchResponse struct {
	Count   int          `json:"count"`
	Results []jobPosting `json:"results"`
}

type jobPosting struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Company     companySummary  `json:"company"`
	Location    locationSummary `json:"location"`
	Description string          `json:"description"`
	Created     string          `json:"created"`
	RedirectURL string          `json:"redirect_url"`
	Contract    string          `json:"contract_time"`
	Category    struct {
		Label string `json:"label"`
	} `json:"category"`
	SalaryMin float64 `json:"salary_min"`
	SalaryMax float64 `json:"salary_max"`
}

type companySummary struct {
	DisplayName string `json:"display_name"`
}

type locationSummary struct {
	DisplayName string   `json:"display_name"`
	Area        []string `json:"area"`
}

// Job represents an Adzuna job posting.
type Job struct {
	ID           string
	Title        string
	CompanyName  string
	Location     string
	Area         []string
	URL          string
	Description  string
	ContractTime string
	Category     string
	PostedAt     *time.Time
	SalaryMin    float64
	SalaryMax    float64
}
