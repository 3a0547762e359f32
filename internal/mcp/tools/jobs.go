package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/startsmart/internal/domain"
	"github.com/honeycarbs/startsmart/internal/domain/job"
	"github.com/honeycarbs/startsmart/pkg/logging"
)

// JobSearchParams defines the arguments for the job_search tool
type JobSearchParams struct {
	Query    string   `json:"query,omitempty" jsonschema:"Free-text term matched against title and description"`
	Country  string   `json:"country,omitempty" jsonschema:"Country name or two-letter code, defaults to fr"`
	Location string   `json:"location,omitempty" jsonschema:"Preferred location filter"`
	Skills   []string `json:"skills,omitempty" jsonschema:"Seeker skills used for filtering and scoring"`
	Page     int      `json:"page,omitempty" jsonschema:"1-indexed page for paginated providers"`
}

// JobLookupParams defines the arguments for the job_lookup tool
type JobLookupParams struct {
	ID     string   `json:"id" jsonschema:"Local posting id (uuid)"`
	Skills []string `json:"skills,omitempty" jsonschema:"Seeker skills used for scoring"`
}

// JobRecommendationsParams defines the arguments for the job_recommendations tool
type JobRecommendationsParams struct {
	Skills []string `json:"skills" jsonschema:"Seeker skills to rank local postings against"`
}

// JobSummary is the posting shape returned by job tools
type JobSummary struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Title       string `json:"title"`
	Company     string `json:"company,omitempty"`
	Country     string `json:"country,omitempty"`
	Location    string `json:"location,omitempty"`
	RemoteType  string `json:"remote_type,omitempty"`
	PostedDate  string `json:"posted_date,omitempty"`
	URL         string `json:"url,omitempty"`
	Match       int    `json:"match"`
	Description string `json:"description,omitempty"`
}

// JobListResult wraps a list of postings
type JobListResult struct {
	Jobs  []JobSummary `json:"jobs"`
	Count int          `json:"count"`
}

type jobHandler struct {
	svc    job.Service
	logger *logging.Logger
}

// WithJobSearch registers the job_search tool
func WithJobSearch(svc job.Service) Option {
	return func(reg *registry) {
		h := jobHandler{svc: svc, logger: reg.logger}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "job_search",
			Description: "Search the local job store and external job boards, returning normalized postings scored against the given skills",
			Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true},
		}, h.search)
	}
}

// WithJobLookup registers the job_lookup tool
func WithJobLookup(svc job.Service) Option {
	return func(reg *registry) {
		h := jobHandler{svc: svc, logger: reg.logger}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "job_lookup",
			Description: "Fetch one posting from the local job store by id",
			Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true},
		}, h.lookup)
	}
}

// WithJobRecommendations registers the job_recommendations tool
func WithJobRecommendations(svc job.Service) Option {
	return func(reg *registry) {
		h := jobHandler{svc: svc, logger: reg.logger}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "job_recommendations",
			Description: "Rank local postings by skill match and return the best ones",
			Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true},
		}, h.recommend)
	}
}

func (h jobHandler) search(ctx context.Context, _ *sdkmcp.CallToolRequest, params JobSearchParams) (*sdkmcp.CallToolResult, JobListResult, error) {
	if h.svc == nil {
		return nil, JobListResult{}, errors.New("job service not configured")
	}

	postings, err := h.svc.Search(ctx, domain.SearchQuery{
		Country:  params.Country,
		Text:     params.Query,
		Location: params.Location,
		Skills:   params.Skills,
		Page:     params.Page,
	})
	if err != nil {
		h.logger.Warn("job_search failed", "err", err)
		return nil, JobListResult{}, err
	}

	return nil, listResult(postings, false), nil
}

func (h jobHandler) lookup(ctx context.Context, _ *sdkmcp.CallToolRequest, params JobLookupParams) (*sdkmcp.CallToolResult, JobSummary, error) {
	if h.svc == nil {
		return nil, JobSummary{}, errors.New("job service not configured")
	}

	p, err := h.svc.Lookup(ctx, params.ID, params.Skills)
	if err != nil {
		return nil, JobSummary{}, fmt.Errorf("job_lookup %q: %w", params.ID, err)
	}

	return nil, summarize(p, true), nil
}

func (h jobHandler) recommend(ctx context.Context, _ *sdkmcp.CallToolRequest, params JobRecommendationsParams) (*sdkmcp.CallToolResult, JobListResult, error) {
	if h.svc == nil {
		return nil, JobListResult{}, errors.New("job service not configured")
	}

	postings, err := h.svc.Recommend(ctx, params.Skills)
	if err != nil {
		return nil, JobListResult{}, err
	}

	return nil, listResult(postings, false), nil
}

func listResult(postings []domain.Posting, withDescription bool) JobListResult {
	out := JobListResult{Jobs: make([]JobSummary, 0, len(postings))}
	for _, p := range postings {
		out.Jobs = append(out.Jobs, summarize(p, withDescription))
	}
	out.Count = len(out.Jobs)
	return out
}

func summarize(p domain.Posting, withDescription bool) JobSummary {
	s := JobSummary{
		ID:         p.ID,
		Source:     string(p.Source),
		Title:      p.Title,
		Company:    p.Company,
		Country:    p.Country,
		Location:   p.Location,
		RemoteType: string(p.RemoteType),
		URL:        p.RedirectURL,
		Match:      p.MatchPercentage,
	}
	if p.PostedDate != nil {
		s.PostedDate = p.PostedDate.UTC().Format(time.RFC3339)
	}
	if withDescription {
		s.Description = p.Description
	}
	return s
}
