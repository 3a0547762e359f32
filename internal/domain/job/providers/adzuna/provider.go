package adzuna

import (
	"context"
	"fmt"

	"github.com/honeycarbs/startsmart/internal/domain"
	"github.com/honeycarbs/startsmart/internal/domain/geo"
	jobdomain "github.com/honeycarbs/startsmart/internal/domain/job"
	"github.com/honeycarbs/startsmart/pkg/adzuna"
)

// Name is the provider identifier
const Name = "adzuna"

// supportedCountries lists the country endpoints Adzuna serves
var supportedCountries = map[string]bool{
	"at": true, "au": true, "be": true, "br": true, "ca": true, "ch": true,
	"de": true, "es": true, "fr": true, "gb": true, "in": true, "it": true,
	"mx": true, "nl": true, "nz": true, "pl": true, "sg": true, "us": true,
	"za": true,
}

// searchClient describes the subset of the Adzuna client used by the provider.
type searchClient interface {
	SearchJobs(ctx context.Context, params adzuna.SearchParams) ([]adzuna.Job, error)
}

// Provider implements job.Provider using Adzuna API
type Provider struct {
	client searchClient
}

// NewProvider builds an Adzuna provider
func NewProvider(client searchClient) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("adzuna provider: client is required")
	}
	return &Provider{client: client}, nil
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return Name
}

// Search queries Adzuna and returns raw Adzuna records
func (p *Provider) Search(ctx context.Context, q domain.ProviderQuery) ([]domain.RawRecord, error) {
	params := adzuna.SearchParams{
		Country: geo.CodeIn(q.Country, supportedCountries),
		What:    q.Keywords(),
		Where:   q.Location,
		Page:    q.Page,
		Limit:   q.Limit,
	}

	jobs, err := p.client.SearchJobs(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrProviderUnavailable, Name, err)
	}

	out := make([]domain.RawRecord, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, domain.AdzunaRecord{
			ID:           j.ID,
			Title:        j.Title,
			Company:      j.CompanyName,
			Description:  j.Description,
			Location:     j.Location,
			Area:         j.Area,
			ContractTime: j.ContractTime,
			Category:     j.Category,
			Created:      j.PostedAt,
			RedirectURL:  j.URL,
		})
	}

	return out, nil
}

var _ jobdomain.Provider = (*Provider)(nil)
