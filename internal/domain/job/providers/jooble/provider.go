package jooble

import (
	"context"
	"fmt"
	"strings"

	"github.com/honeycarbs/startsmart/internal/domain"
	"github.com/honeycarbs/startsmart/internal/domain/geo"
	jobdomain "github.com/honeycarbs/startsmart/internal/domain/job"
	"github.com/honeycarbs/startsmart/pkg/jooble"
)

// Name is the provider identifier
const Name = "jooble"

type searchClient interface {
	Search(ctx context.Context, params jooble.SearchParams) ([]jooble.Job, error)
}

// Provider implements job.Provider using the Jooble API
type Provider struct {
	client searchClient
}

// NewProvider builds a Jooble provider
func NewProvider(client searchClient) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("jooble provider: client is required")
	}
	return &Provider{client: client}, nil
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return Name
}

// Search queries Jooble. Location is the explicit location when given,
// otherwise the country name.
func (p *Provider) Search(ctx context.Context, q domain.ProviderQuery) ([]domain.RawRecord, error) {
	location := strings.TrimSpace(q.Location)
	if location == "" {
		location = geo.Name(q.Country)
	}

	jobs, err := p.client.Search(ctx, jooble.SearchParams{
		Keywords: q.Keywords(),
		Location: location,
		Page:     q.Page,
		Limit:    q.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrProviderUnavailable, Name, err)
	}

	out := make([]domain.RawRecord, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, domain.JoobleRecord{
			ID:       j.ID,
			Title:    j.Title,
			Company:  j.Company,
			Snippet:  j.Snippet,
			Location: j.Location,
			Type:     j.Type,
			Updated:  j.Updated,
			Link:     j.Link,
		})
	}
	return out, nil
}

var _ jobdomain.Provider = (*Provider)(nil)
