package remoteok

import (
	"context"
	"fmt"
	"strings"

	"github.com/honeycarbs/startsmart/internal/domain"
	jobdomain "github.com/honeycarbs/startsmart/internal/domain/job"
	"github.com/honeycarbs/startsmart/pkg/remoteok"
)

// Name is the provider identifier
const Name = "remoteok"

type feedClient interface {
	Search(ctx context.Context, terms []string, limit int) ([]remoteok.Job, error)
}

// Provider implements job.Provider over the RemoteOK feed
type Provider struct {
	client feedClient
}

// NewProvider builds a RemoteOK provider
func NewProvider(client feedClient) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("remoteok provider: client is required")
	}
	return &Provider{client: client}, nil
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return Name
}

// Search filters the feed by skills, or by the words of the free text when no
// skills are given. The feed is global so country is not applied.
func (p *Provider) Search(ctx context.Context, q domain.ProviderQuery) ([]domain.RawRecord, error) {
	terms := q.Skills
	if len(terms) == 0 {
		terms = strings.Fields(q.Text)
	}

	jobs, err := p.client.Search(ctx, terms, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrProviderUnavailable, Name, err)
	}

	out := make([]domain.RawRecord, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, domain.RemoteOKRecord{
			ID:          j.ID,
			Slug:        j.Slug,
			Position:    j.Position,
			Company:     j.Company,
			Description: j.Description,
			Location:    j.Location,
			Tags:        j.Tags,
			Date:        j.Date,
			URL:         j.URL,
			ApplyURL:    j.ApplyURL,
		})
	}
	return out, nil
}

var _ jobdomain.Provider = (*Provider)(nil)
