package job

import (
	"context"
	"fmt"

	"github.com/honeycarbs/startsmart/internal/domain"
)

// Provider represents an external job data source (Adzuna, RemoteOK, Jooble)
type Provider interface {
	// e.g. "adzuna"
	Name() string

	// Search returns raw provider records for a query. Failures wrap
	// domain.ErrConfiguration or domain.ErrProviderUnavailable.
	Search(ctx context.Context, q domain.ProviderQuery) ([]domain.RawRecord, error)
}

// Misconfigured returns a Provider that always fails with ErrConfiguration,
// used when a provider's credentials are missing at startup.
func Misconfigured(name string, cause error) Provider {
	return misconfigured{name: name, cause: cause}
}

type misconfigured struct {
	name  string
	cause error
}

func (m misconfigured) Name() string { return m.name }

func (m misconfigured) Search(context.Context, domain.ProviderQuery) ([]domain.RawRecord, error) {
	return nil, fmt.Errorf("%w: %s: %v", domain.ErrConfiguration, m.name, m.cause)
}
