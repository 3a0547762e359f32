package remoteok

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/startsmart/internal/domain"
	"github.com/honeycarbs/startsmart/pkg/remoteok"
)

type stubFeed struct {
	terms []string
	limit int
	jobs  []remoteok.Job
	err   error
}

func (s *stubFeed) Search(_ context.Context, terms []string, limit int) ([]remoteok.Job, error) {
	s.terms = terms
	s.limit = limit
	return s.jobs, s.err
}

func TestProviderSearchUsesSkills(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{jobs: []remoteok.Job{{ID: "9", Position: "Go Dev", Tags: []string{"golang"}}}}
	p, err := NewProvider(feed)
	require.NoError(t, err)

	recs, err := p.Search(context.Background(), domain.ProviderQuery{Text: "senior backend", Skills: []string{"go"}, Limit: 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"go"}, feed.terms)
	assert.Equal(t, 3, feed.limit)
	require.Len(t, recs, 1)
	rec := recs[0].(domain.RemoteOKRecord)
	assert.Equal(t, "Go Dev", rec.Position)
	assert.Equal(t, []string{"golang"}, rec.Tags)
}

func TestProviderSearchFallsBackToTextTerms(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{}
	p, err := NewProvider(feed)
	require.NoError(t, err)

	_, err = p.Search(context.Background(), domain.ProviderQuery{Text: "senior backend"})
	require.NoError(t, err)
	assert.Equal(t, []string{"senior", "backend"}, feed.terms)
}

func TestProviderSearchWrapsErrors(t *testing.T) {
	t.Parallel()

	p, err := NewProvider(&stubFeed{err: errors.New("503")})
	require.NoError(t, err)

	_, err = p.Search(context.Background(), domain.ProviderQuery{})
	require.ErrorIs(t, err, domain.ErrProviderUnavailable)
}
