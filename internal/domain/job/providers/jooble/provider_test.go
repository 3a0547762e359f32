package jooble

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/startsmart/internal/domain"
	"github.com/honeycarbs/startsmart/pkg/jooble"
)

type stubClient struct {
	params jooble.SearchParams
	jobs   []jooble.Job
	err    error
}

func (s *stubClient) Search(_ context.Context, params jooble.SearchParams) ([]jooble.Job, error) {
	s.params = params
	return s.jobs, s.err
}

func TestProviderSearch(t *testing.T) {
	t.Parallel()

	client := &stubClient{jobs: []jooble.Job{{ID: "1", Title: "QA", Snippet: "testing", Link: "https://jooble.example/1"}}}
	p, err := NewProvider(client)
	require.NoError(t, err)

	recs, err := p.Search(context.Background(), domain.ProviderQuery{Country: "de", Text: "qa", Skills: []string{"selenium"}, Page: 1, Limit: 6})
	require.NoError(t, err)

	assert.Equal(t, jooble.SearchParams{Keywords: "qa selenium", Location: "germany", Page: 1, Limit: 6}, client.params)
	require.Len(t, recs, 1)
	rec := recs[0].(domain.JoobleRecord)
	assert.Equal(t, "testing", rec.Snippet)
}

func TestProviderSearchPrefersExplicitLocation(t *testing.T) {
	t.Parallel()

	client := &stubClient{}
	p, err := NewProvider(client)
	require.NoError(t, err)

	_, err = p.Search(context.Background(), domain.ProviderQuery{Country: "de", Location: "Munich"})
	require.NoError(t, err)
	assert.Equal(t, "Munich", client.params.Location)
}

func TestProviderSearchWrapsErrors(t *testing.T) {
	t.Parallel()

	p, err := NewProvider(&stubClient{err: errors.New("bad gateway")})
	require.NoError(t, err)

	_, err = p.Search(context.Background(), domain.ProviderQuery{Country: "fr"})
	require.ErrorIs(t, err, domain.ErrProviderUnavailable)
}
