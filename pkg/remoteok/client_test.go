package remoteok

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `[
	{"legal": "https://remoteok.com/legal"},
	{
		"slug": "remote-senior-go-developer-123",
		"id": "123",
		"position": "Senior Go Developer",
		"company": "Acme Corp",
		"tags": ["golang", "kubernetes", "docker"],
		"location": "Worldwide",
		"date": "2026-02-10T12:00:00+00:00",
		"url": "https://remoteok.com/remote-jobs/123"
	},
	{
		"slug": "remote-react-frontend-456",
		"id": 456,
		"position": "React Frontend Engineer",
		"company": "StartupXYZ",
		"tags": ["react", "typescript"],
		"date": "yesterday",
		"apply_url": "https://startupxyz.example/apply"
	},
	{
		"id": "789",
		"position": "",
		"company": "Ghost"
	}
]`

func newFeedServer(t *testing.T, status int, body string, auth *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth != nil {
			*auth = r.Header.Get("Authorization")
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchSkipsMetadataAndEmptyPositions(t *testing.T) {
	t.Parallel()

	srv := newFeedServer(t, http.StatusOK, sampleFeed, nil)
	client := NewClient(Config{BaseURL: srv.URL})

	jobs, err := client.Search(context.Background(), nil, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "123", jobs[0].ID)
	assert.Equal(t, "Senior Go Developer", jobs[0].Position)
	assert.Equal(t, []string{"golang", "kubernetes", "docker"}, jobs[0].Tags)
	require.NotNil(t, jobs[0].Date)

	assert.Equal(t, "456", jobs[1].ID, "numeric ids are accepted")
	assert.Nil(t, jobs[1].Date)
	assert.Equal(t, "https://startupxyz.example/apply", jobs[1].ApplyURL)
}

func TestSearchFiltersByTerms(t *testing.T) {
	t.Parallel()

	srv := newFeedServer(t, http.StatusOK, sampleFeed, nil)
	client := NewClient(Config{BaseURL: srv.URL})

	jobs, err := client.Search(context.Background(), []string{"TypeScript"}, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "StartupXYZ", jobs[0].Company)

	jobs, err = client.Search(context.Background(), []string{"go", "react"}, 1)
	require.NoError(t, err)
	require.Len(t, jobs, 1, "limit applies after filtering")
	assert.Equal(t, "Acme Corp", jobs[0].Company)
}

func TestSearchSendsOptionalKey(t *testing.T) {
	t.Parallel()

	var auth string
	srv := newFeedServer(t, http.StatusOK, `[]`, &auth)

	_, err := NewClient(Config{BaseURL: srv.URL}).Search(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Empty(t, auth)

	_, err = NewClient(Config{BaseURL: srv.URL, APIKey: "secret"}).Search(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", auth)
}

func TestSearchErrors(t *testing.T) {
	t.Parallel()

	srv := newFeedServer(t, http.StatusTooManyRequests, "slow down", nil)
	_, err := NewClient(Config{BaseURL: srv.URL}).Search(context.Background(), nil, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")

	bad := newFeedServer(t, http.StatusOK, `{"not": "an array"}`, nil)
	_, err = NewClient(Config{BaseURL: bad.URL}).Search(context.Background(), nil, 0)
	require.Error(t, err)
}

func TestSearchRejectsOversizedFeed(t *testing.T) {
	t.Parallel()

	srv := newFeedServer(t, http.StatusOK, sampleFeed, nil)

	_, err := NewClient(Config{BaseURL: srv.URL, MaxBodyBytes: 64}).Search(context.Background(), nil, 0)
	require.ErrorIs(t, err, ErrResponseTooLarge)

	jobs, err := NewClient(Config{BaseURL: srv.URL, MaxBodyBytes: int64(len(sampleFeed))}).Search(context.Background(), nil, 0)
	require.NoError(t, err, "a feed exactly at the cap is accepted")
	assert.Len(t, jobs, 2)
}
