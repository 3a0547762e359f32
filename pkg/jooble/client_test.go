package jooble

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresKey(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{})
	require.Error(t, err)

	_, err = NewClient(Config{APIKey: "   "})
	require.Error(t, err)
}

func TestSearch(t *testing.T) {
	t.Parallel()

	var (
		gotPath   string
		gotMethod string
		gotBody   map[string]string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{
			"totalCount": 2,
			"jobs": [
				{"id": -8512345678901234, "title": "Go Developer", "company": "Acme", "location": "Paris", "snippet": "APIs in Go", "type": "Full-time", "link": "https://jooble.org/desc/1", "updated": "2025-04-01T00:00:00.0000000"},
				{"id": "2", "title": "Remote QA", "location": "Remote", "link": "https://jooble.org/desc/2", "updated": ""}
			]
		}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "k3y", BaseURL: srv.URL, HTTPClient: srv.Client()})
	require.NoError(t, err)

	jobs, err := client.Search(context.Background(), SearchParams{Keywords: "golang api", Location: "France", Page: 2, Limit: 5})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/k3y", gotPath)
	assert.Equal(t, map[string]string{
		"keywords":     "golang api",
		"location":     "France",
		"page":         "2",
		"ResultOnPage": "5",
	}, gotBody)

	require.Len(t, jobs, 2)
	assert.Equal(t, "-8512345678901234", jobs[0].ID)
	assert.Equal(t, "APIs in Go", jobs[0].Snippet)
	require.NotNil(t, jobs[0].Updated)
	assert.Equal(t, 2025, jobs[0].Updated.Year())
	assert.Equal(t, "2", jobs[1].ID)
	assert.Nil(t, jobs[1].Updated)
}

func TestSearchErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid key", http.StatusForbidden)
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "k3y", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), SearchParams{Keywords: "go"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer garbage.Close()

	client, err = NewClient(Config{APIKey: "k3y", BaseURL: garbage.URL})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), SearchParams{Keywords: "go"})
	require.Error(t, err)
}
