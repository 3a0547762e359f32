package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/startsmart/internal/ai"
	"github.com/honeycarbs/startsmart/internal/domain"
	"github.com/honeycarbs/startsmart/internal/domain/job"
	"github.com/honeycarbs/startsmart/pkg/geoip"
)

type fakeJobs struct {
	postings  []domain.Posting
	err       error
	lastQuery domain.SearchQuery
	published domain.NewPosting
	skills    []string
}

func (f *fakeJobs) Search(_ context.Context, q domain.SearchQuery) ([]domain.Posting, error) {
	f.lastQuery = q
	return append([]domain.Posting(nil), f.postings...), f.err
}

func (f *fakeJobs) Lookup(_ context.Context, id string, skills []string) (domain.Posting, error) {
	f.skills = skills
	if id == "bad" {
		return domain.Posting{}, fmt.Errorf("%w: malformed id", domain.ErrInvalidInput)
	}
	for _, p := range f.postings {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Posting{}, domain.ErrNotFound
}

func (f *fakeJobs) Recommend(_ context.Context, skills []string) ([]domain.Posting, error) {
	f.skills = skills
	return []domain.Posting{}, nil
}

func (f *fakeJobs) Publish(_ context.Context, p domain.NewPosting) (string, error) {
	if p.Title == "" {
		return "", fmt.Errorf("%w: missing required fields: title", domain.ErrInvalidInput)
	}
	f.published = p
	return "new-id", nil
}

type memFavorites struct {
	items map[string][]domain.Favorite
}

func (m *memFavorites) List(_ context.Context, userID string) ([]domain.Favorite, error) {
	out := m.items[userID]
	if out == nil {
		out = []domain.Favorite{}
	}
	return out, nil
}

func (m *memFavorites) Save(_ context.Context, f domain.Favorite) error {
	m.items[f.UserID] = append(m.items[f.UserID], f)
	return nil
}

func (m *memFavorites) Delete(_ context.Context, userID, jobID string) error {
	for i, f := range m.items[userID] {
		if f.JobID == jobID {
			m.items[userID] = append(m.items[userID][:i], m.items[userID][i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeAssistant struct{}

func (fakeAssistant) CV(_ context.Context, j ai.Job, _ domain.Profile) (string, error) {
	return "CV for " + j.Title, nil
}

func (fakeAssistant) Tips(context.Context, ai.Job, domain.Profile) (string, error) {
	return "", fmt.Errorf("%w: job title is required", domain.ErrInvalidInput)
}

func (fakeAssistant) Match(context.Context, ai.Job, domain.Profile) (ai.MatchEstimate, error) {
	return ai.MatchEstimate{Match: 72, Suggestion: "learn k8s"}, nil
}

type fakeLocator map[string]string

func (f fakeLocator) Locate(_ context.Context, ip string) (string, error) {
	if ip == "10.0.0.1" {
		return "", geoip.ErrNotPublic
	}
	if c, ok := f[ip]; ok {
		return c, nil
	}
	return "", geoip.ErrUnknown
}

func newTestServer(t *testing.T, jobs *fakeJobs, favs FavoritesStore, assistant Assistant, locator job.Locator) *httptest.Server {
	t.Helper()

	h := NewHandler(jobs, favs, assistant, locator, nil)
	mux := http.NewServeMux()
	h.Register(mux)
	srv := httptest.NewServer(h.Middleware(mux))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestListJobs(t *testing.T) {
	t.Parallel()

	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	jobs := &fakeJobs{postings: []domain.Posting{
		{ID: "a", PostedDate: &older, MatchPercentage: 90},
		{ID: "b"},
		{ID: "c", PostedDate: &newer, MatchPercentage: 10},
	}}
	srv := newTestServer(t, jobs, nil, nil, nil)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/jobs?country=DE&what=go&location=Berlin&skills=go,docker&skills=k8s&page=2&sort=newest", "", map[string]string{
		"X-Forwarded-For": "203.0.113.9, 10.0.0.1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []domain.Posting
	require.NoError(t, json.Unmarshal(body, &got))
	ids := []string{got[0].ID, got[1].ID, got[2].ID}
	assert.Equal(t, []string{"c", "a", "b"}, ids)

	assert.Equal(t, domain.SearchQuery{
		Country:  "DE",
		Text:     "go",
		Location: "Berlin",
		Skills:   []string{"go", "docker", "k8s"},
		Page:     2,
		ClientIP: "203.0.113.9",
	}, jobs.lastQuery)
}

func TestListJobsValidation(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeJobs{}, nil, nil, nil)

	for _, q := range []string{"page=0", "page=x", "sort=random"} {
		resp, _ := do(t, http.MethodGet, srv.URL+"/api/jobs?"+q, "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestListJobsStoreFailure(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeJobs{err: domain.ErrStoreUnavailable}, nil, nil, nil)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/jobs", "", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, string(body), "job store unavailable")
}

func TestGetJob(t *testing.T) {
	t.Parallel()

	jobs := &fakeJobs{postings: []domain.Posting{{ID: "42", Title: "Go Dev"}}}
	srv := newTestServer(t, jobs, nil, nil, nil)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/jobs/42?skills=go", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"title":"Go Dev"`)
	assert.Equal(t, []string{"go"}, jobs.skills)

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/jobs?id=42", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/jobs/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/jobs/bad", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateJob(t *testing.T) {
	t.Parallel()

	jobs := &fakeJobs{}
	srv := newTestServer(t, jobs, nil, nil, nil)

	resp, body := do(t, http.MethodPost, srv.URL+"/api/jobs", `{"title":"Go Dev","company":"Acme","description":"x","tags":["go"]}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":"new-id"}`, string(body))
	assert.Equal(t, []string{"go"}, jobs.published.Tags)

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/jobs", `{"company":"Acme"}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/jobs", `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRecommendations(t *testing.T) {
	t.Parallel()

	jobs := &fakeJobs{}
	srv := newTestServer(t, jobs, nil, nil, nil)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/recommendations?skills=go,sql", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
	assert.Equal(t, []string{"go", "sql"}, jobs.skills)
}

func TestGeoIP(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeJobs{}, nil, nil, fakeLocator{"203.0.113.9": "de"})

	resp, body := do(t, http.MethodGet, srv.URL+"/api/geoip", "", map[string]string{"X-Real-IP": "203.0.113.9"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"country_code":"de"}`, string(body))

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/geoip", "", map[string]string{"X-Real-IP": "10.0.0.1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/geoip", "", map[string]string{"X-Real-IP": "198.51.100.1"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGeoIPNotConfigured(t *testing.T) {
	t.Parallel()

	h := NewHandler(&fakeJobs{}, nil, nil, nil, nil)
	mux := http.NewServeMux()
	h.Register(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/geoip", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestFavorites(t *testing.T) {
	t.Parallel()

	favs := &memFavorites{items: map[string][]domain.Favorite{}}
	srv := newTestServer(t, &fakeJobs{}, favs, nil, nil)
	user := map[string]string{UserHeader: "user_1"}

	resp, _ := do(t, http.MethodGet, srv.URL+"/api/favorites", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/favorites", "", user)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/favorites", `{"job":{"title":"no id"}}`, user)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, http.MethodPost, srv.URL+"/api/favorites", `{"job":{"id":"j1","title":"Go Dev","redirectUrl":"https://x/1"}}`, user)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success":true}`, string(body))
	require.Len(t, favs.items["user_1"], 1)
	assert.Equal(t, "Go Dev", favs.items["user_1"][0].Title)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/api/favorites/j1", "", user)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/api/favorites/j1", "", user)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAssistRoutes(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeJobs{}, nil, fakeAssistant{}, nil)
	payload := `{"job":{"title":"Go Dev","company":"Acme"},"profile":{"skills":["go"]}}`

	resp, body := do(t, http.MethodPost, srv.URL+"/api/ai/cv", payload, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"cv":"CV for Go Dev"}`, string(body))

	resp, body = do(t, http.MethodPost, srv.URL+"/api/ai/match", payload, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"match":72,"suggestion":"learn k8s"}`, string(body))

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/ai/improve-chances", payload, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/ai/cv", `{"profile":{}}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAssistUnavailable(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeJobs{}, nil, nil, nil)

	resp, _ := do(t, http.MethodPost, srv.URL+"/api/ai/cv", `{"job":{"title":"x"}}`, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", clientIP(r))

	r.Header.Set("X-Forwarded-For", " 198.51.100.3 , 10.0.0.2")
	assert.Equal(t, "198.51.100.3", clientIP(r))

	r.Header.Set("X-Real-IP", "203.0.113.1")
	assert.Equal(t, "203.0.113.1", clientIP(r))
}
