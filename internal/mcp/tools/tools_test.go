package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/startsmart/internal/domain"
)

type stubService struct {
	search    []domain.Posting
	searchErr error
	lastQuery domain.SearchQuery
	byID      map[string]domain.Posting
	recommend []domain.Posting
}

func (s *stubService) Search(_ context.Context, q domain.SearchQuery) ([]domain.Posting, error) {
	s.lastQuery = q
	return s.search, s.searchErr
}

func (s *stubService) Lookup(_ context.Context, id string, _ []string) (domain.Posting, error) {
	p, ok := s.byID[id]
	if !ok {
		return domain.Posting{}, domain.ErrNotFound
	}
	return p, nil
}

func (s *stubService) Recommend(context.Context, []string) ([]domain.Posting, error) {
	return s.recommend, nil
}

func (s *stubService) Publish(context.Context, domain.NewPosting) (string, error) {
	return "", errors.New("not used")
}

type recordingWriter struct {
	appended [][]interface{}
	updated  [][]interface{}
	ranges   []string
	cleared  bool
}

func (w *recordingWriter) AppendValues(_ context.Context, _, rng string, values [][]interface{}) error {
	w.ranges = append(w.ranges, rng)
	w.appended = append(w.appended, values...)
	return nil
}

func (w *recordingWriter) UpdateValues(_ context.Context, _, rng string, values [][]interface{}) error {
	w.ranges = append(w.ranges, rng)
	w.updated = append(w.updated, values...)
	return nil
}

func (w *recordingWriter) ClearValues(context.Context, string, string) error {
	w.cleared = true
	return nil
}

func connect(t *testing.T, opts ...Option) *sdkmcp.ClientSession {
	t.Helper()

	ctx := context.Background()
	server := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "test", Version: "0.0.1"}, nil)
	Register(server, nil, opts...)

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session
}

func call[T any](t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) (T, *sdkmcp.CallToolResult) {
	t.Helper()

	var out T
	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	if res.IsError || res.StructuredContent == nil {
		return out, res
	}

	raw, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out))
	return out, res
}

func TestJobSearchTool(t *testing.T) {
	posted := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := &stubService{search: []domain.Posting{
		{ID: "a", Source: domain.SourceLocal, Title: "Go Dev", MatchPercentage: 50, PostedDate: &posted, Description: "long"},
		{ID: "b", Source: domain.SourceRemoteOK, Title: "SRE"},
	}}
	session := connect(t, WithJobSearch(svc))

	out, res := call[JobListResult](t, session, "job_search", map[string]any{
		"query":   "golang",
		"country": "Germany",
		"skills":  []string{"go"},
		"page":    2,
	})
	require.False(t, res.IsError)

	assert.Equal(t, 2, out.Count)
	assert.Equal(t, "a", out.Jobs[0].ID)
	assert.Equal(t, 50, out.Jobs[0].Match)
	assert.Equal(t, "2025-03-01T09:00:00Z", out.Jobs[0].PostedDate)
	assert.Empty(t, out.Jobs[0].Description)
	assert.Equal(t, "remoteok", out.Jobs[1].Source)

	assert.Equal(t, domain.SearchQuery{Country: "Germany", Text: "golang", Skills: []string{"go"}, Page: 2}, svc.lastQuery)
}

func TestJobSearchToolError(t *testing.T) {
	svc := &stubService{searchErr: domain.ErrStoreUnavailable}
	session := connect(t, WithJobSearch(svc))

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "job_search",
		Arguments: map[string]any{"query": "go"},
	})
	if err == nil {
		assert.True(t, res.IsError)
	}
}

func TestJobLookupTool(t *testing.T) {
	svc := &stubService{byID: map[string]domain.Posting{
		"5f0c": {ID: "5f0c", Title: "Backend", Description: "details"},
	}}
	session := connect(t, WithJobLookup(svc))

	out, res := call[JobSummary](t, session, "job_lookup", map[string]any{"id": "5f0c"})
	require.False(t, res.IsError)
	assert.Equal(t, "Backend", out.Title)
	assert.Equal(t, "details", out.Description)

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "job_lookup",
		Arguments: map[string]any{"id": "missing"},
	})
	if err == nil {
		assert.True(t, res.IsError)
	}
}

func TestJobRecommendationsTool(t *testing.T) {
	svc := &stubService{recommend: []domain.Posting{{ID: "x", MatchPercentage: 90}}}
	session := connect(t, WithJobRecommendations(svc))

	out, res := call[JobListResult](t, session, "job_recommendations", map[string]any{"skills": []string{"go"}})
	require.False(t, res.IsError)
	require.Len(t, out.Jobs, 1)
	assert.Equal(t, 90, out.Jobs[0].Match)
}

func TestSheetsExportTool(t *testing.T) {
	svc := &stubService{byID: map[string]domain.Posting{
		"j1": {ID: "j1", Source: domain.SourceLocal, Title: "Go Dev", Company: "Acme", RedirectURL: "https://x/1", MatchPercentage: 40},
	}}

	t.Run("append by id", func(t *testing.T) {
		w := &recordingWriter{}
		session := connect(t, WithSheetsExport(w, svc, "sheet-123"))

		out, res := call[SheetsExportResult](t, session, "sheets_export", map[string]any{
			"job_ids": []string{"j1", "gone"},
			"rows":    []map[string]any{{"title": "Manual", "status": "applied"}},
		})
		require.False(t, res.IsError)

		assert.Equal(t, "sheet-123", out.SpreadsheetID)
		assert.Equal(t, "Sheet1", out.Tab)
		assert.Equal(t, "append", out.Mode)
		assert.Equal(t, 2, out.WrittenRows)
		assert.Equal(t, []string{"gone"}, out.Skipped)

		require.Len(t, w.appended, 2)
		assert.Equal(t, "Manual", w.appended[0][0])
		assert.Equal(t, "Go Dev", w.appended[1][0])
		assert.Equal(t, "40", w.appended[1][5])
		assert.Equal(t, []string{"Sheet1!A1"}, w.ranges)
	})

	t.Run("upsert with clear", func(t *testing.T) {
		w := &recordingWriter{}
		session := connect(t, WithSheetsExport(w, svc, ""))

		out, res := call[SheetsExportResult](t, session, "sheets_export", map[string]any{
			"job_ids":   []string{"j1"},
			"upsert":    true,
			"clear_tab": true,
			"sheet":     map[string]any{"spreadsheet_id": "other", "tab": "Jobs"},
		})
		require.False(t, res.IsError)
		assert.Equal(t, "upsert", out.Mode)
		assert.True(t, w.cleared)
		assert.Len(t, w.updated, 1)
		assert.Equal(t, []string{"Jobs!A2"}, w.ranges)
	})

	t.Run("not configured", func(t *testing.T) {
		session := connect(t, WithSheetsExport(nil, svc, "sheet-123"))

		res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
			Name:      "sheets_export",
			Arguments: map[string]any{"job_ids": []string{"j1"}},
		})
		if err == nil {
			assert.True(t, res.IsError)
		}
	})
}
