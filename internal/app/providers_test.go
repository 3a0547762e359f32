package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/startsmart/internal/ai"
	"github.com/honeycarbs/startsmart/internal/config"
	"github.com/honeycarbs/startsmart/internal/domain"
	"github.com/honeycarbs/startsmart/internal/domain/job"
	"github.com/honeycarbs/startsmart/pkg/logging"
)

func TestProvideJobProvidersOrderAndMisconfiguration(t *testing.T) {
	t.Parallel()

	var cfg config.Config
	providers := provideJobProviders(cfg, logging.Nop())

	require.Len(t, providers, 3)
	assert.Equal(t, "adzuna", providers[0].Name())
	assert.Equal(t, "remoteok", providers[1].Name())
	assert.Equal(t, "jooble", providers[2].Name())

	_, err := providers[0].Search(context.Background(), domain.ProviderQuery{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	_, err = providers[2].Search(context.Background(), domain.ProviderQuery{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestProvideRepositoryUnknownBackend(t *testing.T) {
	t.Parallel()

	cfg := config.Config{StoreBackend: "mongo"}
	_, _, err := provideRepository(context.Background(), cfg, logging.Nop())
	require.Error(t, err)
}

func TestProvideOptionalFeatures(t *testing.T) {
	t.Parallel()

	var cfg config.Config
	ctx := context.Background()

	assistant := provideAssistant(ctx, cfg, logging.Nop())
	_, err := assistant.CV(ctx, ai.Job{Title: "Go Dev"}, domain.Profile{})
	assert.ErrorIs(t, err, ai.ErrUnavailable)

	assert.Nil(t, provideSheetsWriter(ctx, cfg, logging.Nop()))

	locator, cleanup := provideLocator(ctx, cfg, logging.Nop())
	defer cleanup()
	require.NotNil(t, locator)
}

func TestProvideFavorites(t *testing.T) {
	t.Parallel()

	cfg := config.Config{SQLitePath: filepath.Join(t.TempDir(), "nested", "favorites.db")}
	store, cleanup, err := provideFavorites(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	favs, err := store.List(context.Background(), "user")
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestProvideScheduler(t *testing.T) {
	t.Parallel()

	cfg := config.Config{}
	cfg.Ingest.Spec = "@every 1h"
	cfg.Ingest.Queries = []config.IngestQuery{{Text: "golang", Country: "fr"}}

	_, err := provideScheduler(cfg, nil, nil, logging.Nop())
	require.Error(t, err, "a repository is required")

	cfg.Ingest.Spec = "not a schedule"
	_, err = provideScheduler(cfg, stubRepo{}, nil, logging.Nop())
	require.Error(t, err)
}

func TestProvideSchedulerForwardsQuerySettings(t *testing.T) {
	t.Parallel()

	cfg := config.Config{}
	cfg.Ingest.Queries = config.ParseIngestQueries("platform engineer@de/Berlin")
	cfg.Ingest.Skills = []string{"go", "terraform"}

	p := &queryRecorder{}
	sched, err := provideScheduler(cfg, stubRepo{}, []job.Provider{p}, logging.Nop())
	require.NoError(t, err)

	_, err = sched.RunOnce(context.Background())
	require.NoError(t, err)

	require.Len(t, p.queries, 1)
	got := p.queries[0]
	assert.Equal(t, "platform engineer", got.Text)
	assert.Equal(t, "de", got.Country)
	assert.Equal(t, "Berlin", got.Location)
	assert.Equal(t, []string{"go", "terraform"}, got.Skills)
}

type queryRecorder struct {
	queries []domain.ProviderQuery
}

func (*queryRecorder) Name() string { return "recorder" }

func (r *queryRecorder) Search(_ context.Context, q domain.ProviderQuery) ([]domain.RawRecord, error) {
	r.queries = append(r.queries, q)
	return nil, nil
}

type stubRepo struct{}

func (stubRepo) Find(context.Context, domain.StoreFilter) ([]domain.LocalRecord, error) {
	return nil, nil
}

func (stubRepo) Get(context.Context, string) (domain.LocalRecord, error) {
	return domain.LocalRecord{}, domain.ErrNotFound
}

func (stubRepo) Insert(context.Context, []domain.LocalRecord) (int, error) {
	return 0, nil
}
