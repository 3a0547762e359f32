// Package app assembles the service graph from configuration.
package app

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/startsmart/internal/ai"
	"github.com/honeycarbs/startsmart/internal/ai/gemini"
	"github.com/honeycarbs/startsmart/internal/api"
	"github.com/honeycarbs/startsmart/internal/config"
	"github.com/honeycarbs/startsmart/internal/domain/job"
	adzunaProvider "github.com/honeycarbs/startsmart/internal/domain/job/providers/adzuna"
	joobleProvider "github.com/honeycarbs/startsmart/internal/domain/job/providers/jooble"
	remoteokProvider "github.com/honeycarbs/startsmart/internal/domain/job/providers/remoteok"
	"github.com/honeycarbs/startsmart/internal/ingest"
	"github.com/honeycarbs/startsmart/internal/mcp"
	"github.com/honeycarbs/startsmart/internal/mcp/tools"
	"github.com/honeycarbs/startsmart/internal/server"
	neo4jstore "github.com/honeycarbs/startsmart/internal/storage/neo4j"
	pgstore "github.com/honeycarbs/startsmart/internal/storage/postgres"
	"github.com/honeycarbs/startsmart/internal/storage/sqlite"
	"github.com/honeycarbs/startsmart/pkg/adzuna"
	"github.com/honeycarbs/startsmart/pkg/db"
	"github.com/honeycarbs/startsmart/pkg/geoip"
	"github.com/honeycarbs/startsmart/pkg/jooble"
	"github.com/honeycarbs/startsmart/pkg/logging"
	n4j "github.com/honeycarbs/startsmart/pkg/neo4j"
	"github.com/honeycarbs/startsmart/pkg/remoteok"
	"github.com/honeycarbs/startsmart/pkg/sheets"
)

// provider request rates, per second
const (
	adzunaRPS   = 2
	remoteokRPS = 1
	joobleRPS   = 2
)

// provideRepository opens the configured local job store
func provideRepository(ctx context.Context, cfg config.Config, logger *logging.Logger) (job.Repository, func(), error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		pool, err := db.NewPostgresPool(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		repo := pgstore.NewJobRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("job store ready", "backend", cfg.StoreBackend)
		return repo, pool.Close, nil

	case config.StoreNeo4j, "":
		client, err := n4j.NewClient(ctx, n4j.Config{
			URI:      cfg.Neo4j.URI,
			Username: cfg.Neo4j.Username,
			Password: cfg.Neo4j.Password,
			Database: cfg.Neo4j.Database,
		})
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := client.Close(context.Background()); err != nil {
				logger.Warn("neo4j close failed", "err", err)
			}
		}
		repo := neo4jstore.NewJobRepository(client)
		if err := repo.EnsureSchema(ctx); err != nil {
			cleanup()
			return nil, nil, err
		}
		logger.Info("job store ready", "backend", config.StoreNeo4j, "uri", cfg.Neo4j.URI)
		return repo, cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// provideJobProviders builds the providers in priority order. A provider whose
// credentials are missing is kept as a misconfigured placeholder so searches log it.
func provideJobProviders(cfg config.Config, logger *logging.Logger) []job.Provider {
	providers := make([]job.Provider, 0, 3)

	if client, err := adzuna.NewClient(adzuna.Config{
		AppID:             cfg.Adzuna.AppID,
		AppKey:            cfg.Adzuna.AppKey,
		RequestsPerSecond: adzunaRPS,
	}); err != nil {
		logger.Warn("adzuna provider not configured", "err", err)
		providers = append(providers, job.Misconfigured(adzunaProvider.Name, err))
	} else if p, err := adzunaProvider.NewProvider(client); err == nil {
		providers = append(providers, p)
	}

	rok := remoteok.NewClient(remoteok.Config{
		APIKey:            cfg.RemoteOK.APIKey,
		RequestsPerSecond: remoteokRPS,
	})
	if p, err := remoteokProvider.NewProvider(rok); err == nil {
		providers = append(providers, p)
	}

	if client, err := jooble.NewClient(jooble.Config{
		APIKey:            cfg.Jooble.APIKey,
		RequestsPerSecond: joobleRPS,
	}); err != nil {
		logger.Warn("jooble provider not configured", "err", err)
		providers = append(providers, job.Misconfigured(joobleProvider.Name, err))
	} else if p, err := joobleProvider.NewProvider(client); err == nil {
		providers = append(providers, p)
	}

	return providers
}

// provideLocator builds the geoip client, cached in redis when REDIS_URL is set
func provideLocator(ctx context.Context, cfg config.Config, logger *logging.Logger) (job.Locator, func()) {
	gcfg := geoip.Config{}
	cleanup := func() {}

	if cfg.RedisURL != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, geoip cache disabled", "err", err)
		} else {
			gcfg.Cache = geoip.NewRedisCache(rdb)
			cleanup = func() { _ = rdb.Close() }
		}
	}

	return geoip.NewClient(gcfg), cleanup
}

func provideTuning(cfg config.Config) job.Tuning {
	return job.Tuning{
		ProviderTimeout: cfg.ProviderTimeout,
		PerProviderCap:  cfg.PerProviderCap,
	}
}

// provideFavorites opens the sqlite favorites store
func provideFavorites(ctx context.Context, cfg config.Config) (api.FavoritesStore, func(), error) {
	conn, err := db.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	store, err := sqlite.NewFavoritesStore(ctx, conn)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return store, func() { _ = conn.Close() }, nil
}

// provideAssistant returns a Gemini-backed assistant, or one that reports
// ai.ErrUnavailable when no key is configured
func provideAssistant(ctx context.Context, cfg config.Config, logger *logging.Logger) api.Assistant {
	if cfg.Gemini.APIKey == "" {
		logger.Info("GEMINI_API_KEY not set, AI routes disabled")
		return ai.NewAssistant(nil, logger)
	}

	gen, err := gemini.NewGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		logger.Warn("gemini init failed, AI routes disabled", "err", err)
		return ai.NewAssistant(nil, logger)
	}
	logger.Info("gemini assistant initialized", "model", gen.Model())
	return ai.NewAssistant(gen, logger)
}

// provideSheetsWriter returns nil when Sheets credentials are not configured
func provideSheetsWriter(ctx context.Context, cfg config.Config, logger *logging.Logger) tools.SheetsWriter {
	if cfg.Sheets.CredentialsPath == "" {
		return nil
	}
	client, err := sheets.NewClient(ctx, sheets.Config{CredentialsPath: cfg.Sheets.CredentialsPath})
	if err != nil {
		logger.Warn("sheets client init failed, export disabled", "err", err)
		return nil
	}
	return client
}

func provideMCPServer(cfg config.Config, jobs job.Service, writer tools.SheetsWriter, logger *logging.Logger) *sdkmcp.Server {
	return mcp.NewServer(mcp.Deps{
		Jobs:          jobs,
		Sheets:        writer,
		SpreadsheetID: cfg.Sheets.SpreadsheetID,
	}, logger)
}

func provideHTTPServer(cfg config.Config, rest *api.Handler, mcpServer *sdkmcp.Server, logger *logging.Logger) *server.Server {
	return server.New(cfg.Addr(), rest, mcpServer, logger)
}

// provideScheduler builds the ingestion scheduler from INGEST_* settings
func provideScheduler(cfg config.Config, repo job.Repository, providers []job.Provider, logger *logging.Logger) (*ingest.Scheduler, error) {
	queries := make([]ingest.Query, 0, len(cfg.Ingest.Queries))
	for _, q := range cfg.Ingest.Queries {
		queries = append(queries, ingest.Query{
			Text:     q.Text,
			Country:  q.Country,
			Location: q.Location,
			Skills:   cfg.Ingest.Skills,
		})
	}

	return ingest.NewScheduler(ingest.Config{
		Spec:       cfg.Ingest.Spec,
		Queries:    queries,
		Timeout:    cfg.ProviderTimeout,
		RunOnStart: cfg.Ingest.OnStart,
	}, repo, providers, logger)
}
