// Package ingest periodically pulls provider results into the local job store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/honeycarbs/startsmart/internal/domain"
	"github.com/honeycarbs/startsmart/internal/domain/geo"
	"github.com/honeycarbs/startsmart/internal/domain/job"
	"github.com/honeycarbs/startsmart/pkg/logging"
)

const (
	// DefaultSpec runs ingestion every six hours
	DefaultSpec = "@every 6h"

	defaultPerQuery = 20
	defaultTimeout  = 30 * time.Second
)

// Query is one configured ingestion search
type Query struct {
	Text     string
	Country  string
	Location string
	Skills   []string
}

// Report summarises one ingestion run
type Report struct {
	Fetched  int
	Inserted int
	Failed   int
}

// Config controls the scheduler
type Config struct {
	Spec       string // cron spec, e.g. "@every 6h"
	Queries    []Query
	PerQuery   int // records requested from each provider per query
	Timeout    time.Duration
	RunOnStart bool
}

// Scheduler wraps robfig/cron and runs ingestion cycles
type Scheduler struct {
	cron      *cron.Cron
	cfg       Config
	providers []job.Provider
	repo      job.Repository
	logger    *logging.Logger

	mu      sync.Mutex
	started bool
}

// NewScheduler builds a Scheduler; it does nothing until Start
func NewScheduler(cfg Config, repo job.Repository, providers []job.Provider, logger *logging.Logger) (*Scheduler, error) {
	if repo == nil {
		return nil, errors.New("ingest: repository is required")
	}
	if cfg.Spec == "" {
		cfg.Spec = DefaultSpec
	}
	if cfg.PerQuery <= 0 {
		cfg.PerQuery = defaultPerQuery
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = logging.Nop()
	}

	if _, err := cron.ParseStandard(cfg.Spec); err != nil {
		return nil, fmt.Errorf("ingest: invalid schedule %q: %w", cfg.Spec, err)
	}

	return &Scheduler{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		cfg:       cfg,
		providers: providers,
		repo:      repo,
		logger:    logger.With("component", "ingest"),
	}, nil
}

// Start registers the job and starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Spec, func() {
		s.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.started = true
	s.logger.Info("ingest scheduler started", "spec", s.cfg.Spec, "queries", len(s.cfg.Queries))

	if s.cfg.RunOnStart {
		go s.run(ctx)
	}
	return nil
}

// Stop stops the scheduler and waits for a running cycle to finish or ctx to expire
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	s.started = false

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("ingest scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run(ctx context.Context) {
	report, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.Error("ingest cycle failed", "err", err)
		return
	}
	s.logger.Info("ingest cycle complete", "fetched", report.Fetched, "inserted", report.Inserted, "failed", report.Failed)
}

// RunOnce executes every configured query against every provider and stores new postings
func (s *Scheduler) RunOnce(ctx context.Context) (Report, error) {
	return s.Ingest(ctx, s.cfg.Queries...)
}

// Ingest runs the given queries once. Provider failures are counted and skipped;
// a store failure aborts the run.
func (s *Scheduler) Ingest(ctx context.Context, queries ...Query) (Report, error) {
	var report Report

	for _, q := range queries {
		pq := domain.ProviderQuery{
			Country:  geo.Resolve(ctx, q.Country, nil),
			Text:     strings.TrimSpace(q.Text),
			Location: strings.TrimSpace(q.Location),
			Skills:   q.Skills,
			Page:     1,
			Limit:    s.cfg.PerQuery,
		}

		for _, p := range s.providers {
			if err := ctx.Err(); err != nil {
				return report, err
			}

			records, err := s.fetch(ctx, p, pq)
			if err != nil {
				report.Failed++
				s.logger.Warn("ingest provider failed", "provider", p.Name(), "query", pq.Keywords(), "err", err)
				continue
			}
			if len(records) == 0 {
				continue
			}

			locals := make([]domain.LocalRecord, 0, len(records))
			for _, r := range records {
				local := job.ToLocal(r)
				local.ID = uuid.NewString()
				if code, ok := geo.Lookup(local.Country); ok {
					local.Country = code
				} else {
					local.Country = pq.Country
				}
				locals = append(locals, local)
			}

			n, err := s.repo.Insert(ctx, locals)
			if err != nil {
				return report, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
			}

			report.Fetched += len(records)
			report.Inserted += n
			s.logger.Debug("ingested", "provider", p.Name(), "fetched", len(records), "inserted", n)
		}
	}

	return report, nil
}

func (s *Scheduler) fetch(ctx context.Context, p job.Provider, q domain.ProviderQuery) ([]domain.RawRecord, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	return p.Search(callCtx, q)
}
