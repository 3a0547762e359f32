package job

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/honeycarbs/startsmart/internal/domain"
	"github.com/honeycarbs/startsmart/internal/domain/geo"
	"github.com/honeycarbs/startsmart/pkg/logging"
)

const (
	// DefaultTarget is the number of postings a search tries to reach before
	// it stops consulting lower-priority sources
	DefaultTarget = 10

	// DefaultProviderTimeout bounds each provider call
	DefaultProviderTimeout = 10 * time.Second

	recommendMinScore = 20
	recommendLimit    = 10
)

type Service interface {
	// Search returns local postings followed by provider postings, in source priority order
	Search(ctx context.Context, q domain.SearchQuery) ([]domain.Posting, error)

	// Lookup returns one local posting scored against skills
	Lookup(ctx context.Context, id string, skills []string) (domain.Posting, error)

	// Recommend ranks local postings by match score
	Recommend(ctx context.Context, skills []string) ([]domain.Posting, error)

	// Publish stores a new posting in the local store and returns its id
	Publish(ctx context.Context, p domain.NewPosting) (string, error)
}

// Locator resolves a client address to a country code
type Locator interface {
	Locate(ctx context.Context, ip string) (string, error)
}

// Option configures Service
type Option func(*config)

type config struct {
	providers       []Provider
	repo            Repository
	locator         Locator
	logger          *logging.Logger
	clock           func() time.Time
	target          int
	perProviderCap  int
	providerTimeout time.Duration
}

// WithProviders sets job providers in priority order
func WithProviders(providers ...Provider) Option {
	return func(c *config) {
		c.providers = providers
	}
}

// WithRepository sets the local job store
func WithRepository(repo Repository) Option {
	return func(c *config) {
		c.repo = repo
	}
}

// WithLocator sets the geolocation used when a query has no country
func WithLocator(l Locator) Option {
	return func(c *config) {
		c.locator = l
	}
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithTarget overrides DefaultTarget
func WithTarget(n int) Option {
	return func(c *config) {
		c.target = n
	}
}

// WithPerProviderCap switches to the per-provider policy: every provider is
// consulted and contributes at most n postings, with no combined ceiling.
// n <= 0 keeps the default combined-ceiling policy.
func WithPerProviderCap(n int) Option {
	return func(c *config) {
		c.perProviderCap = n
	}
}

// WithProviderTimeout overrides DefaultProviderTimeout
func WithProviderTimeout(d time.Duration) Option {
	return func(c *config) {
		c.providerTimeout = d
	}
}

// NewService builds Service from options
func NewService(opts ...Option) (Service, error) {
	cfg := &config{
		clock:           time.Now,
		target:          DefaultTarget,
		providerTimeout: DefaultProviderTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.repo == nil {
		return nil, fmt.Errorf("job.Service: repository is required")
	}
	if cfg.target <= 0 {
		return nil, fmt.Errorf("job.Service: target must be positive")
	}
	if cfg.logger == nil {
		cfg.logger = logging.Nop()
	}

	return &service{
		providers:       cfg.providers,
		repo:            cfg.repo,
		locator:         cfg.locator,
		logger:          cfg.logger,
		clock:           cfg.clock,
		target:          cfg.target,
		perProviderCap:  cfg.perProviderCap,
		providerTimeout: cfg.providerTimeout,
	}, nil
}

// Tuning carries operator overrides; zero values keep the defaults
type Tuning struct {
	ProviderTimeout time.Duration
	PerProviderCap  int
}

// NewServiceWithDeps creates a Service with direct dependencies (Wire-compatible)
func NewServiceWithDeps(repo Repository, providers []Provider, locator Locator, logger *logging.Logger, tuning Tuning) (Service, error) {
	opts := []Option{
		WithRepository(repo),
		WithProviders(providers...),
		WithLocator(locator),
		WithLogger(logger),
		WithPerProviderCap(tuning.PerProviderCap),
	}
	if tuning.ProviderTimeout > 0 {
		opts = append(opts, WithProviderTimeout(tuning.ProviderTimeout))
	}
	return NewService(opts...)
}

type service struct {
	providers       []Provider
	repo            Repository
	locator         Locator
	logger          *logging.Logger
	clock           func() time.Time
	target          int
	perProviderCap  int
	providerTimeout time.Duration
}

// Search queries the local store first and falls back to providers in order
// until the target is reached or providers run out
func (s *service) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Posting, error) {
	country := geo.Resolve(ctx, q.Country, s.countryFallback(q.ClientIP))
	skills := cleanSkills(q.Skills)

	filter := domain.StoreFilter{
		Country:  country,
		Location: strings.TrimSpace(q.Location),
		Text:     strings.TrimSpace(q.Text),
		AllTags:  skills,
	}

	local, err := s.repo.Find(ctx, filter)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	out := make([]domain.Posting, 0, max(len(local), s.target))
	for _, r := range local {
		out = append(out, Normalize(r, skills))
	}

	if len(out) >= s.target {
		s.logger.Debug("search satisfied by local store", "count", len(out), "country", country)
		return out, nil
	}

	for _, p := range s.providers {
		headroom := s.headroom(len(out))
		if headroom <= 0 {
			break
		}

		pq := domain.ProviderQuery{
			Country:  country,
			Text:     filter.Text,
			Location: filter.Location,
			Skills:   skills,
			Page:     q.NormalizedPage(),
			Limit:    headroom,
		}

		records, err := s.callProvider(ctx, p, pq)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if errors.Is(err, domain.ErrConfiguration) {
				s.logger.Warn("provider skipped", "provider", p.Name(), "err", err)
			} else {
				s.logger.Warn("provider failed", "provider", p.Name(), "err", err)
			}
			continue
		}

		if len(records) > headroom {
			records = records[:headroom]
		}
		for _, r := range records {
			out = append(out, Normalize(r, skills))
		}

		s.logger.Debug("provider contributed", "provider", p.Name(), "count", len(records), "total", len(out))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// headroom returns how many postings the next provider may contribute
func (s *service) headroom(have int) int {
	if s.perProviderCap > 0 {
		return s.perProviderCap
	}
	return s.target - have
}

func (s *service) callProvider(ctx context.Context, p Provider, q domain.ProviderQuery) ([]domain.RawRecord, error) {
	callCtx := ctx
	if s.providerTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.providerTimeout)
		defer cancel()
	}

	records, err := p.Search(callCtx, q)
	if err == nil {
		return records, nil
	}
	if errors.Is(err, domain.ErrConfiguration) || errors.Is(err, domain.ErrProviderUnavailable) {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s: %v", domain.ErrProviderUnavailable, p.Name(), err)
}

func (s *service) countryFallback(ip string) geo.Fallback {
	if s.locator == nil {
		return nil
	}
	return func(ctx context.Context) (string, error) {
		return s.locator.Locate(ctx, ip)
	}
}

// Lookup loads a single local posting; providers are never consulted
func (s *service) Lookup(ctx context.Context, id string, skills []string) (domain.Posting, error) {
	id = strings.TrimSpace(id)
	parsed, err := uuid.Parse(id)
	if err != nil {
		return domain.Posting{}, fmt.Errorf("%w: malformed posting id %q", domain.ErrInvalidInput, id)
	}

	// stores hold the canonical lower-case form
	rec, err := s.repo.Get(ctx, parsed.String())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Posting{}, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Posting{}, ctxErr
		}
		return domain.Posting{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	return Normalize(rec, cleanSkills(skills)), nil
}

// Recommend scores every local posting and keeps the best matches
func (s *service) Recommend(ctx context.Context, skills []string) ([]domain.Posting, error) {
	skills = cleanSkills(skills)
	if len(skills) == 0 {
		return []domain.Posting{}, nil
	}

	records, err := s.repo.Find(ctx, domain.StoreFilter{})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	out := make([]domain.Posting, 0, recommendLimit)
	for _, r := range records {
		p := Normalize(r, skills)
		if p.MatchPercentage > recommendMinScore {
			out = append(out, p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchPercentage > out[j].MatchPercentage
	})

	if len(out) > recommendLimit {
		out = out[:recommendLimit]
	}
	return out, nil
}

// Publish validates and stores a new posting
func (s *service) Publish(ctx context.Context, np domain.NewPosting) (string, error) {
	var missing []string
	if strings.TrimSpace(np.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(np.Company) == "" {
		missing = append(missing, "company")
	}
	if strings.TrimSpace(np.Description) == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: missing required fields: %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}

	now := s.clock().UTC()
	rec := domain.LocalRecord{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(np.Title),
		Company:     strings.TrimSpace(np.Company),
		Description: np.Description,
		Country:     strings.ToLower(strings.TrimSpace(np.Country)),
		Location:    strings.TrimSpace(np.Location),
		City:        strings.TrimSpace(np.City),
		RemoteType:  np.RemoteType,
		PostedAt:    &now,
		RedirectURL: strings.TrimSpace(np.RedirectURL),
		Tags:        cleanSkills(np.Tags),
	}

	n, err := s.repo.Insert(ctx, []domain.LocalRecord{rec})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if n == 0 {
		return "", fmt.Errorf("%w: a posting with redirect url %q already exists", domain.ErrInvalidInput, rec.RedirectURL)
	}

	s.logger.Info("posting published", "id", rec.ID, "title", rec.Title)
	return rec.ID, nil
}

// cleanSkills trims entries and drops empty ones, keeping order
func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
