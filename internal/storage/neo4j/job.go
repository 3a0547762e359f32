package neo4j

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/honeycarbs/startsmart/internal/domain"
	"github.com/honeycarbs/startsmart/internal/domain/job"

	pkgneo4j "github.com/honeycarbs/startsmart/pkg/neo4j"
)

// Ensure JobRepository implements job.Repository
var _ job.Repository = (*JobRepository)(nil)

// JobRepository implements job.Repository with Neo4j.
// Postings are (:Job) nodes linked to (:Company) via WORKED_AT and to (:Skill) tags via REQUIRES.
type JobRepository struct {
	client *pkgneo4j.Client
}

// NewJobRepository creates a JobRepository with a Neo4j client
func NewJobRepository(client *pkgneo4j.Client) *JobRepository {
	return &JobRepository{
		client: client,
	}
}

const jobProjection = `
	OPTIONAL MATCH (j)-[:WORKED_AT]->(c:Company)
	OPTIONAL MATCH (j)-[:REQUIRES]->(s:Skill)
	WITH j, head(collect(DISTINCT c.name)) AS company, collect(DISTINCT s.name) AS tags
`

const jobReturn = `
	RETURN j {
		.id, .title, .description, .country, .location, .city, .remoteType, .redirectUrl,
		postedAt: CASE WHEN j.postedAt IS NULL THEN null ELSE j.postedAt.epochMillis END,
		company: company,
		tags: tags
	} AS job
`

// EnsureSchema creates the constraints the repository relies on
func (r *JobRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE CONSTRAINT job_id IF NOT EXISTS FOR (j:Job) REQUIRE j.id IS UNIQUE`,
		`CREATE INDEX job_redirect_url IF NOT EXISTS FOR (j:Job) ON (j.redirectUrl)`,
		`CREATE INDEX job_country IF NOT EXISTS FOR (j:Job) ON (j.country)`,
		`CREATE CONSTRAINT skill_name IF NOT EXISTS FOR (s:Skill) REQUIRE s.name IS UNIQUE`,
		`CREATE CONSTRAINT company_name IF NOT EXISTS FOR (c:Company) REQUIRE c.name IS UNIQUE`,
	}
	for _, stmt := range statements {
		if _, err := r.client.Write(ctx, stmt, nil); err != nil {
			return fmt.Errorf("neo4j schema: %w", err)
		}
	}
	return nil
}

// Find returns postings matching every non-empty filter field, newest first
func (r *JobRepository) Find(ctx context.Context, filter domain.StoreFilter) ([]domain.LocalRecord, error) {
	query := `
		MATCH (j:Job)
		WHERE ($country = '' OR toLower(j.country) = $country)
		  AND ($location = '' OR toLower(j.location) CONTAINS $location)
		  AND ($text = '' OR toLower(j.title) CONTAINS $text OR toLower(j.description) CONTAINS $text)
	` + jobProjection + `
		WHERE all(wanted IN $tags WHERE any(tag IN tags WHERE toLower(tag) CONTAINS wanted))
	` + jobReturn + `
		ORDER BY j.postedAt DESC
	`

	tags := make([]string, 0, len(filter.AllTags))
	for _, t := range filter.AllTags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}

	records, err := r.client.Read(ctx, query, map[string]any{
		"country":  strings.ToLower(strings.TrimSpace(filter.Country)),
		"location": strings.ToLower(strings.TrimSpace(filter.Location)),
		"text":     strings.ToLower(strings.TrimSpace(filter.Text)),
		"tags":     tags,
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j find jobs: %w", err)
	}

	out := make([]domain.LocalRecord, 0, len(records))
	for _, rec := range records {
		v, ok := rec.Get("job")
		if !ok {
			continue
		}
		local, err := decodeJob(v)
		if err != nil {
			return nil, err
		}
		out = append(out, local)
	}
	return out, nil
}

// Get loads one posting by id
func (r *JobRepository) Get(ctx context.Context, id string) (domain.LocalRecord, error) {
	query := `MATCH (j:Job {id: $id})` + jobProjection + jobReturn

	records, err := r.client.Read(ctx, query, map[string]any{"id": id})
	if err != nil {
		return domain.LocalRecord{}, fmt.Errorf("neo4j get job: %w", err)
	}
	if len(records) == 0 {
		return domain.LocalRecord{}, fmt.Errorf("%w: job %s", domain.ErrNotFound, id)
	}

	v, _ := records[0].Get("job")
	return decodeJob(v)
}

// Insert creates postings whose redirect URL is not stored yet
func (r *JobRepository) Insert(ctx context.Context, records []domain.LocalRecord) (int, error) {
	records = uniqueByRedirectURL(records)
	if len(records) == 0 {
		return 0, nil
	}

	query := `
		UNWIND $jobs AS job
		OPTIONAL MATCH (existing:Job)
		WHERE job.redirectUrl <> '' AND existing.redirectUrl = job.redirectUrl
		WITH job, existing
		WHERE existing IS NULL
		CREATE (j:Job {
			id: job.id,
			title: job.title,
			description: job.description,
			country: job.country,
			location: job.location,
			city: job.city,
			remoteType: job.remoteType,
			redirectUrl: job.redirectUrl,
			postedAt: CASE WHEN job.postedAt IS NULL THEN null ELSE datetime({epochMillis: job.postedAt}) END
		})
		WITH j, job
		FOREACH (name IN CASE WHEN job.company = '' THEN [] ELSE [job.company] END |
			MERGE (c:Company {name: name})
			MERGE (j)-[:WORKED_AT]->(c)
		)
		FOREACH (tag IN job.tags |
			MERGE (s:Skill {name: tag})
			MERGE (j)-[:REQUIRES]->(s)
		)
		RETURN count(j) AS inserted
	`

	jobsData := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		var postedAt any
		if rec.PostedAt != nil {
			postedAt = rec.PostedAt.UnixMilli()
		}
		tags := make([]string, 0, len(rec.Tags))
		for _, t := range rec.Tags {
			if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
				tags = append(tags, t)
			}
		}

		jobsData = append(jobsData, map[string]any{
			"id":          rec.ID,
			"title":       rec.Title,
			"description": rec.Description,
			"company":     strings.TrimSpace(rec.Company),
			"country":     strings.ToLower(rec.Country),
			"location":    rec.Location,
			"city":        rec.City,
			"remoteType":  string(rec.RemoteType),
			"redirectUrl": rec.RedirectURL,
			"postedAt":    postedAt,
			"tags":        tags,
		})
	}

	out, err := r.client.Write(ctx, query, map[string]any{"jobs": jobsData})
	if err != nil {
		return 0, fmt.Errorf("neo4j insert jobs: %w", err)
	}
	if len(out) == 0 {
		return 0, nil
	}

	n, _ := out[0].Get("inserted")
	count, _ := n.(int64)
	return int(count), nil
}

type jobRow struct {
	ID          string   `mapstructure:"id"`
	Title       string   `mapstructure:"title"`
	Company     string   `mapstructure:"company"`
	Description string   `mapstructure:"description"`
	Country     string   `mapstructure:"country"`
	Location    string   `mapstructure:"location"`
	City        string   `mapstructure:"city"`
	RemoteType  string   `mapstructure:"remoteType"`
	RedirectURL string   `mapstructure:"redirectUrl"`
	PostedAt    *int64   `mapstructure:"postedAt"`
	Tags        []string `mapstructure:"tags"`
}

func decodeJob(v any) (domain.LocalRecord, error) {
	var row jobRow
	if err := mapstructure.Decode(v, &row); err != nil {
		return domain.LocalRecord{}, fmt.Errorf("neo4j decode job: %w", err)
	}

	rec := domain.LocalRecord{
		ID:          row.ID,
		Title:       row.Title,
		Company:     row.Company,
		Description: row.Description,
		Country:     row.Country,
		Location:    row.Location,
		City:        row.City,
		RemoteType:  domain.ParseRemoteType(row.RemoteType),
		RedirectURL: row.RedirectURL,
		Tags:        row.Tags,
	}
	if row.PostedAt != nil {
		ts := time.UnixMilli(*row.PostedAt).UTC()
		rec.PostedAt = &ts
	}
	return rec, nil
}

// uniqueByRedirectURL drops later records sharing a non-empty redirect URL
func uniqueByRedirectURL(records []domain.LocalRecord) []domain.LocalRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]domain.LocalRecord, 0, len(records))
	for _, rec := range records {
		if rec.RedirectURL != "" {
			if _, dup := seen[rec.RedirectURL]; dup {
				continue
			}
			seen[rec.RedirectURL] = struct{}{}
		}
		out = append(out, rec)
	}
	return out
}
