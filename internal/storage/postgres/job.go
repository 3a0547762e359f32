// Package postgres stores postings in a PostgreSQL table through pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/honeycarbs/startsmart/internal/domain"
	"github.com/honeycarbs/startsmart/internal/domain/job"
)

var _ job.Repository = (*JobRepository)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS postings (
	id           uuid PRIMARY KEY,
	title        text NOT NULL,
	company      text NOT NULL DEFAULT '',
	description  text NOT NULL DEFAULT '',
	country      text NOT NULL DEFAULT '',
	location     text NOT NULL DEFAULT '',
	city         text NOT NULL DEFAULT '',
	remote_type  text NOT NULL DEFAULT '',
	posted_at    timestamptz,
	redirect_url text NOT NULL DEFAULT '',
	tags         text[] NOT NULL DEFAULT '{}'
);
CREATE UNIQUE INDEX IF NOT EXISTS postings_redirect_url_key ON postings (redirect_url) WHERE redirect_url <> '';
CREATE INDEX IF NOT EXISTS postings_country_idx ON postings (lower(country));
`

const selectColumns = `id::text AS id, title, company, description, country, location, city,
	remote_type, posted_at, redirect_url, tags`

// JobRepository implements job.Repository on PostgreSQL
type JobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a JobRepository over a pgx pool
func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

// EnsureSchema creates the postings table and indexes
func (r *JobRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres schema: %w", err)
	}
	return nil
}

type postingRow struct {
	ID          string     `db:"id"`
	Title       string     `db:"title"`
	Company     string     `db:"company"`
	Description string     `db:"description"`
	Country     string     `db:"country"`
	Location    string     `db:"location"`
	City        string     `db:"city"`
	RemoteType  string     `db:"remote_type"`
	PostedAt    *time.Time `db:"posted_at"`
	RedirectURL string     `db:"redirect_url"`
	Tags        []string   `db:"tags"`
}

func (p postingRow) record() domain.LocalRecord {
	return domain.LocalRecord{
		ID:          p.ID,
		Title:       p.Title,
		Company:     p.Company,
		Description: p.Description,
		Country:     p.Country,
		Location:    p.Location,
		City:        p.City,
		RemoteType:  domain.ParseRemoteType(p.RemoteType),
		PostedAt:    p.PostedAt,
		RedirectURL: p.RedirectURL,
		Tags:        p.Tags,
	}
}

// Find returns postings matching every non-empty filter field, newest first
func (r *JobRepository) Find(ctx context.Context, filter domain.StoreFilter) ([]domain.LocalRecord, error) {
	query, args := buildFindQuery(filter)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres find postings: %w", err)
	}

	found, err := pgx.CollectRows(rows, pgx.RowToStructByName[postingRow])
	if err != nil {
		return nil, fmt.Errorf("postgres scan postings: %w", err)
	}

	out := make([]domain.LocalRecord, 0, len(found))
	for _, row := range found {
		out = append(out, row.record())
	}
	return out, nil
}

// Get loads one posting by id
func (r *JobRepository) Get(ctx context.Context, id string) (domain.LocalRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+selectColumns+` FROM postings WHERE id = $1::uuid`, id)
	if err != nil {
		return domain.LocalRecord{}, fmt.Errorf("postgres get posting: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[postingRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.LocalRecord{}, fmt.Errorf("%w: posting %s", domain.ErrNotFound, id)
		}
		return domain.LocalRecord{}, fmt.Errorf("postgres get posting: %w", err)
	}
	return row.record(), nil
}

// Insert stores new postings, skipping redirect URLs already present
func (r *JobRepository) Insert(ctx context.Context, records []domain.LocalRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	const insert = `
		INSERT INTO postings (id, title, company, description, country, location, city,
			remote_type, posted_at, redirect_url, tags)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT DO NOTHING`

	batch := &pgx.Batch{}
	for _, rec := range records {
		tags := make([]string, 0, len(rec.Tags))
		for _, t := range rec.Tags {
			if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
				tags = append(tags, t)
			}
		}
		batch.Queue(insert,
			rec.ID, rec.Title, rec.Company, rec.Description, strings.ToLower(rec.Country),
			rec.Location, rec.City, string(rec.RemoteType), rec.PostedAt, rec.RedirectURL, tags,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range records {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("postgres insert posting: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// buildFindQuery turns a filter into SQL with positional arguments
func buildFindQuery(filter domain.StoreFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if c := strings.ToLower(strings.TrimSpace(filter.Country)); c != "" {
		where = append(where, "lower(country) = "+arg(c))
	}
	if l := strings.TrimSpace(filter.Location); l != "" {
		where = append(where, "location ILIKE "+arg(containsPattern(l)))
	}
	if t := strings.TrimSpace(filter.Text); t != "" {
		p := arg(containsPattern(t))
		where = append(where, "(title ILIKE "+p+" OR description ILIKE "+p+")")
	}
	for _, tag := range filter.AllTags {
		if tag = strings.TrimSpace(tag); tag == "" {
			continue
		}
		where = append(where, "EXISTS (SELECT 1 FROM unnest(tags) AS t(tag) WHERE t.tag ILIKE "+arg(containsPattern(tag))+")")
	}

	query := "SELECT " + selectColumns + " FROM postings"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY posted_at DESC NULLS LAST"
	return query, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
