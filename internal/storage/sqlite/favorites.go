// Package sqlite keeps per-user favorites in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/honeycarbs/startsmart/internal/domain"
)

// FavoritesStore persists favorites keyed by (user, job id)
type FavoritesStore struct {
	db    *sql.DB
	clock func() time.Time
}

// NewFavoritesStore creates the favorites table if needed
func NewFavoritesStore(ctx context.Context, db *sql.DB) (*FavoritesStore, error) {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS favorites (
		user_id      TEXT NOT NULL,
		job_id       TEXT NOT NULL,
		title        TEXT NOT NULL DEFAULT '',
		company      TEXT NOT NULL DEFAULT '',
		location     TEXT NOT NULL DEFAULT '',
		description  TEXT NOT NULL DEFAULT '',
		redirect_url TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL,
		PRIMARY KEY (user_id, job_id)
	)`)
	if err != nil {
		return nil, fmt.Errorf("favorites: init schema: %w", err)
	}
	return &FavoritesStore{db: db, clock: time.Now}, nil
}

// List returns a user's favorites, most recent first
func (s *FavoritesStore) List(ctx context.Context, userID string) ([]domain.Favorite, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, job_id, title, company, location, description, redirect_url, created_at
		FROM favorites WHERE user_id = ? ORDER BY created_at DESC, job_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("favorites: list: %w", err)
	}
	defer rows.Close()

	out := []domain.Favorite{}
	for rows.Next() {
		var (
			f       domain.Favorite
			created string
		)
		if err := rows.Scan(&f.UserID, &f.JobID, &f.Title, &f.Company, &f.Location, &f.Description, &f.RedirectURL, &created); err != nil {
			return nil, fmt.Errorf("favorites: scan: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			f.CreatedAt = ts
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Save upserts a favorite; saving the same job twice refreshes its snapshot
func (s *FavoritesStore) Save(ctx context.Context, f domain.Favorite) error {
	if strings.TrimSpace(f.UserID) == "" || strings.TrimSpace(f.JobID) == "" {
		return fmt.Errorf("%w: user id and job id are required", domain.ErrInvalidInput)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, job_id, title, company, location, description, redirect_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, job_id) DO UPDATE SET
			title = excluded.title,
			company = excluded.company,
			location = excluded.location,
			description = excluded.description,
			redirect_url = excluded.redirect_url`,
		f.UserID, f.JobID, f.Title, f.Company, f.Location, f.Description, f.RedirectURL,
		s.clock().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("favorites: save: %w", err)
	}
	return nil
}

// Delete removes a favorite; it returns domain.ErrNotFound when nothing was removed
func (s *FavoritesStore) Delete(ctx context.Context, userID, jobID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = ? AND job_id = ?`, userID, jobID)
	if err != nil {
		return fmt.Errorf("favorites: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("favorites: delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: favorite %s", domain.ErrNotFound, jobID)
	}
	return nil
}
