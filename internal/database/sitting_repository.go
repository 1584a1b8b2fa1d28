package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/parlwatch/pspcrawl/internal/domain"
)

// sittingColumns lists columns for SELECT and RETURNING clauses on sitting.
const sittingColumns = `id, url, name, created, last_modified`

// SittingRepository handles database operations for sittings.
type SittingRepository struct {
	db *sqlx.DB
}

// NewSittingRepository creates a new sitting repository.
func NewSittingRepository(db *sqlx.DB) *SittingRepository {
	return &SittingRepository{db: db}
}

// Upsert inserts the sitting or, when the URL is already known, refreshes its
// name. Re-crawling the same sitting any number of times yields one row.
func (r *SittingRepository) Upsert(ctx context.Context, url, name string) (*domain.Sitting, error) {
	query := `
		INSERT INTO sitting (url, name)
		VALUES ($1, $2)
		ON CONFLICT (url) DO UPDATE SET
			name = EXCLUDED.name,
			last_modified = NOW()
		RETURNING ` + sittingColumns

	var sitting domain.Sitting
	if err := r.db.GetContext(ctx, &sitting, query, url, name); err != nil {
		return nil, fmt.Errorf("failed to upsert sitting: %w", err)
	}

	return &sitting, nil
}

// GetByURL returns the sitting with the given URL, or ErrNotFound.
func (r *SittingRepository) GetByURL(ctx context.Context, url string) (*domain.Sitting, error) {
	query := `SELECT ` + sittingColumns + ` FROM sitting WHERE url = $1`

	var sitting domain.Sitting
	err := r.db.GetContext(ctx, &sitting, query, url)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get sitting by url: %w", err)
	}

	return &sitting, nil
}

// ListURLs returns the URLs of all stored sittings. The resume planner
// decodes ordering keys from these; ordering is numeric over the decoded
// keys, so no ORDER BY is attempted here.
func (r *SittingRepository) ListURLs(ctx context.Context) ([]string, error) {
	query := `SELECT url FROM sitting`

	var urls []string
	if err := r.db.SelectContext(ctx, &urls, query); err != nil {
		return nil, fmt.Errorf("failed to list sitting urls: %w", err)
	}

	return urls, nil
}
