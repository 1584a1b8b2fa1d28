package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/parlwatch/pspcrawl/internal/domain"
)

// regionColumns lists columns for SELECT and RETURNING clauses on region.
const regionColumns = `id, name, url, created, last_modified`

// RegionRepository handles database operations for electoral regions.
type RegionRepository struct {
	db *sqlx.DB
}

// NewRegionRepository creates a new region repository.
func NewRegionRepository(db *sqlx.DB) *RegionRepository {
	return &RegionRepository{db: db}
}

// Upsert creates the region on first reference and refreshes its name on
// later ones. The URL uniqueness constraint guarantees one row per region
// even under concurrent creation.
func (r *RegionRepository) Upsert(ctx context.Context, name, url string) (*domain.Region, error) {
	query := `
		INSERT INTO region (name, url)
		VALUES ($1, $2)
		ON CONFLICT (url) DO UPDATE SET
			name = EXCLUDED.name,
			last_modified = NOW()
		RETURNING ` + regionColumns

	var region domain.Region
	if err := r.db.GetContext(ctx, &region, query, name, url); err != nil {
		return nil, fmt.Errorf("failed to upsert region: %w", err)
	}

	return &region, nil
}
