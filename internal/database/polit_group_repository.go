package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/parlwatch/pspcrawl/internal/domain"
)

// politGroupColumns lists columns for SELECT and RETURNING clauses on polit_group.
const politGroupColumns = `id, name, name_full, url, created, last_modified`

// PolitGroupRepository handles database operations for political groups.
type PolitGroupRepository struct {
	db *sqlx.DB
}

// NewPolitGroupRepository creates a new political group repository.
func NewPolitGroupRepository(db *sqlx.DB) *PolitGroupRepository {
	return &PolitGroupRepository{db: db}
}

// Upsert creates the group on first reference and refreshes its names on
// later ones.
func (r *PolitGroupRepository) Upsert(ctx context.Context, name, nameFull, url string) (*domain.PolitGroup, error) {
	query := `
		INSERT INTO polit_group (name, name_full, url)
		VALUES ($1, $2, $3)
		ON CONFLICT (url) DO UPDATE SET
			name = EXCLUDED.name,
			name_full = EXCLUDED.name_full,
			last_modified = NOW()
		RETURNING ` + politGroupColumns

	var group domain.PolitGroup
	if err := r.db.GetContext(ctx, &group, query, name, nameFull, url); err != nil {
		return nil, fmt.Errorf("failed to upsert political group: %w", err)
	}

	return &group, nil
}
