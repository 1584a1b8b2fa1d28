package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/parlwatch/pspcrawl/internal/domain"
)

// memberColumns lists columns for SELECT and RETURNING clauses on parl_memb.
const memberColumns = `id, psp_cz_id, url, name, name_full, born, gender, picture_hash,
	region_id, polit_group_id, created, last_modified`

// MemberRepository handles database operations for parliament members.
type MemberRepository struct {
	db *sqlx.DB
}

// NewMemberRepository creates a new member repository.
func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// EnsureStub guarantees a member row exists for the given stable id and
// returns it. When a row already exists only its URL and short name are
// refreshed; biographical fields filled in by the profile crawl are never
// clobbered from a ballot page. The conflict target makes concurrent
// stub-creation for the same id collapse into one row.
func (r *MemberRepository) EnsureStub(ctx context.Context, pspID int, url, name string) (*domain.Member, error) {
	query := `
		INSERT INTO parl_memb (psp_cz_id, url, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (psp_cz_id) DO UPDATE SET
			url = EXCLUDED.url,
			name = EXCLUDED.name,
			last_modified = NOW()
		RETURNING ` + memberColumns

	var member domain.Member
	if err := r.db.GetContext(ctx, &member, query, pspID, url, name); err != nil {
		return nil, fmt.Errorf("failed to ensure member stub: %w", err)
	}

	return &member, nil
}

// ProfileParams contains the full biographical fields from a profile page.
type ProfileParams struct {
	PspID       int
	URL         string
	Name        string
	NameFull    *string
	Born        *time.Time
	Gender      *string
	PictureHash *string
	RegionID    *int64
	GroupID     *int64
}

// UpsertProfile inserts the member or overwrites the mutable fields of the
// existing row with the same stable id. Identity is never changed.
func (r *MemberRepository) UpsertProfile(ctx context.Context, params ProfileParams) (*domain.Member, error) {
	query := `
		INSERT INTO parl_memb (psp_cz_id, url, name, name_full, born, gender, picture_hash, region_id, polit_group_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (psp_cz_id) DO UPDATE SET
			url = EXCLUDED.url,
			name = EXCLUDED.name,
			name_full = EXCLUDED.name_full,
			born = EXCLUDED.born,
			gender = EXCLUDED.gender,
			picture_hash = EXCLUDED.picture_hash,
			region_id = EXCLUDED.region_id,
			polit_group_id = EXCLUDED.polit_group_id,
			last_modified = NOW()
		RETURNING ` + memberColumns

	var member domain.Member
	err := r.db.GetContext(
		ctx, &member, query,
		params.PspID, params.URL, params.Name, params.NameFull, params.Born,
		params.Gender, params.PictureHash, params.RegionID, params.GroupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert member profile: %w", err)
	}

	return &member, nil
}

// GetByPspID returns the member with the given stable id, or ErrNotFound.
func (r *MemberRepository) GetByPspID(ctx context.Context, pspID int) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM parl_memb WHERE psp_cz_id = $1`

	var member domain.Member
	err := r.db.GetContext(ctx, &member, query, pspID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get member by psp id: %w", err)
	}

	return &member, nil
}
