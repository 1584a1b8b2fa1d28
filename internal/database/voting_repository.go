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

// votingColumns lists columns for SELECT and RETURNING clauses on voting.
const votingColumns = `id, url, voting_nr, name, voting_date, minutes_url, result, sitting_id,
	created, last_modified`

// VotingRepository handles database operations for votings.
type VotingRepository struct {
	db *sqlx.DB
}

// NewVotingRepository creates a new voting repository.
func NewVotingRepository(db *sqlx.DB) *VotingRepository {
	return &VotingRepository{db: db}
}

// VotingParams contains the parameters for upserting a voting.
type VotingParams struct {
	URL        string
	Number     int
	Name       string
	Date       time.Time
	MinutesURL *string
	Result     string
	SittingID  int64
}

// Upsert inserts the voting or, when the URL is already known, refreshes its
// descriptive fields. The sitting reference of an existing row is left
// untouched.
func (r *VotingRepository) Upsert(ctx context.Context, params VotingParams) (*domain.Voting, error) {
	query := `
		INSERT INTO voting (url, voting_nr, name, voting_date, minutes_url, result, sitting_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (url) DO UPDATE SET
			voting_nr = EXCLUDED.voting_nr,
			name = EXCLUDED.name,
			voting_date = EXCLUDED.voting_date,
			minutes_url = EXCLUDED.minutes_url,
			result = EXCLUDED.result,
			last_modified = NOW()
		RETURNING ` + votingColumns

	var voting domain.Voting
	err := r.db.GetContext(
		ctx, &voting, query,
		params.URL, params.Number, params.Name, params.Date,
		params.MinutesURL, params.Result, params.SittingID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert voting: %w", err)
	}

	return &voting, nil
}

// GetByURL returns the voting with the given URL, or ErrNotFound.
func (r *VotingRepository) GetByURL(ctx context.Context, url string) (*domain.Voting, error) {
	query := `SELECT ` + votingColumns + ` FROM voting WHERE url = $1`

	var voting domain.Voting
	err := r.db.GetContext(ctx, &voting, query, url)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get voting by url: %w", err)
	}

	return &voting, nil
}
