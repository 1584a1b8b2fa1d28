package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// MemberVoteRepository handles database operations for individual ballots.
type MemberVoteRepository struct {
	db *sqlx.DB
}

// NewMemberVoteRepository creates a new member vote repository.
func NewMemberVoteRepository(db *sqlx.DB) *MemberVoteRepository {
	return &MemberVoteRepository{db: db}
}

// Insert stores a ballot for the (member, voting) pair. A ballot is immutable
// once cast, so a conflicting pair is left untouched. Returns true when a row
// was actually inserted, false when the pair already existed.
func (r *MemberVoteRepository) Insert(ctx context.Context, vote string, memberID, votingID int64) (bool, error) {
	query := `
		INSERT INTO parl_memb_voting (vote, parl_memb_id, voting_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (parl_memb_id, voting_id) DO NOTHING
	`

	res, err := r.db.ExecContext(ctx, query, vote, memberID, votingID)
	if err != nil {
		return false, fmt.Errorf("failed to insert member vote: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read member vote insert result: %w", err)
	}

	return affected > 0, nil
}

// Exists reports whether a ballot exists for the (member, voting) pair.
func (r *MemberVoteRepository) Exists(ctx context.Context, memberID, votingID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM parl_memb_voting WHERE parl_memb_id = $1 AND voting_id = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, memberID, votingID); err != nil {
		return false, fmt.Errorf("failed to check member vote existence: %w", err)
	}

	return exists, nil
}
