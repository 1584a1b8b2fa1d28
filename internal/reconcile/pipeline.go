// Package reconcile commits extracted records to storage. All commits flow
// through one pipeline instance on one goroutine — the single writer — so
// fetch parallelism never races parent and child commits. Every commit is
// idempotent: re-running a crawl over the same pages produces no duplicate
// rows, only redundant overwrites.
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/parlwatch/pspcrawl/internal/database"
	"github.com/parlwatch/pspcrawl/internal/domain"
	"github.com/parlwatch/pspcrawl/internal/logger"
	"github.com/parlwatch/pspcrawl/internal/record"
)

// ErrParentMissing is returned when a record's parent row cannot be found at
// commit time. This is a traversal-ordering bug, not a retryable condition,
// and is surfaced distinctly from extraction errors.
var ErrParentMissing = errors.New("parent row not found")

// SittingStore persists sittings.
type SittingStore interface {
	Upsert(ctx context.Context, url, name string) (*domain.Sitting, error)
	GetByURL(ctx context.Context, url string) (*domain.Sitting, error)
}

// VotingStore persists votings.
type VotingStore interface {
	Upsert(ctx context.Context, params database.VotingParams) (*domain.Voting, error)
	GetByURL(ctx context.Context, url string) (*domain.Voting, error)
}

// MemberStore persists members.
type MemberStore interface {
	EnsureStub(ctx context.Context, pspID int, url, name string) (*domain.Member, error)
	UpsertProfile(ctx context.Context, params database.ProfileParams) (*domain.Member, error)
}

// MemberVoteStore persists individual ballots.
type MemberVoteStore interface {
	Insert(ctx context.Context, vote string, memberID, votingID int64) (bool, error)
}

// RegionStore persists regions.
type RegionStore interface {
	Upsert(ctx context.Context, name, url string) (*domain.Region, error)
}

// PolitGroupStore persists political groups.
type PolitGroupStore interface {
	Upsert(ctx context.Context, name, nameFull, url string) (*domain.PolitGroup, error)
}

// Stores bundles the storage dependencies of the pipeline.
type Stores struct {
	Sittings    SittingStore
	Votings     VotingStore
	Members     MemberStore
	MemberVotes MemberVoteStore
	Regions     RegionStore
	Groups      PolitGroupStore
}

// Pipeline deduplicates and commits records. The seen-set lives for exactly
// one run: it is created with the pipeline and discarded with it.
type Pipeline struct {
	stores  Stores
	summary *Summary
	log     logger.Interface
	seen    map[string]struct{}
}

// NewPipeline creates a pipeline for one run.
func NewPipeline(stores Stores, summary *Summary, log logger.Interface) *Pipeline {
	return &Pipeline{
		stores:  stores,
		summary: summary,
		log:     log,
		seen:    map[string]struct{}{},
	}
}

// Commit reconciles one record with storage. Per-record failures (missing
// parents) are logged, counted and swallowed; only storage-level failures
// propagate and abort the run.
func (p *Pipeline) Commit(ctx context.Context, rec record.Record) error {
	id := rec.Identity()
	if _, dup := p.seen[id]; dup {
		p.summary.Duplicate(rec.Kind())
		return nil
	}
	p.seen[id] = struct{}{}

	var err error
	switch r := rec.(type) {
	case *record.Sitting:
		err = p.commitSitting(ctx, r)
	case *record.Voting:
		err = p.commitVoting(ctx, r)
	case *record.MemberVote:
		err = p.commitMemberVote(ctx, r)
	case *record.Member:
		err = p.commitMember(ctx, r)
	default:
		err = fmt.Errorf("unhandled record type %T", rec)
	}

	if err != nil {
		if errors.Is(err, ErrParentMissing) {
			p.summary.IntegrityError(rec.Kind())
			p.log.Error("Integrity error, record skipped",
				"kind", rec.Kind().String(), "identity", id, "error", err)
			return nil
		}
		return fmt.Errorf("commit %s %s: %w", rec.Kind(), id, err)
	}

	return nil
}

func (p *Pipeline) commitSitting(ctx context.Context, r *record.Sitting) error {
	if _, err := p.stores.Sittings.Upsert(ctx, r.URL, r.Name); err != nil {
		return err
	}
	p.summary.Committed(record.KindSitting)
	return nil
}

func (p *Pipeline) commitVoting(ctx context.Context, r *record.Voting) error {
	sitting, err := p.stores.Sittings.GetByURL(ctx, r.Sitting.URL)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("%w: sitting %s", ErrParentMissing, r.Sitting.URL)
		}
		return err
	}

	var minutes *string
	if r.MinutesURL != "" {
		minutes = &r.MinutesURL
	}

	_, err = p.stores.Votings.Upsert(ctx, database.VotingParams{
		URL:        r.URL,
		Number:     r.Number,
		Name:       r.Name,
		Date:       r.Date,
		MinutesURL: minutes,
		Result:     r.Result,
		SittingID:  sitting.ID,
	})
	if err != nil {
		return err
	}

	p.summary.Committed(record.KindVoting)
	return nil
}

func (p *Pipeline) commitMemberVote(ctx context.Context, r *record.MemberVote) error {
	voting, err := p.stores.Votings.GetByURL(ctx, r.Voting.URL)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("%w: voting %s", ErrParentMissing, r.Voting.URL)
		}
		return err
	}

	// The member may be unknown at this point: the profile crawl runs
	// separately. A stub row with just identity, URL and display name
	// satisfies the foreign key; the profile crawl fills in the rest.
	member, err := p.stores.Members.EnsureStub(ctx, r.MemberID, r.MemberURL, r.MemberName)
	if err != nil {
		return err
	}

	inserted, err := p.stores.MemberVotes.Insert(ctx, r.Vote, member.ID, voting.ID)
	if err != nil {
		return err
	}
	if !inserted {
		// Ballot already stored by an earlier run. Immutable, so nothing
		// to refresh.
		p.summary.Duplicate(record.KindMemberVote)
		return nil
	}

	p.summary.Committed(record.KindMemberVote)
	return nil
}

func (p *Pipeline) commitMember(ctx context.Context, r *record.Member) error {
	params := database.ProfileParams{
		PspID: r.PspID,
		URL:   r.URL,
		Name:  r.Name,
	}

	if r.Region != nil {
		region, err := p.stores.Regions.Upsert(ctx, r.Region.Name, r.Region.URL)
		if err != nil {
			return err
		}
		params.RegionID = &region.ID
	}

	if r.Group != nil {
		group, err := p.stores.Groups.Upsert(ctx, r.Group.Name, r.Group.NameFull, r.Group.URL)
		if err != nil {
			return err
		}
		params.GroupID = &group.ID
	}

	if !r.Born.IsZero() {
		born := r.Born
		params.Born = &born
	}
	if r.Gender != "" {
		gender := r.Gender
		params.Gender = &gender
	}
	if r.PictureHash != "" {
		hash := r.PictureHash
		params.PictureHash = &hash
	}

	if _, err := p.stores.Members.UpsertProfile(ctx, params); err != nil {
		return err
	}

	p.summary.Committed(record.KindMember)
	return nil
}
