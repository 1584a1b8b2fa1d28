package crawl

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/parlwatch/pspcrawl/internal/config"
	"github.com/parlwatch/pspcrawl/internal/database"
	"github.com/parlwatch/pspcrawl/internal/fetch"
	"github.com/parlwatch/pspcrawl/internal/logger"
	"github.com/parlwatch/pspcrawl/internal/portrait"
	"github.com/parlwatch/pspcrawl/internal/reconcile"
	"github.com/parlwatch/pspcrawl/internal/resume"
	"github.com/parlwatch/pspcrawl/internal/walker"
)

// Deps are the shared dependencies both crawls assemble their run from. The
// commands and the scheduler build one Deps and reuse it across runs.
type Deps struct {
	DB      *sqlx.DB
	Fetcher *fetch.Client
	Config  *config.Config
	Log     logger.Interface
}

// newStores wires the repositories for one run.
func newStores(db *sqlx.DB) reconcile.Stores {
	return reconcile.Stores{
		Sittings:    database.NewSittingRepository(db),
		Votings:     database.NewVotingRepository(db),
		Members:     database.NewMemberRepository(db),
		MemberVotes: database.NewMemberVoteRepository(db),
		Regions:     database.NewRegionRepository(db),
		Groups:      database.NewPolitGroupRepository(db),
	}
}

// RunVotes executes one votes crawl: sittings, votings and individual
// ballots from the configured seed, honoring the resume parameters.
func RunVotes(ctx context.Context, deps Deps, params resume.Params) (*reconcile.Summary, error) {
	log := deps.Log.With("crawl", "votes")

	planner, err := resume.NewPlanner(ctx, params, database.NewSittingRepository(deps.DB), log)
	if err != nil {
		return nil, fmt.Errorf("plan votes crawl: %w", err)
	}

	summary := reconcile.NewSummary()
	crawl := NewVotesCrawl(planner, summary, log)
	pipeline := reconcile.NewPipeline(newStores(deps.DB), summary, log)
	w := walker.New(deps.Fetcher, crawl.Handlers(), log, walker.Config{Workers: deps.Config.Crawler.Workers})

	seedURL := deps.Config.Crawler.VotesSeedURL()
	log.Info("Starting votes crawl", "seed", seedURL, "mode", planner.Mode().String())

	if err := Run(ctx, w, crawl.Seeds(seedURL), pipeline, summary); err != nil {
		return summary, err
	}
	return summary, nil
}

// RunMembers executes one members crawl: every profile reachable from the
// political clubs page. Member profiles have no resume point; the crawl is a
// full refresh each time.
func RunMembers(ctx context.Context, deps Deps) (*reconcile.Summary, error) {
	log := deps.Log.With("crawl", "members")

	summary := reconcile.NewSummary()
	crawl := NewMembersCrawl(portrait.NewHasher(deps.Fetcher), summary, log)
	pipeline := reconcile.NewPipeline(newStores(deps.DB), summary, log)
	w := walker.New(deps.Fetcher, crawl.Handlers(), log, walker.Config{Workers: deps.Config.Crawler.Workers})

	seedURL := deps.Config.Crawler.MembersSeedURL()
	log.Info("Starting members crawl", "seed", seedURL)

	if err := Run(ctx, w, crawl.Seeds(seedURL), pipeline, summary); err != nil {
		return summary, err
	}
	return summary, nil
}
