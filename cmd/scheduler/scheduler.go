// Package scheduler implements the scheduler command: recurring votes and
// members crawls driven by cron expressions from the configuration.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	cmdcommon "github.com/parlwatch/pspcrawl/cmd/common"
	"github.com/parlwatch/pspcrawl/internal/crawl"
	"github.com/parlwatch/pspcrawl/internal/logger"
	"github.com/parlwatch/pspcrawl/internal/resume"
)

// Command returns the scheduler command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "scheduler",
		Short: "Run recurring crawls on a cron schedule",
		Long: `Run continuously, executing the votes crawl and the members crawl on
their configured cron schedules (schedule.votes and schedule.members).
The scheduler runs until interrupted.`,
		RunE: run,
	}
}

func run(cmd *cobra.Command, _ []string) error {
	deps, err := cmdcommon.NewCommandDeps()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close()

	svc := newService(deps)
	if err := svc.start(cmd.Context()); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	deps.Logger.Info("Scheduler started, waiting for interrupt",
		"votes_schedule", deps.Config.Schedule.Votes,
		"members_schedule", deps.Config.Schedule.Members)

	<-cmd.Context().Done()
	deps.Logger.Info("Shutdown signal received")

	svc.stop()
	deps.Logger.Info("Scheduler stopped")
	return nil
}

// service runs the two crawls on their cron schedules. A mutex serializes
// the crawls: a votes run and a members run never overlap, and a schedule
// tick that fires while the previous run is still going waits its turn.
type service struct {
	deps *cmdcommon.CommandDeps
	cron *cron.Cron
	log  logger.Interface

	mu sync.Mutex
}

func newService(deps *cmdcommon.CommandDeps) *service {
	return &service{
		deps: deps,
		cron: cron.New(),
		log:  deps.Logger,
	}
}

func (s *service) start(ctx context.Context) error {
	schedule := s.deps.Config.Schedule

	if _, err := s.cron.AddFunc(schedule.Votes, func() { s.runVotes(ctx) }); err != nil {
		return fmt.Errorf("invalid votes schedule %q: %w", schedule.Votes, err)
	}
	if _, err := s.cron.AddFunc(schedule.Members, func() { s.runMembers(ctx) }); err != nil {
		return fmt.Errorf("invalid members schedule %q: %w", schedule.Members, err)
	}

	s.cron.Start()
	return nil
}

// stop halts the cron scheduler and waits for a running crawl to finish.
func (s *service) stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()

	s.mu.Lock()
	s.mu.Unlock() //nolint:staticcheck // barrier: wait for an in-flight crawl
}

func (s *service) runVotes(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Info("Scheduled votes crawl starting")
	summary, err := crawl.RunVotes(ctx, s.deps.CrawlDeps(), resume.Params{})
	if err != nil {
		s.log.Error("Scheduled votes crawl failed", "error", err)
	}
	if summary != nil {
		s.log.Info("Scheduled votes crawl finished", "summary", summary.String())
	}
}

func (s *service) runMembers(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Info("Scheduled members crawl starting")
	summary, err := crawl.RunMembers(ctx, s.deps.CrawlDeps())
	if err != nil {
		s.log.Error("Scheduled members crawl failed", "error", err)
	}
	if summary != nil {
		s.log.Info("Scheduled members crawl finished", "summary", summary.String())
	}
}
