// Package votes implements the votes command: one crawl over the sittings,
// votings and individual ballots of the configured parliamentary term.
package votes

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdcommon "github.com/parlwatch/pspcrawl/cmd/common"
	"github.com/parlwatch/pspcrawl/internal/crawl"
	"github.com/parlwatch/pspcrawl/internal/resume"
)

var (
	full        bool
	fromTerm    int
	fromSitting int
)

// Command returns the votes command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "votes",
		Short: "Crawl sittings, votings and individual ballots",
		Long: `Crawl the voting archive of www.psp.cz: sittings, votings and every
member's ballot. By default the crawl resumes from the latest sitting
already in storage; pass --full to reprocess everything, or --term and
--sitting together to resume from an explicit point.`,
		RunE: run,
	}

	cmd.Flags().BoolVar(&full, "full", false, "process every sitting, ignoring stored state")
	cmd.Flags().IntVar(&fromTerm, "term", 0, "electoral term of the explicit resume point")
	cmd.Flags().IntVar(&fromSitting, "sitting", 0, "sitting number of the explicit resume point")

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	deps, err := cmdcommon.NewCommandDeps()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close()

	params := resume.Params{Full: full, Term: fromTerm, Sitting: fromSitting}

	summary, err := crawl.RunVotes(cmd.Context(), deps.CrawlDeps(), params)
	if summary != nil {
		fmt.Fprintln(cmd.OutOrStdout(), summary.Render())
	}
	if err != nil {
		return fmt.Errorf("votes crawl failed: %w", err)
	}

	deps.Logger.Info("Votes crawl finished")
	return nil
}
