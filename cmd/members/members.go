// Package members implements the members command: a full refresh of member
// profiles, regions and political groups.
package members

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdcommon "github.com/parlwatch/pspcrawl/cmd/common"
	"github.com/parlwatch/pspcrawl/internal/crawl"
)

// Command returns the members command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "members",
		Short: "Crawl member profiles with region and political group",
		Long: `Crawl the political clubs of www.psp.cz and refresh every reachable
member profile: name, birth date, gender, portrait hash, region and
group. Profiles are always refreshed in full; there is no resume point.`,
		RunE: run,
	}
}

func run(cmd *cobra.Command, _ []string) error {
	deps, err := cmdcommon.NewCommandDeps()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close()

	summary, err := crawl.RunMembers(cmd.Context(), deps.CrawlDeps())
	if summary != nil {
		fmt.Fprintln(cmd.OutOrStdout(), summary.Render())
	}
	if err != nil {
		return fmt.Errorf("members crawl failed: %w", err)
	}

	deps.Logger.Info("Members crawl finished")
	return nil
}
