// Package crawl defines the two traversals over www.psp.cz: the votes crawl
// (sittings, votings, individual ballots) and the members crawl (profiles
// with region and group). Each crawl is a table of page kinds and handlers
// consumed by the walker.
package crawl

import (
	"context"
	"regexp"

	"github.com/parlwatch/pspcrawl/internal/extract"
	"github.com/parlwatch/pspcrawl/internal/logger"
	"github.com/parlwatch/pspcrawl/internal/reconcile"
	"github.com/parlwatch/pspcrawl/internal/resume"
	"github.com/parlwatch/pspcrawl/internal/walker"
)

// Page kinds of the votes crawl.
const (
	PageTermHome      walker.PageKind = "term_home"
	PageSittingIndex  walker.PageKind = "sitting_index"
	PageSittingDetail walker.PageKind = "sitting_detail"
	PageVotingList    walker.PageKind = "voting_list"
	PageVotingDetail  walker.PageKind = "voting_detail"
)

var (
	// votingArchiveLinkRe matches links from the term homepage to the
	// voting archive index.
	votingArchiveLinkRe = regexp.MustCompile(`hlasovani\.sqw$`)

	// votingListLinkRe matches links from a sitting page to its ballot
	// list tables.
	votingListLinkRe = regexp.MustCompile(`phlasa\.sqw`)
)

// VotesCrawl discovers sittings, votings and individual ballots.
type VotesCrawl struct {
	planner *resume.Planner
	summary *reconcile.Summary
	log     logger.Interface
}

// NewVotesCrawl creates the votes crawl over the given resume planner.
func NewVotesCrawl(planner *resume.Planner, summary *reconcile.Summary, log logger.Interface) *VotesCrawl {
	return &VotesCrawl{planner: planner, summary: summary, log: log}
}

// Seeds returns the start of the traversal: the term homepage.
func (c *VotesCrawl) Seeds(seedURL string) []walker.Task {
	return []walker.Task{{Kind: PageTermHome, URL: seedURL}}
}

// Handlers returns the page kind dispatch table.
func (c *VotesCrawl) Handlers() map[walker.PageKind]walker.Handler {
	return map[walker.PageKind]walker.Handler{
		PageTermHome:      c.handleTermHome,
		PageSittingIndex:  c.handleSittingIndex,
		PageSittingDetail: c.handleSittingDetail,
		PageVotingList:    c.handleVotingList,
		PageVotingDetail:  c.handleVotingDetail,
	}
}

// handleTermHome follows the voting archive links off the term homepage.
func (c *VotesCrawl) handleTermHome(_ context.Context, page *walker.Page) (*walker.Result, error) {
	doc, err := extract.Parse(page.Body)
	if err != nil {
		return nil, err
	}

	result := &walker.Result{}
	for _, link := range extract.FindLinks(doc, page.URL, votingArchiveLinkRe) {
		result.Tasks = append(result.Tasks, walker.Task{Kind: PageSittingIndex, URL: link})
	}
	return result, nil
}

// handleSittingIndex emits a record per discovered sitting at or after the
// resume point, and follows each into its detail page. The sitting record is
// emitted ahead of the follow-up task, so the sitting row is committed
// before anything the detail page produces.
func (c *VotesCrawl) handleSittingIndex(_ context.Context, page *walker.Page) (*walker.Result, error) {
	doc, err := extract.Parse(page.Body)
	if err != nil {
		return nil, err
	}

	sittings, extractErrs := extract.ParseSittingIndex(doc, page.URL)
	c.reportExtractErrs(page.URL, extractErrs)

	result := &walker.Result{}
	for _, sitting := range sittings {
		if !c.planner.ShouldProcess(sitting.Key) {
			c.summary.ResumeSkipped()
			c.log.Debug("Skipping sitting below resume point",
				"sitting", sitting.Key.String(), "url", sitting.URL)
			continue
		}

		c.log.Info("Discovered sitting", "sitting", sitting.Key.String(), "name", sitting.Name)
		result.Records = append(result.Records, sitting)
		result.Tasks = append(result.Tasks, walker.Task{
			Kind: PageSittingDetail,
			URL:  sitting.URL,
			Meta: walker.Meta{Sitting: sitting},
		})
	}
	return result, nil
}

// handleSittingDetail follows the ballot list links, carrying the sitting.
func (c *VotesCrawl) handleSittingDetail(_ context.Context, page *walker.Page) (*walker.Result, error) {
	if page.Meta.Sitting == nil {
		return nil, walker.ErrMissingContext
	}

	doc, err := extract.Parse(page.Body)
	if err != nil {
		return nil, err
	}

	result := &walker.Result{}
	for _, link := range extract.FindLinks(doc, page.URL, votingListLinkRe) {
		result.Tasks = append(result.Tasks, walker.Task{
			Kind: PageVotingList,
			URL:  link,
			Meta: page.Meta,
		})
	}
	return result, nil
}

// handleVotingList emits a record per voting row and follows each voting
// into its ballot page, carrying the voting.
func (c *VotesCrawl) handleVotingList(_ context.Context, page *walker.Page) (*walker.Result, error) {
	if page.Meta.Sitting == nil {
		return nil, walker.ErrMissingContext
	}

	doc, err := extract.Parse(page.Body)
	if err != nil {
		return nil, err
	}

	votings, extractErrs := extract.ParseVotingTable(doc, page.URL)
	c.reportExtractErrs(page.URL, extractErrs)

	result := &walker.Result{}
	for _, voting := range votings {
		voting.Sitting = page.Meta.Sitting
		result.Records = append(result.Records, voting)
		result.Tasks = append(result.Tasks, walker.Task{
			Kind: PageVotingDetail,
			URL:  voting.URL,
			Meta: walker.Meta{Voting: voting},
		})
	}
	return result, nil
}

// handleVotingDetail emits one record per individual ballot.
func (c *VotesCrawl) handleVotingDetail(_ context.Context, page *walker.Page) (*walker.Result, error) {
	if page.Meta.Voting == nil {
		return nil, walker.ErrMissingContext
	}

	doc, err := extract.Parse(page.Body)
	if err != nil {
		return nil, err
	}

	ballots, extractErrs := extract.ParseBallotTable(doc, page.URL)
	c.reportExtractErrs(page.URL, extractErrs)

	result := &walker.Result{}
	for _, ballot := range ballots {
		ballot.Voting = page.Meta.Voting
		result.Records = append(result.Records, ballot)
	}
	return result, nil
}

// reportExtractErrs logs and counts per-row extraction failures. The page
// keeps being processed; only the offending rows are lost.
func (c *VotesCrawl) reportExtractErrs(pageURL string, errs []error) {
	for _, err := range errs {
		c.summary.ExtractionError()
		c.log.Warn("Extraction error, row dropped", "url", pageURL, "error", err)
	}
}
