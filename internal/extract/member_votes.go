package extract

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/parlwatch/pspcrawl/internal/pspurl"
	"github.com/parlwatch/pspcrawl/internal/record"
)

// memberVoteRowLocs locates the ballot table rows on a voting detail page.
// The ballot table is the second centered block.
var memberVoteRowLocs = Locator{
	"/html/body/div[3]/div[2]/div[2]/center[2]/table/tbody/tr[position()>1]",
	"//center[2]/table//tr[position()>1]",
}

// ballotCellPairs gives the (vote cell, member link cell) column indices of
// the up-to-four ballots packed into each table row.
var ballotCellPairs = [4][2]int{{1, 2}, {3, 4}, {5, 6}, {7, 8}}

// ParseBallotTable extracts individual member ballots from a voting detail
// page. The parent voting is attached by the caller. A cell pair without a
// member link is simply vacant, not an error; a member link without an
// extractable stable id is rejected with an error, never silently kept.
func ParseBallotTable(doc *html.Node, baseURL string) ([]*record.MemberVote, []error) {
	var (
		ballots []*record.MemberVote
		errs    []error
	)

	for i, row := range memberVoteRowLocs.All(doc) {
		for _, pair := range ballotCellPairs {
			ballot, err := parseBallotCells(row, baseURL, pair[0], pair[1])
			if err != nil {
				errs = append(errs, fmt.Errorf("ballot row %d cell %d: %w", i, pair[1], err))
				continue
			}
			if ballot != nil {
				ballots = append(ballots, ballot)
			}
		}
	}

	return ballots, errs
}

// parseBallotCells extracts one ballot from a (vote, member) cell pair.
// Returns (nil, nil) when the member cell holds no link, meaning the pair is
// vacant on this row.
func parseBallotCells(row *html.Node, baseURL string, voteCol, membCol int) (*record.MemberVote, error) {
	link := node(row, fmt.Sprintf("td[%d]/a", membCol))
	if link == nil {
		return nil, nil
	}

	vote, ok := text(row, fmt.Sprintf("td[%d]", voteCol))
	if !ok || vote == "" {
		return nil, fmt.Errorf("%w: vote code", ErrFieldMissing)
	}

	memberURL, err := pspurl.Canonical(baseURL, attr(link, "href"))
	if err != nil {
		return nil, err
	}

	memberID, err := pspurl.MemberID(memberURL)
	if err != nil {
		return nil, err
	}

	return &record.MemberVote{
		Vote:       vote,
		MemberName: innerText(link),
		MemberURL:  memberURL,
		MemberID:   memberID,
	}, nil
}
