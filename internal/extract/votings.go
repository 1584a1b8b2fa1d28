package extract

import (
	"fmt"
	"strconv"

	"golang.org/x/net/html"

	"github.com/parlwatch/pspcrawl/internal/pspurl"
	"github.com/parlwatch/pspcrawl/internal/record"
)

// votingRowLocs locates the voting table rows on a sitting's ballot list,
// skipping the header row. Parsed documents always carry a tbody, so the
// fallback matches any descendant row of the first centered table.
var votingRowLocs = Locator{
	"/html/body/div[3]/div[2]/div[2]/center/table/tbody/tr[position()>1]",
	"//center[1]/table//tr[position()>1]",
}

// ParseVotingTable extracts voting records from a ballot list page. The
// parent sitting is attached by the caller. Each row yields at most one
// record; malformed rows are reported and dropped individually.
func ParseVotingTable(doc *html.Node, baseURL string) ([]*record.Voting, []error) {
	var (
		votings []*record.Voting
		errs    []error
	)

	for i, row := range votingRowLocs.All(doc) {
		voting, err := parseVotingRow(row, baseURL)
		if err != nil {
			errs = append(errs, fmt.Errorf("voting row %d: %w", i, err))
			continue
		}
		votings = append(votings, voting)
	}

	return votings, errs
}

// parseVotingRow extracts one voting from a table row. Cell layout: the
// second cell holds the numbered link to the voting detail, the fourth the
// title, the fifth the date, the sixth the aggregate result. The date cell
// comes in two per-row variants: a link to the minutes, or plain text with
// no minutes reference at all.
func parseVotingRow(row *html.Node, baseURL string) (*record.Voting, error) {
	link := node(row, "td[2]/a")
	if link == nil {
		return nil, fmt.Errorf("%w: voting link", ErrFieldMissing)
	}

	votingURL, err := pspurl.Canonical(baseURL, attr(link, "href"))
	if err != nil {
		return nil, err
	}

	number, err := strconv.Atoi(innerText(link))
	if err != nil {
		return nil, fmt.Errorf("parse voting number: %w", err)
	}

	name, ok := text(row, "td[4]")
	if !ok {
		return nil, fmt.Errorf("%w: voting name", ErrFieldMissing)
	}

	result, ok := text(row, "td[6]")
	if !ok {
		return nil, fmt.Errorf("%w: voting result", ErrFieldMissing)
	}

	dateText, minutesURL, err := parseDateCell(row, baseURL)
	if err != nil {
		return nil, err
	}

	date, err := ParseCzechDate(dateText)
	if err != nil {
		return nil, err
	}

	return &record.Voting{
		URL:        votingURL,
		Number:     number,
		Name:       name,
		Date:       date,
		MinutesURL: minutesURL,
		Result:     result,
	}, nil
}

// parseDateCell handles both layouts of the fifth cell: an anchor wrapping
// the date (whose href points at the minutes transcript) or bare text.
func parseDateCell(row *html.Node, baseURL string) (dateText, minutesURL string, err error) {
	if link := node(row, "td[5]/a"); link != nil {
		minutes, canonErr := pspurl.Canonical(baseURL, attr(link, "href"))
		if canonErr != nil {
			return "", "", canonErr
		}
		return innerText(link), minutes, nil
	}

	dateText, ok := text(row, "td[5]")
	if !ok {
		return "", "", fmt.Errorf("%w: voting date", ErrFieldMissing)
	}

	return dateText, "", nil
}
