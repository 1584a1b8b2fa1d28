package extract_test

import (
	"testing"

	"github.com/parlwatch/pspcrawl/internal/extract"
)

// The ballot table is the second centered block. Four (vote, member) cell
// pairs per row; the last row has a vacant pair and one member link without
// a stable id.
const ballotTableHTML = `<html><body>
<center><h1>Hlasování č. 1</h1></center>
<center><table>
<tr><th>hl.</th><th>poslanec</th><th>hl.</th><th>poslanec</th><th>hl.</th><th>poslanec</th><th>hl.</th><th>poslanec</th></tr>
<tr>
<td>A</td><td><a href="detail.sqw?id=5991&amp;o=7">Novák J.</a></td>
<td>N</td><td><a href="detail.sqw?id=6114&amp;o=7">Dvořáková M.</a></td>
<td>Z</td><td><a href="detail.sqw?id=6200&amp;o=7">Svoboda P.</a></td>
<td>0</td><td><a href="detail.sqw?id=6231&amp;o=7">Černý K.</a></td>
</tr>
<tr>
<td>A</td><td><a href="detail.sqw?id=6300&amp;o=7">Malá E.</a></td>
<td>A</td><td><a href="detail.sqw?o=7">Bez identifikátoru</a></td>
<td></td><td></td>
<td></td><td></td>
</tr>
</table></center>
</body></html>`

func TestParseBallotTable(t *testing.T) {
	doc, err := extract.Parse([]byte(ballotTableHTML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	ballots, errs := extract.ParseBallotTable(doc, baseURL)

	// The member link without an id parameter is rejected; the two vacant
	// pairs are not errors.
	if len(errs) != 1 {
		t.Errorf("ParseBallotTable() errors = %d, want 1: %v", len(errs), errs)
	}
	if len(ballots) != 5 {
		t.Fatalf("ParseBallotTable() ballots = %d, want 5", len(ballots))
	}

	first := ballots[0]
	if first.Vote != "A" {
		t.Errorf("ballot vote = %q, want A", first.Vote)
	}
	if first.MemberName != "Novák J." {
		t.Errorf("ballot member name = %q", first.MemberName)
	}
	if first.MemberID != 5991 {
		t.Errorf("ballot member id = %d, want 5991", first.MemberID)
	}
	if first.MemberURL != "https://www.psp.cz/sqw/detail.sqw?id=5991&o=7" {
		t.Errorf("ballot member URL = %q", first.MemberURL)
	}

	wantVotes := []string{"A", "N", "Z", "0", "A"}
	for i, ballot := range ballots {
		if ballot.Vote != wantVotes[i] {
			t.Errorf("ballot %d vote = %q, want %q", i, ballot.Vote, wantVotes[i])
		}
	}
}
