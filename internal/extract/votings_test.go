package extract_test

import (
	"testing"
	"time"

	"github.com/parlwatch/pspcrawl/internal/extract"
)

// Two well-formed rows after the header: one whose date cell links to the
// minutes, one with a bare-text date (the site omits the link on some rows).
const votingTableHTML = `<html><body>
<center><table>
<tr><th></th><th>č.</th><th></th><th>název</th><th>datum</th><th>výsledek</th></tr>
<tr>
<td></td><td><a href="hlasy.sqw?g=58101">1</a></td><td></td>
<td>Pořad schůze</td>
<td><a href="stenprot.sqw?turn=1">18.&#160;4.&#160;2023</a></td>
<td>Přijato</td>
</tr>
<tr>
<td></td><td><a href="hlasy.sqw?g=58102">2</a></td><td></td>
<td>Novela zákona</td>
<td>18.&#160;4.&#160;2023</td>
<td>Zamítnuto</td>
</tr>
<tr>
<td></td><td><a href="hlasy.sqw?g=58103">x</a></td><td></td>
<td>Rozbitý řádek</td>
<td>18. 4. 2023</td>
<td>Přijato</td>
</tr>
</table></center>
</body></html>`

func TestParseVotingTable(t *testing.T) {
	doc, err := extract.Parse([]byte(votingTableHTML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	votings, errs := extract.ParseVotingTable(doc, baseURL)

	// The row with a non-numeric voting number is dropped and reported.
	if len(errs) != 1 {
		t.Errorf("ParseVotingTable() errors = %d, want 1: %v", len(errs), errs)
	}
	if len(votings) != 2 {
		t.Fatalf("ParseVotingTable() votings = %d, want 2", len(votings))
	}

	wantDate := time.Date(2023, 4, 18, 0, 0, 0, 0, time.UTC)

	withMinutes := votings[0]
	if withMinutes.URL != "https://www.psp.cz/sqw/hlasy.sqw?g=58101" {
		t.Errorf("voting URL = %q", withMinutes.URL)
	}
	if withMinutes.Number != 1 {
		t.Errorf("voting number = %d, want 1", withMinutes.Number)
	}
	if withMinutes.Name != "Pořad schůze" {
		t.Errorf("voting name = %q", withMinutes.Name)
	}
	if withMinutes.Result != "Přijato" {
		t.Errorf("voting result = %q", withMinutes.Result)
	}
	if !withMinutes.Date.Equal(wantDate) {
		t.Errorf("voting date = %v, want %v", withMinutes.Date, wantDate)
	}
	if withMinutes.MinutesURL != "https://www.psp.cz/sqw/stenprot.sqw?turn=1" {
		t.Errorf("minutes URL = %q", withMinutes.MinutesURL)
	}

	withoutMinutes := votings[1]
	if withoutMinutes.MinutesURL != "" {
		t.Errorf("minutes URL = %q, want empty for bare-text date cell", withoutMinutes.MinutesURL)
	}
	if !withoutMinutes.Date.Equal(wantDate) {
		t.Errorf("voting date = %v, want %v", withoutMinutes.Date, wantDate)
	}
}

func TestParseVotingTableEmptyPage(t *testing.T) {
	doc, err := extract.Parse([]byte(`<html><body><p>žádná hlasování</p></body></html>`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	votings, errs := extract.ParseVotingTable(doc, baseURL)
	if len(votings) != 0 || len(errs) != 0 {
		t.Errorf("ParseVotingTable() on empty page = %d votings, %d errors", len(votings), len(errs))
	}
}
