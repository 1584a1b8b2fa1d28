package crawl_test

import (
	"context"
	"errors"
	"testing"

	"github.com/parlwatch/pspcrawl/internal/crawl"
	"github.com/parlwatch/pspcrawl/internal/logger"
	"github.com/parlwatch/pspcrawl/internal/reconcile"
	"github.com/parlwatch/pspcrawl/internal/record"
	"github.com/parlwatch/pspcrawl/internal/resume"
	"github.com/parlwatch/pspcrawl/internal/walker"
)

type emptyLister struct{}

func (emptyLister) ListURLs(_ context.Context) ([]string, error) { return nil, nil }

func newVotesCrawl(t *testing.T, params resume.Params) (*crawl.VotesCrawl, *reconcile.Summary) {
	t.Helper()

	planner, err := resume.NewPlanner(context.Background(), params, emptyLister{}, logger.NewNoop())
	if err != nil {
		t.Fatalf("NewPlanner() error = %v", err)
	}

	summary := reconcile.NewSummary()
	return crawl.NewVotesCrawl(planner, summary, logger.NewNoop()), summary
}

func handle(t *testing.T, c *crawl.VotesCrawl, kind walker.PageKind, page *walker.Page) *walker.Result {
	t.Helper()

	handler, ok := c.Handlers()[kind]
	if !ok {
		t.Fatalf("no handler for kind %q", kind)
	}
	result, err := handler(context.Background(), page)
	if err != nil {
		t.Fatalf("handler %q error = %v", kind, err)
	}
	return result
}

func TestHandleTermHomeFollowsArchiveLink(t *testing.T) {
	c, _ := newVotesCrawl(t, resume.Params{Full: true})

	page := &walker.Page{
		URL: "https://www.psp.cz/sqw/hp.sqw?k=27",
		Body: []byte(`<html><body>
<a href="hlasovani.sqw">Hlasování</a>
<a href="snemovna.sqw">Sněmovna</a>
</body></html>`),
	}

	result := handle(t, c, crawl.PageTermHome, page)

	if len(result.Tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(result.Tasks))
	}
	if result.Tasks[0].Kind != crawl.PageSittingIndex {
		t.Errorf("task kind = %q, want sitting index", result.Tasks[0].Kind)
	}
}

func TestHandleSittingIndexEmitsRecordBeforeTask(t *testing.T) {
	c, _ := newVotesCrawl(t, resume.Params{Full: true})

	page := &walker.Page{
		URL: "https://www.psp.cz/sqw/hlasovani.sqw?o=7",
		Body: []byte(`<html><body><div id="main-content">
<b><a href="phlasa.sqw?o=7&amp;s=9">9. schůze</a></b>
</div></body></html>`),
	}

	result := handle(t, c, crawl.PageSittingIndex, page)

	if len(result.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Records))
	}
	sitting, ok := result.Records[0].(*record.Sitting)
	if !ok {
		t.Fatalf("record type = %T, want *record.Sitting", result.Records[0])
	}

	if len(result.Tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(result.Tasks))
	}
	task := result.Tasks[0]
	if task.Kind != crawl.PageSittingDetail {
		t.Errorf("task kind = %q, want sitting detail", task.Kind)
	}
	// The sitting rides along so downstream votings can reference it.
	if task.Meta.Sitting != sitting {
		t.Error("task must carry the emitted sitting as context")
	}
}

func TestHandleSittingIndexSkipsBelowResumePoint(t *testing.T) {
	c, _ := newVotesCrawl(t, resume.Params{Term: 7, Sitting: 10})

	page := &walker.Page{
		URL: "https://www.psp.cz/sqw/hlasovani.sqw?o=7",
		Body: []byte(`<html><body><div id="main-content">
<b><a href="phlasa.sqw?o=7&amp;s=9">9. schůze</a></b>
<b><a href="phlasa.sqw?o=7&amp;s=10">10. schůze</a></b>
<b><a href="phlasa.sqw?o=7&amp;s=11">11. schůze</a></b>
</div></body></html>`),
	}

	result := handle(t, c, crawl.PageSittingIndex, page)

	// Sitting 9 is below the point; 10 (the point itself) and 11 proceed.
	if len(result.Records) != 2 {
		t.Errorf("got %d records, want 2", len(result.Records))
	}
	if len(result.Tasks) != 2 {
		t.Errorf("got %d tasks, want 2", len(result.Tasks))
	}
}

func TestHandleVotingListCarriesSitting(t *testing.T) {
	c, _ := newVotesCrawl(t, resume.Params{Full: true})

	sitting := &record.Sitting{URL: "https://www.psp.cz/sqw/phlasa.sqw?o=7&s=9"}
	page := &walker.Page{
		URL: "https://www.psp.cz/sqw/phlasa.sqw?o=7&s=9",
		Meta: walker.Meta{
			Sitting: sitting,
		},
		Body: []byte(`<html><body><center><table>
<tr><th></th><th>č.</th><th></th><th>název</th><th>datum</th><th>výsledek</th></tr>
<tr><td></td><td><a href="hlasy.sqw?g=58101">1</a></td><td></td>
<td>Pořad schůze</td><td>18. 4. 2023</td><td>Přijato</td></tr>
</table></center></body></html>`),
	}

	result := handle(t, c, crawl.PageVotingList, page)

	if len(result.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Records))
	}
	voting, ok := result.Records[0].(*record.Voting)
	if !ok {
		t.Fatalf("record type = %T, want *record.Voting", result.Records[0])
	}
	if voting.Sitting != sitting {
		t.Error("voting must reference the carried sitting")
	}

	if len(result.Tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(result.Tasks))
	}
	if result.Tasks[0].Meta.Voting != voting {
		t.Error("detail task must carry the emitted voting as context")
	}
}

func TestHandleVotingListWithoutContextFails(t *testing.T) {
	c, _ := newVotesCrawl(t, resume.Params{Full: true})

	handler := c.Handlers()[crawl.PageVotingList]
	_, err := handler(context.Background(), &walker.Page{
		URL:  "https://www.psp.cz/sqw/phlasa.sqw?o=7&s=9",
		Body: []byte(`<html><body></body></html>`),
	})
	if !errors.Is(err, walker.ErrMissingContext) {
		t.Errorf("handler error = %v, want ErrMissingContext", err)
	}
}

func TestHandleVotingDetailAttachesVoting(t *testing.T) {
	c, _ := newVotesCrawl(t, resume.Params{Full: true})

	voting := &record.Voting{URL: "https://www.psp.cz/sqw/hlasy.sqw?g=58101"}
	page := &walker.Page{
		URL:  voting.URL,
		Meta: walker.Meta{Voting: voting},
		Body: []byte(`<html><body>
<center><h1>Hlasování</h1></center>
<center><table>
<tr><th>hl.</th><th>poslanec</th><th>hl.</th><th>poslanec</th><th>hl.</th><th>poslanec</th><th>hl.</th><th>poslanec</th></tr>
<tr><td>A</td><td><a href="detail.sqw?id=5991&amp;o=7">Novák J.</a></td>
<td></td><td></td><td></td><td></td><td></td><td></td></tr>
</table></center>
</body></html>`),
	}

	result := handle(t, c, crawl.PageVotingDetail, page)

	if len(result.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Records))
	}
	ballot, ok := result.Records[0].(*record.MemberVote)
	if !ok {
		t.Fatalf("record type = %T, want *record.MemberVote", result.Records[0])
	}
	if ballot.Voting != voting {
		t.Error("ballot must reference the carried voting")
	}
	if len(result.Tasks) != 0 {
		t.Errorf("got %d tasks, want none from a leaf page", len(result.Tasks))
	}
}
