package reconcile

import (
	"strconv"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/parlwatch/pspcrawl/internal/record"
)

// summaryKinds fixes the row order of the rendered table.
var summaryKinds = []record.Kind{
	record.KindSitting,
	record.KindVoting,
	record.KindMemberVote,
	record.KindMember,
}

// Summary accumulates per-kind outcome counts across one run. It is safe for
// concurrent use: handlers report extraction errors from worker goroutines
// while the pipeline counts commits on the writer goroutine.
type Summary struct {
	mu sync.Mutex

	started          time.Time
	committed        map[record.Kind]int
	duplicates       map[record.Kind]int
	integrityErrors  map[record.Kind]int
	extractionErrors int
	fetchErrors      int
	resumeSkipped    int
}

// NewSummary creates an empty summary.
func NewSummary() *Summary {
	return &Summary{
		started:         time.Now(),
		committed:       map[record.Kind]int{},
		duplicates:      map[record.Kind]int{},
		integrityErrors: map[record.Kind]int{},
	}
}

// Committed counts a record committed to storage (insert or refresh).
func (s *Summary) Committed(k record.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed[k]++
}

// Duplicate counts a record skipped as already seen or already stored.
func (s *Summary) Duplicate(k record.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.duplicates[k]++
}

// IntegrityError counts a record dropped because its parent row was missing.
func (s *Summary) IntegrityError(k record.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.integrityErrors[k]++
}

// ExtractionError counts a malformed row dropped during extraction.
func (s *Summary) ExtractionError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extractionErrors++
}

// AddFetchErrors records the number of pages that failed to fetch.
func (s *Summary) AddFetchErrors(n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchErrors += int(n)
}

// ResumeSkipped counts a sitting skipped as older than the resume point.
func (s *Summary) ResumeSkipped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resumeSkipped++
}

// Render formats the summary as a table for the end-of-run report.
func (s *Summary) Render() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := table.NewWriter()
	t.SetTitle("Crawl summary (" + time.Since(s.started).Round(time.Second).String() + ")")
	t.AppendHeader(table.Row{"Kind", "Committed", "Duplicates", "Integrity errors"})

	for _, k := range summaryKinds {
		t.AppendRow(table.Row{
			k.String(),
			s.committed[k],
			s.duplicates[k],
			s.integrityErrors[k],
		})
	}

	t.AppendFooter(table.Row{"extraction errors", s.extractionErrors, "", ""})
	t.AppendFooter(table.Row{"fetch errors", s.fetchErrors, "", ""})
	t.AppendFooter(table.Row{"sittings skipped (resume)", s.resumeSkipped, "", ""})

	return t.Render()
}

// Counts returns the committed count per kind. Used by tests and log lines.
func (s *Summary) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int, len(s.committed))
	for k, n := range s.committed {
		out[k.String()] = n
	}
	return out
}

// String renders a compact one-line form for logs.
func (s *Summary) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, n := range s.committed {
		total += n
	}
	return "committed=" + strconv.Itoa(total) +
		" extraction_errors=" + strconv.Itoa(s.extractionErrors) +
		" fetch_errors=" + strconv.Itoa(s.fetchErrors)
}
