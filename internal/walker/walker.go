// Package walker implements the rule-driven crawl traversal. Pages are
// fetched by a bounded worker pool; each page kind has a handler that turns
// the fetched body into records and follow-up tasks. Parent context (the
// sitting a ballot list belongs to, the voting a ballot page belongs to)
// travels on the task itself, so it is available to the handler of the
// response regardless of fetch completion order.
//
// Two ordering rules hold regardless of fetch concurrency: every discovered
// URL is visited at most once per run, and a handler's records are emitted
// before its follow-up tasks are enqueued. Together with the single-writer
// commit loop downstream, the second rule guarantees a parent record is
// committed before any record extracted from a page it links to.
package walker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/parlwatch/pspcrawl/internal/logger"
	"github.com/parlwatch/pspcrawl/internal/record"
)

// DefaultWorkers is the fetch concurrency used when none is configured.
const DefaultWorkers = 4

// ErrMissingContext is returned by handlers that need parent context the
// task did not carry. It indicates a wiring bug in the crawl rules.
var ErrMissingContext = errors.New("task missing parent context")

// PageKind identifies which handler processes a fetched page.
type PageKind string

// Meta is the parent context carried from the page that discovered a link to
// the handler of the page it points to. Exactly the fields relevant to the
// task's kind are set.
type Meta struct {
	Sitting *record.Sitting
	Voting  *record.Voting
	Seed    *record.MemberSeed
}

// Task is one pending fetch: a URL, the kind of page expected there, and the
// parent context established by the discovering page.
type Task struct {
	Kind PageKind
	URL  string
	Meta Meta
}

// Page is a fetched page handed to a handler, with the task's context.
type Page struct {
	URL  string
	Body []byte
	Meta Meta
}

// Result is what a handler produced from one page: records to commit, in
// emission order, and follow-up fetches to enqueue.
type Result struct {
	Records []record.Record
	Tasks   []Task
}

// Handler processes one fetched page.
type Handler func(ctx context.Context, page *Page) (*Result, error)

// Fetcher retrieves a page body. Retries and backoff are its concern; the
// walker only sees terminal outcomes.
type Fetcher interface {
	GetHTML(ctx context.Context, url string) ([]byte, error)
}

// Stats summarizes one traversal.
type Stats struct {
	PagesVisited  int64
	FetchErrors   int64
	HandlerErrors int64
}

// Config configures a walker.
type Config struct {
	Workers int
}

// Walker runs the traversal.
type Walker struct {
	fetcher  Fetcher
	handlers map[PageKind]Handler
	log      logger.Interface
	workers  int

	mu      sync.Mutex
	visited map[string]struct{}

	pagesVisited  atomic.Int64
	fetchErrors   atomic.Int64
	handlerErrors atomic.Int64
}

// New creates a walker over the given handler table.
func New(fetcher Fetcher, handlers map[PageKind]Handler, log logger.Interface, cfg Config) *Walker {
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	return &Walker{
		fetcher:  fetcher,
		handlers: handlers,
		log:      log,
		workers:  workers,
		visited:  map[string]struct{}{},
	}
}

// Run walks the graph from the seed tasks, sending every emitted record to
// out. It returns when the frontier is exhausted or ctx is cancelled. The
// caller owns out and must keep draining it until Run returns.
func (w *Walker) Run(ctx context.Context, seeds []Task, out chan<- record.Record) (Stats, error) {
	queue := newTaskQueue()

	seeded := 0
	for _, seed := range seeds {
		if w.shouldVisit(seed.URL) {
			queue.push(seed)
			seeded++
		}
	}
	if seeded == 0 {
		queue.shutdown()
	}

	// Unblock workers waiting on the queue when the run is cancelled.
	watchDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			queue.shutdown()
		case <-watchDone:
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.work(ctx, queue, out)
		}()
	}
	wg.Wait()
	close(watchDone)

	stats := Stats{
		PagesVisited:  w.pagesVisited.Load(),
		FetchErrors:   w.fetchErrors.Load(),
		HandlerErrors: w.handlerErrors.Load(),
	}

	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("traversal interrupted: %w", err)
	}
	return stats, nil
}

// work processes tasks until the queue drains or shuts down.
func (w *Walker) work(ctx context.Context, queue *taskQueue, out chan<- record.Record) {
	for {
		task, ok := queue.pop()
		if !ok {
			return
		}
		w.process(ctx, task, queue, out)
		queue.done()
	}
}

// process fetches one page, runs its handler, emits records and enqueues
// follow-up tasks. Errors affect only this page.
func (w *Walker) process(ctx context.Context, task Task, queue *taskQueue, out chan<- record.Record) {
	handler, ok := w.handlers[task.Kind]
	if !ok {
		w.handlerErrors.Add(1)
		w.log.Error("No handler for page kind", "kind", string(task.Kind), "url", task.URL)
		return
	}

	body, err := w.fetcher.GetHTML(ctx, task.URL)
	if err != nil {
		w.fetchErrors.Add(1)
		w.log.Warn("Fetch failed, page yields no records", "url", task.URL, "error", err)
		return
	}
	w.pagesVisited.Add(1)

	result, err := handler(ctx, &Page{URL: task.URL, Body: body, Meta: task.Meta})
	if err != nil {
		w.handlerErrors.Add(1)
		w.log.Error("Handler failed", "kind", string(task.Kind), "url", task.URL, "error", err)
		return
	}

	// Records first, then tasks: the single-writer pipeline sees a parent
	// before anything a follow-up page can produce.
	for _, rec := range result.Records {
		select {
		case out <- rec:
		case <-ctx.Done():
			return
		}
	}

	for _, next := range result.Tasks {
		if w.shouldVisit(next.URL) {
			queue.push(next)
		}
	}
}

// shouldVisit marks the URL visited and reports whether this call was the
// first to do so.
func (w *Walker) shouldVisit(url string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, seen := w.visited[url]; seen {
		return false
	}
	w.visited[url] = struct{}{}
	return true
}
