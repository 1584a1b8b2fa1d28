package crawl

import (
	"context"
	"fmt"

	"github.com/parlwatch/pspcrawl/internal/reconcile"
	"github.com/parlwatch/pspcrawl/internal/record"
	"github.com/parlwatch/pspcrawl/internal/walker"
)

// recordBuffer decouples the fetch workers from the commit loop without
// letting the walker run unboundedly ahead of storage.
const recordBuffer = 256

// Run drives one crawl end to end: the walker traverses from the seeds on
// its worker pool, and every emitted record is committed by the pipeline on
// this goroutine. A storage failure cancels the traversal; the channel is
// drained so the walker's workers can finish.
func Run(ctx context.Context, w *walker.Walker, seeds []walker.Task, pipeline *reconcile.Pipeline, summary *reconcile.Summary) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := make(chan record.Record, recordBuffer)

	type walkOutcome struct {
		stats walker.Stats
		err   error
	}
	walkDone := make(chan walkOutcome, 1)
	go func() {
		stats, err := w.Run(ctx, seeds, out)
		close(out)
		walkDone <- walkOutcome{stats: stats, err: err}
	}()

	var commitErr error
	for rec := range out {
		if commitErr != nil {
			continue
		}
		if err := pipeline.Commit(ctx, rec); err != nil {
			commitErr = err
			cancel()
		}
	}

	outcome := <-walkDone
	summary.AddFetchErrors(outcome.stats.FetchErrors)

	if commitErr != nil {
		return fmt.Errorf("commit aborted the run: %w", commitErr)
	}
	if outcome.err != nil {
		return outcome.err
	}
	return nil
}
