package walker

import "sync"

// taskQueue is an unbounded FIFO shared by the worker pool. It tracks
// outstanding work (queued plus in-process tasks) and wakes all waiters once
// the traversal has fully drained, so workers exit without an external
// coordinator.
type taskQueue struct {
	mu          sync.Mutex
	cond        *sync.Cond
	items       []Task
	outstanding int
	closed      bool
}

func newTaskQueue() *taskQueue {
	q := &taskQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push enqueues a task. Pushes after shutdown are dropped.
func (q *taskQueue) push(t Task) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.items = append(q.items, t)
	q.outstanding++
	q.cond.Signal()
}

// pop blocks until a task is available or the queue is finished. The second
// return value is false when the worker should exit.
func (q *taskQueue) pop() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return Task{}, false
	}

	t := q.items[0]
	q.items = q.items[1:]
	return t, true
}

// done marks one popped task as fully processed, including any pushes it
// performed. When nothing is outstanding the traversal is complete.
func (q *taskQueue) done() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.outstanding--
	if q.outstanding == 0 && !q.closed {
		q.closed = true
		q.cond.Broadcast()
	}
}

// shutdown aborts the traversal: queued tasks are discarded and all waiting
// workers are released.
func (q *taskQueue) shutdown() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.items = nil
	q.cond.Broadcast()
}
