// Package worker runs jobs that must not block the frame, such as writing settings to disk, on a
// background goroutine in the order they were submitted.
package worker

import (
	"sync"

	"github.com/getsentry/sentry-go"
)

// Queue runs submitted jobs one at a time on its own goroutine.
type Queue struct {
	jobs chan func()
	wg   sync.WaitGroup

	closeOnce sync.Once
}

// New starts a queue that buffers up to size pending jobs.
func New(size int) *Queue {
	q := &Queue{jobs: make(chan func(), max(size, 1))}
	q.wg.Add(1)
	go q.run()
	return q
}

func (q *Queue) run() {
	defer q.wg.Done()
	for f := range q.jobs {
		q.do(f)
	}
}

// do runs f, reporting a panic without stopping the queue.
func (q *Queue) do(f func()) {
	defer sentry.Recover()
	f()
}

// Submit queues f. It returns false without running f if the queue is full.
func (q *Queue) Submit(f func()) bool {
	select {
	case q.jobs <- f:
		return true
	default:
		return false
	}
}

// Close stops accepting jobs and waits for the pending ones to finish. Submit must not be called after
// Close.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.jobs)
	})
	q.wg.Wait()
}
