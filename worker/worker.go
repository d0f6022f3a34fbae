package worker

import (
	"sync"

	"github.com/getsentry/sentry-go"
)

// Queue runs submitted jobs one at a time, in the order they were submitted, on its own
// goroutine. It is meant for work such as I/O that should not stall the simulation tick.
type Queue struct {
	jobs chan func()
	wg   sync.WaitGroup
	once sync.Once
}

// NewQueue starts a queue that buffers up to size pending jobs.
func NewQueue(size int) *Queue {
	q := &Queue{jobs: make(chan func(), size)}
	q.wg.Add(1)
	go q.work()
	return q
}

func (q *Queue) work() {
	defer q.wg.Done()
	for f := range q.jobs {
		run(f)
	}
}

// run executes a single job, reporting a panic to sentry without stopping the queue.
func run(f func()) {
	defer sentry.Recover()
	f()
}

// Submit schedules f. It blocks while the queue is full and must not be called after Close.
func (q *Queue) Submit(f func()) {
	q.jobs <- f
}

// Close waits for every submitted job to finish and stops the queue.
func (q *Queue) Close() {
	q.once.Do(func() {
		close(q.jobs)
	})
	q.wg.Wait()
}
