package library

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"moviehub/pkg/model"
)

type writeJob struct {
	seq     uint64
	userID  uuid.UUID
	list    model.LibraryList
	movieID int64
	member  bool
}

// writeQueue runs jobs one at a time, in enqueue order, on a single goroutine.
type writeQueue struct {
	mu          sync.Mutex
	jobs        []writeJob
	seq         uint64
	outstanding int
	idle        chan struct{}
	closed      bool

	wake chan struct{}
	done chan struct{}
	run  func(writeJob)
}

func newWriteQueue(run func(writeJob)) *writeQueue {
	idle := make(chan struct{})
	close(idle)
	q := &writeQueue{
		idle: idle,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		run:  run,
	}
	go q.loop()
	return q
}

// enqueue appends job and returns its sequence number and the number of jobs
// not yet completed. It fails with ErrClosed once close has been called.
func (q *writeQueue) enqueue(job writeJob) (uint64, int, error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return 0, 0, ErrClosed
	}
	q.seq++
	job.seq = q.seq
	q.jobs = append(q.jobs, job)
	if q.outstanding == 0 {
		q.idle = make(chan struct{})
	}
	q.outstanding++
	outstanding := q.outstanding
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return job.seq, outstanding, nil
}

func (q *writeQueue) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.outstanding
}

func (q *writeQueue) wait(ctx context.Context) error {
	q.mu.Lock()
	idle := q.idle
	q.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *writeQueue) loop() {
	defer close(q.done)
	for {
		q.mu.Lock()
		if len(q.jobs) == 0 {
			closed := q.closed
			q.mu.Unlock()
			if closed {
				return
			}
			<-q.wake
			continue
		}
		job := q.jobs[0]
		q.jobs = q.jobs[1:]
		q.mu.Unlock()

		q.run(job)

		q.mu.Lock()
		q.outstanding--
		if q.outstanding == 0 {
			close(q.idle)
		}
		q.mu.Unlock()
	}
}

// close rejects new jobs and returns once queued ones have run.
func (q *writeQueue) close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	<-q.done
}
