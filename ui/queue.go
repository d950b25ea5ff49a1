// Package ui serialises work onto a single goroutine, the one that owns the
// display. Other goroutines hand work over with Post and never touch UI
// state directly.
package ui

import (
	"context"
	"sync"
)

// Queue is an unbounded FIFO of tasks run by one goroutine.
type Queue struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool
	wake   chan struct{}
}

// NewQueue returns an empty, open Queue.
func NewQueue() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Post appends fn to the queue. It is safe to call from any goroutine and
// never blocks. Post reports false once the queue is closed.
func (q *Queue) Post(fn func()) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// Wake is signalled after Post. Hosts with their own event loop select on
// it and call Drain.
func (q *Queue) Wake() <-chan struct{} { return q.wake }

// Drain runs queued tasks, including any they post, until the queue is
// empty, and returns how many ran. Drain must only be called from the UI
// goroutine.
func (q *Queue) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		tasks := q.tasks
		q.tasks = nil
		q.mu.Unlock()

		if len(tasks) == 0 {
			return n
		}
		for _, fn := range tasks {
			fn()
			n++
		}
	}
}

// Len returns the number of tasks waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Run makes the calling goroutine the UI goroutine: it drains the queue
// whenever work arrives until ctx is done.
func (q *Queue) Run(ctx context.Context) error {
	q.Drain()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.wake:
			q.Drain()
		}
	}
}

// Close rejects further posts. Tasks already queued stay queued.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
}
