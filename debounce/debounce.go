// Package debounce coalesces bursts of requests into a single call that
// runs once the requests stop for a fixed delay.
package debounce

import (
	"sync"
	"time"
)

// Timer is a single-slot debounce timer. Each Schedule restarts the delay;
// fn runs once after the last Schedule of a burst. fn runs on the timer's
// own goroutine and never concurrently with itself.
type Timer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func()
	timer   *time.Timer
	pending bool
	stopped bool
	seq     uint64 // detects stale timer callbacks
}

// New returns a Timer that calls fn delay after the last Schedule.
func New(delay time.Duration, fn func()) *Timer {
	return &Timer{delay: delay, fn: fn}
}

// Schedule arms the timer, replacing any pending firing. It is a no-op
// after Stop.
func (t *Timer) Schedule() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}
	t.pending = true
	t.seq++
	seq := t.seq

	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		if !t.pending || t.seq != seq || t.stopped {
			t.mu.Unlock()
			return
		}
		t.pending = false
		t.timer = nil
		t.mu.Unlock()
		t.fn()
	})
}

// Cancel drops any pending firing. The timer may be scheduled again.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

func (t *Timer) cancelLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.seq++
	t.pending = false
}

// Stop cancels any pending firing and refuses further Schedule calls.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
	t.stopped = true
}

// Pending reports whether a firing is scheduled.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}
