// Package lifecycle ties cleanup work to the lifetime of an owner such as
// an editor window.
package lifecycle

import (
	"slices"
	"sync"
)

// Scope collects cleanup functions and runs them once, most recent first,
// when disposed.
type Scope struct {
	mu       sync.Mutex
	cleanups []func()
	disposed bool
	done     chan struct{}
}

// NewScope returns a live Scope.
func NewScope() *Scope {
	return &Scope{done: make(chan struct{})}
}

// Register adds fn to run at disposal. If the scope is already disposed, fn
// runs immediately.
func (s *Scope) Register(fn func()) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		fn()
		return
	}
	s.cleanups = append(s.cleanups, fn)
	s.mu.Unlock()
}

// Dispose runs the registered cleanups in reverse order of registration.
// Later calls do nothing.
func (s *Scope) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	cleanups := s.cleanups
	s.cleanups = nil
	s.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	close(s.done)
}

// Disposed reports whether Dispose has been called.
func (s *Scope) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// Done is closed once disposal has finished.
func (s *Scope) Done() <-chan struct{} { return s.done }

// Listeners is a set of callbacks fired together.
type Listeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]func()
}

// Add subscribes fn and returns a function that unsubscribes it.
func (l *Listeners) Add(fn func()) (cancel func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func())
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.fns, id)
	}
}

// Fire calls every subscribed function in subscription order.
func (l *Listeners) Fire() {
	l.mu.Lock()
	ids := make([]int, 0, len(l.fns))
	for id := range l.fns {
		ids = append(ids, id)
	}
	fns := make([]func(), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, l.fns[id])
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Len returns the number of subscribers.
func (l *Listeners) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}
