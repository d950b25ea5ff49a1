// Package attach keeps exactly one outline controller per open editor.
package attach

import (
	"context"
	"sync"

	"github.com/rjkroege/outline/config"
	"github.com/rjkroege/outline/lifecycle"
	"github.com/rjkroege/outline/overlay"
	"github.com/rjkroege/outline/render"
	"github.com/rjkroege/outline/ui"
)

// Editor is an editor the manager can decorate.
type Editor interface {
	overlay.Editor

	// ID identifies the editor among those open at once.
	ID() string

	// Scope is disposed when the editor goes away.
	Scope() *lifecycle.Scope

	SetBorderPainter(p overlay.BorderPainter)
}

// Kind is the kind of an Event.
type Kind int

const (
	Opened Kind = iota
	Closed
)

func (k Kind) String() string {
	switch k {
	case Opened:
		return "Opened"
	case Closed:
		return "Closed"
	}
	return "Kind(?)"
}

// Event is a host notification about an editor.
type Event struct {
	Kind   Kind
	Editor Editor
}

// Source delivers host notifications. Events is closed when the host stops;
// Err then reports why, or nil for a clean stop.
type Source interface {
	Events() <-chan Event
	Err() error
}

// Manager is a registry of controllers keyed by editor ID. Its methods
// other than Watch and Len run on the UI queue.
type Manager struct {
	cfg      config.Config
	renderer *render.Renderer
	q        *ui.Queue

	mu          sync.Mutex
	controllers map[string]*overlay.Controller
}

// New returns an empty Manager.
func New(cfg config.Config, r *render.Renderer, q *ui.Queue) *Manager {
	return &Manager{
		cfg:         cfg,
		renderer:    r,
		q:           q,
		controllers: make(map[string]*overlay.Controller),
	}
}

// Attach decorates ed with an outline. Attaching an editor twice returns
// the existing controller and false.
func (m *Manager) Attach(ed Editor) (*overlay.Controller, bool) {
	id := ed.ID()
	m.mu.Lock()
	if c, ok := m.controllers[id]; ok {
		m.mu.Unlock()
		return c, false
	}
	m.mu.Unlock()

	scope := ed.Scope()
	c := overlay.New(m.cfg, m.renderer, ed, m.q, scope)

	m.mu.Lock()
	m.controllers[id] = c
	m.mu.Unlock()

	scope.Register(func() { m.forget(id, c) })
	ed.SetBorderPainter(c)
	return c, true
}

func (m *Manager) forget(id string, c *overlay.Controller) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.controllers[id] == c {
		delete(m.controllers, id)
	}
}

// Detach disposes the outline of editor id. It reports whether there was
// one.
func (m *Manager) Detach(id string) bool {
	m.mu.Lock()
	c, ok := m.controllers[id]
	delete(m.controllers, id)
	m.mu.Unlock()

	if !ok {
		return false
	}
	c.Dispose()
	return true
}

// Controller returns the controller attached to editor id, if any.
func (m *Manager) Controller(id string) (*overlay.Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.controllers[id]
	return c, ok
}

// Len returns the number of attached editors.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.controllers)
}

// Watch attaches and detaches editors as src reports them, handling each
// event on the UI queue. It returns when ctx is done or src stops, with
// ctx's error or src's.
func (m *Manager) Watch(ctx context.Context, src Source) error {
	events := src.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return src.Err()
			}
			m.q.Post(func() { m.handle(ev) })
		}
	}
}

func (m *Manager) handle(ev Event) {
	switch ev.Kind {
	case Opened:
		m.Attach(ev.Editor)
	case Closed:
		m.Detach(ev.Editor.ID())
	}
}

// Close detaches every editor.
func (m *Manager) Close() {
	m.mu.Lock()
	cs := m.controllers
	m.controllers = make(map[string]*overlay.Controller)
	m.mu.Unlock()

	for _, c := range cs {
		c.Dispose()
	}
}
