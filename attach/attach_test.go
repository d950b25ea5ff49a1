package attach

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/rjkroege/outline/config"
	"github.com/rjkroege/outline/document"
	"github.com/rjkroege/outline/lifecycle"
	"github.com/rjkroege/outline/overlay"
	"github.com/rjkroege/outline/render"
	"github.com/rjkroege/outline/ui"
)

type blankPrinter struct{}

type blankFragment struct{}

func (blankPrinter) PrintRange(doc document.Document, start, end int) render.Fragment {
	return blankFragment{}
}
func (blankPrinter) CharWidth(r rune) int { return 8 }

func (blankFragment) Size() image.Point     { return image.Pt(100, 100) }
func (blankFragment) Print(dst *image.RGBA) {}

type fakeEditor struct {
	id      string
	scope   *lifecycle.Scope
	painter overlay.BorderPainter
	changed lifecycle.Listeners
	resized lifecycle.Listeners
}

func newEditor(id string) *fakeEditor {
	return &fakeEditor{id: id, scope: lifecycle.NewScope()}
}

func (e *fakeEditor) ID() string                                 { return e.id }
func (e *fakeEditor) Scope() *lifecycle.Scope                    { return e.scope }
func (e *fakeEditor) SetBorderPainter(p overlay.BorderPainter)   { e.painter = p }
func (e *fakeEditor) Document() document.Document                { return document.Empty }
func (e *fakeEditor) Bounds() image.Rectangle                    { return image.Rect(0, 0, 400, 300) }
func (e *fakeEditor) Repaint()                                   {}
func (e *fakeEditor) OnDocumentChange(fn func()) (cancel func()) { return e.changed.Add(fn) }
func (e *fakeEditor) OnResize(fn func()) (cancel func())         { return e.resized.Add(fn) }

func newManager() (*Manager, *ui.Queue) {
	cfg := config.Default()
	q := ui.NewQueue()
	return New(cfg, render.New(cfg, blankPrinter{}), q), q
}

func TestAttachIsIdempotent(t *testing.T) {
	m, _ := newManager()
	ed := newEditor("1")

	c1, created := m.Attach(ed)
	if !created {
		t.Fatal("first Attach reported existing controller")
	}
	c2, created := m.Attach(ed)
	if created || c1 != c2 {
		t.Errorf("second Attach = (%p, %v), want (%p, false)", c2, created, c1)
	}
	if ed.painter != overlay.BorderPainter(c1) {
		t.Error("controller not installed as border painter")
	}
	if n := m.Len(); n != 1 {
		t.Errorf("Len() = %d, want 1", n)
	}
	if n := ed.changed.Len(); n != 1 {
		t.Errorf("%d change listeners, want 1", n)
	}
}

func TestScopeDisposalForgets(t *testing.T) {
	m, _ := newManager()
	ed := newEditor("1")
	c, _ := m.Attach(ed)

	ed.scope.Dispose()

	if _, ok := m.Controller("1"); ok {
		t.Error("controller still registered after scope disposal")
	}
	if !c.Disposed() {
		t.Error("controller not disposed with its scope")
	}

	// A new editor reusing the ID gets a fresh controller.
	ed2 := newEditor("1")
	c2, created := m.Attach(ed2)
	if !created || c2 == c {
		t.Error("reattach after disposal reused the old controller")
	}
}

func TestDetach(t *testing.T) {
	m, _ := newManager()
	ed := newEditor("1")
	c, _ := m.Attach(ed)

	if !m.Detach("1") {
		t.Error("Detach(1) = false, want true")
	}
	if m.Detach("1") {
		t.Error("second Detach(1) = true, want false")
	}
	if !c.Disposed() {
		t.Error("Detach did not dispose controller")
	}
	if n := ed.changed.Len() + ed.resized.Len(); n != 0 {
		t.Errorf("%d listeners left after Detach", n)
	}
}

type chanSource struct {
	ch  chan Event
	err error
}

func (s *chanSource) Events() <-chan Event { return s.ch }
func (s *chanSource) Err() error           { return s.err }

func TestWatch(t *testing.T) {
	m, q := newManager()
	errHost := errors.New("host went away")
	src := &chanSource{ch: make(chan Event, 3), err: errHost}

	a, b := newEditor("a"), newEditor("b")
	src.ch <- Event{Kind: Opened, Editor: a}
	src.ch <- Event{Kind: Opened, Editor: b}
	src.ch <- Event{Kind: Closed, Editor: a}
	close(src.ch)

	if err := m.Watch(context.Background(), src); !errors.Is(err, errHost) {
		t.Errorf("Watch() = %v, want %v", err, errHost)
	}
	if n := m.Len(); n != 0 {
		t.Errorf("handled events before queue ran: Len() = %d", n)
	}
	q.Drain()

	if _, ok := m.Controller("a"); ok {
		t.Error("closed editor still attached")
	}
	if _, ok := m.Controller("b"); !ok {
		t.Error("open editor not attached")
	}
}

func TestWatchCancelled(t *testing.T) {
	m, _ := newManager()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Watch(ctx, &chanSource{ch: make(chan Event)}); !errors.Is(err, context.Canceled) {
		t.Errorf("Watch() = %v, want context.Canceled", err)
	}
}

func TestClose(t *testing.T) {
	m, _ := newManager()
	c, _ := m.Attach(newEditor("1"))
	m.Close()
	if !c.Disposed() || m.Len() != 0 {
		t.Error("Close left controllers attached")
	}
}
