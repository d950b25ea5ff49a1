// Package acmehost follows the acme log and outlines every acme window,
// writing each window's strip to a PNG file.
package acmehost

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"strconv"
	"sync"

	"9fans.net/go/acme"
	"github.com/rjkroege/outline/attach"
	"github.com/rjkroege/outline/config"
	"github.com/rjkroege/outline/document"
	"github.com/rjkroege/outline/export"
	"github.com/rjkroege/outline/lifecycle"
	"github.com/rjkroege/outline/overlay"
	"github.com/rjkroege/outline/ui"
)

// ErrLog wraps failures reading the acme log.
var ErrLog = errors.New("acme log")

// logReader is the part of *acme.LogReader the host uses.
type logReader interface {
	Read() (acme.LogEvent, error)
	Close() error
}

// Host turns acme log events into attach events.
type Host struct {
	cfg    config.Config
	q      *ui.Queue
	bounds image.Rectangle
	dir    string

	log      logReader
	readBody func(id int) ([]byte, error)
	windows  func() ([]acme.WinInfo, error)

	mu   sync.Mutex
	wins map[int]*Window
	err  error

	events chan attach.Event
}

var _ attach.Source = (*Host)(nil)

// New connects to the acme log. Strips are rendered as if every window
// occupied bounds and are written to dir.
func New(cfg config.Config, q *ui.Queue, bounds image.Rectangle, dir string) (*Host, error) {
	lr, err := acme.Log()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLog, err)
	}
	return newHost(cfg, q, bounds, dir, lr, readBody, acme.Windows), nil
}

func newHost(cfg config.Config, q *ui.Queue, bounds image.Rectangle, dir string,
	lr logReader, body func(int) ([]byte, error), windows func() ([]acme.WinInfo, error)) *Host {
	return &Host{
		cfg:      cfg,
		q:        q,
		bounds:   bounds,
		dir:      dir,
		log:      lr,
		readBody: body,
		windows:  windows,
		wins:     make(map[int]*Window),
		events:   make(chan attach.Event, 16),
	}
}

func readBody(id int) ([]byte, error) {
	win, err := acme.Open(id, nil)
	if err != nil {
		return nil, err
	}
	defer win.CloseFiles()
	return win.ReadAll("body")
}

// Events delivers Opened and Closed events. It is closed when Run returns.
func (h *Host) Events() <-chan attach.Event { return h.events }

// Err returns the error that stopped Run, once Events is closed.
func (h *Host) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Run reports the windows already open, then follows the log until ctx is
// done or the log fails.
func (h *Host) Run(ctx context.Context) error {
	err := h.run(ctx)
	h.mu.Lock()
	h.err = err
	h.mu.Unlock()
	close(h.events)
	return err
}

func (h *Host) run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { h.log.Close() })
	defer stop()

	if h.windows != nil {
		infos, err := h.windows()
		if err != nil {
			log.Printf("acmehost: listing windows: %v", err)
		}
		for _, wi := range infos {
			if err := h.open(ctx, wi.ID, wi.Name); err != nil {
				return err
			}
		}
	}

	for {
		ev, err := h.log.Read()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %v", ErrLog, err)
		}
		if err := h.handle(ctx, ev); err != nil {
			return err
		}
	}
}

func (h *Host) handle(ctx context.Context, ev acme.LogEvent) error {
	switch ev.Op {
	case "new", "zerox":
		return h.open(ctx, ev.ID, ev.Name)
	case "get", "put":
		h.refresh(ev.ID)
	case "del":
		return h.remove(ctx, ev.ID)
	}
	return nil
}

func (h *Host) send(ctx context.Context, ev attach.Event) error {
	select {
	case h.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Host) open(ctx context.Context, id int, name string) error {
	h.mu.Lock()
	_, known := h.wins[id]
	h.mu.Unlock()
	if known {
		return nil
	}

	body, err := h.readBody(id)
	if err != nil {
		log.Printf("acmehost: window %d: %v", id, err)
		return nil
	}
	w := &Window{
		id:    id,
		name:  name,
		h:     h,
		scope: lifecycle.NewScope(),
		doc:   document.FromBytes(body),
	}
	w.scope.Register(func() { os.Remove(w.file()) })

	h.mu.Lock()
	h.wins[id] = w
	h.mu.Unlock()
	return h.send(ctx, attach.Event{Kind: attach.Opened, Editor: w})
}

// refresh rereads a window body off the UI queue and installs it on it.
func (h *Host) refresh(id int) {
	h.mu.Lock()
	w, ok := h.wins[id]
	h.mu.Unlock()
	if !ok {
		return
	}
	body, err := h.readBody(id)
	if err != nil {
		log.Printf("acmehost: window %d: %v", id, err)
		return
	}
	doc := document.FromBytes(body)
	h.q.Post(func() { w.setDocument(doc) })
}

func (h *Host) remove(ctx context.Context, id int) error {
	h.mu.Lock()
	w, ok := h.wins[id]
	delete(h.wins, id)
	h.mu.Unlock()
	if !ok {
		return nil
	}
	if err := h.send(ctx, attach.Event{Kind: attach.Closed, Editor: w}); err != nil {
		return err
	}
	h.q.Post(w.scope.Dispose)
	return nil
}

// Window returns the open window with the given acme ID.
func (h *Host) Window(id int) (*Window, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	w, ok := h.wins[id]
	return w, ok
}

// Close stops following the log.
func (h *Host) Close() error { return h.log.Close() }

// Window is an acme window seen through the log.
type Window struct {
	id    int
	name  string
	h     *Host
	scope *lifecycle.Scope

	changed lifecycle.Listeners
	resized lifecycle.Listeners

	mu      sync.Mutex
	doc     document.Document
	painter overlay.BorderPainter
}

var _ attach.Editor = (*Window)(nil)

func (w *Window) ID() string              { return strconv.Itoa(w.id) }
func (w *Window) Name() string            { return w.name }
func (w *Window) Scope() *lifecycle.Scope { return w.scope }
func (w *Window) Bounds() image.Rectangle { return w.h.bounds }

func (w *Window) Document() document.Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.doc
}

func (w *Window) setDocument(doc document.Document) {
	if w.scope.Disposed() {
		return
	}
	w.mu.Lock()
	w.doc = doc
	w.mu.Unlock()
	w.changed.Fire()
}

func (w *Window) OnDocumentChange(fn func()) (cancel func()) { return w.changed.Add(fn) }

// OnResize subscribes fn to size changes. Acme window geometry is not in
// the log, so the listeners never fire.
func (w *Window) OnResize(fn func()) (cancel func()) { return w.resized.Add(fn) }

// SetBorderPainter installs p and schedules a repaint so that the window's
// first PNG is written as soon as it is attached.
func (w *Window) SetBorderPainter(p overlay.BorderPainter) {
	w.mu.Lock()
	w.painter = p
	w.mu.Unlock()
	w.h.q.Post(w.Repaint)
}

func (w *Window) file() string { return export.FileName(w.h.dir, w.ID()) }

// Repaint writes the window's strip to <dir>/<id>.png. A deleted window
// writes nothing.
func (w *Window) Repaint() {
	if w.scope.Disposed() {
		return
	}
	w.mu.Lock()
	p := w.painter
	w.mu.Unlock()
	if p == nil {
		return
	}
	img, err := export.Strip(p, w.h.bounds, w.h.cfg.StripWidth)
	if err != nil {
		log.Printf("acmehost: window %d: %v", w.id, err)
		return
	}
	if err := export.WritePNG(w.file(), img); err != nil {
		log.Printf("acmehost: window %d: %v", w.id, err)
	}
}
