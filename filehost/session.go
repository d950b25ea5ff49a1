// Package filehost presents a file on disk as an editor that outlines can
// be attached to.
package filehost

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rjkroege/outline/attach"
	"github.com/rjkroege/outline/document"
	"github.com/rjkroege/outline/lifecycle"
	"github.com/rjkroege/outline/overlay"
	"github.com/rjkroege/outline/ui"
)

var _ attach.Editor = (*Session)(nil)

// Session is one open file. Its document and bounds change only on the UI
// queue.
type Session struct {
	path    string
	q       *ui.Queue
	repaint func(*Session)
	scope   *lifecycle.Scope

	changed lifecycle.Listeners
	resized lifecycle.Listeners

	mu      sync.Mutex
	doc     document.Document
	bounds  image.Rectangle
	painter overlay.BorderPainter
}

// Open reads path and returns a session laid out in bounds. repaint is
// called on the UI queue whenever the session should be redrawn; it may be
// nil.
func Open(path string, bounds image.Rectangle, q *ui.Queue, repaint func(*Session)) (*Session, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("filehost: %w", err)
	}
	b, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("filehost: %w", err)
	}
	return &Session{
		path:    abs,
		q:       q,
		repaint: repaint,
		scope:   lifecycle.NewScope(),
		doc:     document.FromBytes(b),
		bounds:  bounds,
	}, nil
}

// ID is the file's absolute path.
func (s *Session) ID() string { return s.path }

// Path is the file's absolute path.
func (s *Session) Path() string { return s.path }

func (s *Session) Scope() *lifecycle.Scope { return s.scope }

func (s *Session) Document() document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

func (s *Session) Bounds() image.Rectangle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds
}

// SetBounds moves the session and notifies resize listeners if the size
// changed.
func (s *Session) SetBounds(r image.Rectangle) {
	s.mu.Lock()
	old := s.bounds
	s.bounds = r
	s.mu.Unlock()

	if old.Size() != r.Size() {
		s.resized.Fire()
	}
}

func (s *Session) Repaint() {
	if s.repaint != nil {
		s.repaint(s)
	}
}

func (s *Session) OnDocumentChange(fn func()) (cancel func()) { return s.changed.Add(fn) }
func (s *Session) OnResize(fn func()) (cancel func())         { return s.resized.Add(fn) }

func (s *Session) SetBorderPainter(p overlay.BorderPainter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.painter = p
}

// Painter returns the installed border painter, or nil.
func (s *Session) Painter() overlay.BorderPainter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.painter
}

// Reload rereads the file and notifies document listeners. The old
// contents are kept if the file cannot be read.
func (s *Session) Reload() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("filehost: reload: %w", err)
	}
	s.mu.Lock()
	s.doc = document.FromBytes(b)
	s.mu.Unlock()

	s.changed.Fire()
	return nil
}

// Watch reloads the session on the UI queue each time the file is written
// or replaced. It watches the parent directory so that editors saving via
// rename are seen. Watch blocks until ctx is done, the session is closed,
// or the watcher fails.
func (s *Session) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("filehost: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("filehost: watching %s: %w", s.path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.scope.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !s.affects(ev) {
				continue
			}
			s.q.Post(func() {
				if s.scope.Disposed() {
					return
				}
				if err := s.Reload(); err != nil {
					log.Printf("%v", err)
				}
			})
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("filehost: watching %s: %w", s.path, err)
		}
	}
}

func (s *Session) affects(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != s.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create)
}

// Close disposes the session and everything attached to it.
func (s *Session) Close() { s.scope.Dispose() }
