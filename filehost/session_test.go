package filehost

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rjkroege/outline/document"
	"github.com/rjkroege/outline/ui"
)

func lines(d document.Document) []string {
	var out []string
	for i := 0; i < d.LineCount(); i++ {
		out = append(out, d.Line(i))
	}
	return out
}

func writeFile(t *testing.T, path, text string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
}

func openTemp(t *testing.T, text string) (*Session, *ui.Queue, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a.go")
	writeFile(t, path, text)
	q := ui.NewQueue()
	s, err := Open(path, image.Rect(0, 0, 800, 600), q, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(s.Close)
	return s, q, path
}

func TestOpen(t *testing.T) {
	s, _, path := openTemp(t, "package a\n\nfunc A() {}\n")

	if s.ID() != path {
		t.Errorf("ID() = %q, want %q", s.ID(), path)
	}
	if diff := cmp.Diff([]string{"package a", "", "func A() {}"}, lines(s.Document())); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
	if _, err := Open(filepath.Join(t.TempDir(), "missing"), image.Rectangle{}, ui.NewQueue(), nil); err == nil {
		t.Error("Open of missing file succeeded")
	}
}

func TestReload(t *testing.T) {
	s, _, path := openTemp(t, "one\n")
	fired := 0
	s.OnDocumentChange(func() { fired++ })

	writeFile(t, path, "one\ntwo\n")
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if fired != 1 {
		t.Errorf("change listeners fired %d times, want 1", fired)
	}
	if n := s.Document().LineCount(); n != 2 {
		t.Errorf("LineCount() = %d, want 2", n)
	}

	os.Remove(path)
	if err := s.Reload(); err == nil {
		t.Error("Reload of removed file succeeded")
	}
	if n := s.Document().LineCount(); n != 2 {
		t.Errorf("failed reload replaced document: LineCount() = %d", n)
	}
}

func TestSetBounds(t *testing.T) {
	s, _, _ := openTemp(t, "x\n")
	fired := 0
	s.OnResize(func() { fired++ })

	s.SetBounds(image.Rect(10, 10, 810, 610))
	if fired != 0 {
		t.Errorf("move without resize fired %d listeners", fired)
	}
	s.SetBounds(image.Rect(0, 0, 400, 300))
	if fired != 1 {
		t.Errorf("resize fired %d listeners, want 1", fired)
	}
	if got := s.Bounds(); got != image.Rect(0, 0, 400, 300) {
		t.Errorf("Bounds() = %v", got)
	}
}

func TestRepaint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a")
	writeFile(t, path, "")
	var got *Session
	s, err := Open(path, image.Rect(0, 0, 1, 1), ui.NewQueue(), func(s *Session) { got = s })
	if err != nil {
		t.Fatal(err)
	}
	s.Repaint()
	if got != s {
		t.Error("repaint callback not called with session")
	}
}

func TestWatch(t *testing.T) {
	s, q, path := openTemp(t, "one\n")
	changed := make(chan struct{}, 10)
	s.OnDocumentChange(func() { changed <- struct{}{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- s.Watch(ctx) }()
	go q.Run(ctx)

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(filepath.Dir(path), "other"), "ignored\n")
	writeFile(t, path, "one\ntwo\nthree\n")

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("file change not seen")
	}

	s.Close()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Watch() = %v after Close, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after Close")
	}
}
