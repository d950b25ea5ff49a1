// Package overlay keeps an outline bitmap in step with one editor and
// paints it along the editor's right border.
package overlay

import (
	"image"
	"log"
	"sync"

	"github.com/rjkroege/outline/config"
	"github.com/rjkroege/outline/debounce"
	"github.com/rjkroege/outline/document"
	"github.com/rjkroege/outline/draw"
	"github.com/rjkroege/outline/lifecycle"
	"github.com/rjkroege/outline/render"
	"github.com/rjkroege/outline/ui"
)

// scrollGutter is how far the strip overlaps the editor's scrollbar gutter.
const scrollGutter = 15

// Editor is the host component an outline is attached to.
type Editor interface {
	Document() document.Document

	// Bounds is the editor's on-screen rectangle.
	Bounds() image.Rectangle

	// Repaint asks the host to redraw the editor. It is only called from
	// the UI queue.
	Repaint()

	OnDocumentChange(fn func()) (cancel func())
	OnResize(fn func()) (cancel func())
}

// BorderPainter paints decoration over an editor's border.
type BorderPainter interface {
	PaintBorder(dst draw.Image, clip image.Rectangle)
}

// State describes the controller's cached bitmap.
type State int

const (
	Empty  State = iota // nothing cached; the next paint renders
	Cached              // a bitmap is ready
	Failed              // the last render failed; paints draw nothing
)

func (s State) String() string {
	switch s {
	case Empty:
		return "Empty"
	case Cached:
		return "Cached"
	case Failed:
		return "Failed"
	}
	return "State(?)"
}

var _ BorderPainter = (*Controller)(nil)

// Controller owns the outline for one editor. PaintBorder, Invalidate and
// the tasks it posts run on the UI queue; only the disposed flag is shared
// with other goroutines.
type Controller struct {
	cfg      config.Config
	renderer *render.Renderer
	ed       Editor
	q        *ui.Queue
	timer    *debounce.Timer

	state  State
	bitmap *render.Bitmap
	img    draw.Image // bitmap loaded on the display last painted to

	mu       sync.Mutex
	disposed bool
	cancels  []func()
}

// New attaches a controller to ed. Edits and resizes of ed schedule a
// debounced refresh; everything is released when scope is disposed.
func New(cfg config.Config, r *render.Renderer, ed Editor, q *ui.Queue, scope *lifecycle.Scope) *Controller {
	c := &Controller{
		cfg:      cfg,
		renderer: r,
		ed:       ed,
		q:        q,
	}
	c.timer = debounce.New(cfg.Debounce(), c.fire)
	c.cancels = append(c.cancels,
		ed.OnDocumentChange(c.timer.Schedule),
		ed.OnResize(c.timer.Schedule),
	)
	scope.Register(c.Dispose)
	return c
}

// fire runs on the timer goroutine.
func (c *Controller) fire() {
	c.q.Post(func() {
		if c.Disposed() {
			return
		}
		c.Invalidate()
	})
}

// Invalidate drops the cached bitmap and asks the editor to repaint.
func (c *Controller) Invalidate() {
	if c.Disposed() {
		return
	}
	c.clear()
	c.ed.Repaint()
}

func (c *Controller) clear() {
	if c.img != nil {
		c.img.Free()
		c.img = nil
	}
	c.bitmap = nil
	c.state = Empty
}

// State reports whether a bitmap is cached.
func (c *Controller) State() State { return c.state }

// RightInset is the width a host should reserve at the editor's right edge
// for the strip.
func (c *Controller) RightInset() int { return c.cfg.StripWidth - scrollGutter }

// PaintBorder draws the outline in the top right of the editor, rendering
// it first if nothing is cached.
func (c *Controller) PaintBorder(dst draw.Image, clip image.Rectangle) {
	if c.Disposed() || dst == nil {
		return
	}
	b := c.ed.Bounds()

	if c.state == Empty {
		bm, err := c.renderer.Render(c.ed.Document(), b.Dy())
		if err != nil {
			log.Printf("outline: render failed: %v", err)
			c.state = Failed
			return
		}
		c.bitmap = bm
		c.state = Cached
	}
	if c.state != Cached {
		return
	}

	if c.img == nil {
		img, err := draw.LoadImage(dst.Display(), c.bitmap.Image)
		if err != nil {
			log.Printf("outline: loading bitmap: %v", err)
			c.bitmap = nil
			c.state = Failed
			return
		}
		c.img = img
	}

	size := c.bitmap.Scale.Output
	r := image.Rect(b.Max.X-c.cfg.StripWidth, b.Min.Y, b.Max.X, b.Min.Y+size.Y)
	clipped := r.Intersect(clip).Intersect(dst.R())
	if clipped.Empty() {
		return
	}
	dst.Draw(clipped, c.img, nil, clipped.Min.Sub(r.Min))
}

// Dispose cancels any pending refresh, unsubscribes from the editor and
// frees the loaded bitmap. It is safe to call more than once. The bitmap is
// freed by the next queue task, so Dispose may be called from any
// goroutine; once the queue is closed nothing else runs there and it is
// freed at once.
func (c *Controller) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	cancels := c.cancels
	c.cancels = nil
	c.mu.Unlock()

	c.timer.Stop()
	for _, cancel := range cancels {
		cancel()
	}
	if !c.q.Post(c.clear) {
		c.clear()
	}
}

// Disposed reports whether Dispose has been called.
func (c *Controller) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}
