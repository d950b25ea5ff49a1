// Package render draws a whole document into the small bitmap shown in the
// outline strip.
//
// The document itself is laid out and painted by the host's Printer; this
// package only decides the buffer geometry and shrinks the result.
package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/rjkroege/outline/config"
	"github.com/rjkroege/outline/document"
	xdraw "golang.org/x/image/draw"
)

// ErrPrint wraps failures raised by the host's Printer.
var ErrPrint = errors.New("fragment print failed")

// Printer is the host facility that lays out a range of document lines.
type Printer interface {
	// PrintRange returns a paintable fragment for lines [start, end) of doc.
	PrintRange(doc document.Document, start, end int) Fragment

	// CharWidth returns the advance of r in the document font.
	CharWidth(r rune) int
}

// Fragment is a laid-out range of lines.
type Fragment interface {
	// Size is the natural, unscaled size of the fragment.
	Size() image.Point

	// Print lays the fragment out over dst.Bounds() and paints it,
	// background included. Lines wider than dst are cut off.
	Print(dst *image.RGBA)
}

// Bitmap is a finished outline image and the geometry that produced it.
type Bitmap struct {
	Image *image.RGBA
	Scale Scale
}

// Renderer produces outline bitmaps.
type Renderer struct {
	cfg     config.Config
	printer Printer
	kernel  xdraw.Interpolator
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithInterpolator replaces the smooth CatmullRom kernel used to shrink the
// print buffer.
func WithInterpolator(k xdraw.Interpolator) Option {
	return func(r *Renderer) {
		r.kernel = k
	}
}

// New returns a Renderer that prints with p.
func New(cfg config.Config, p Printer, opts ...Option) *Renderer {
	r := &Renderer{
		cfg:     cfg,
		printer: p,
		kernel:  xdraw.CatmullRom,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Config returns the configuration r was built with.
func (r *Renderer) Config() config.Config { return r.cfg }

// Render prints every line of doc and scales the print into a bitmap
// StripWidth pixels wide, fitted to viewportHeight. A nil or empty doc
// yields a blank bitmap. Render never panics: a panic in the Printer is
// returned as an error wrapping ErrPrint.
func (r *Renderer) Render(doc document.Document, viewportHeight int) (bm *Bitmap, err error) {
	defer func() {
		if v := recover(); v != nil {
			bm = nil
			err = fmt.Errorf("%w: %v", ErrPrint, v)
		}
	}()

	if doc == nil {
		doc = document.Empty
	}
	frag := r.printer.PrintRange(doc, 0, doc.LineCount())
	if frag == nil {
		return nil, fmt.Errorf("%w: no fragment for %d lines", ErrPrint, doc.LineCount())
	}

	s := Compute(r.cfg, frag.Size(), viewportHeight, r.printer.CharWidth('w'))

	buf := image.NewRGBA(image.Rectangle{Max: s.Buffer})
	frag.Print(buf)

	out := image.NewRGBA(image.Rectangle{Max: s.Output})
	r.kernel.Scale(out, out.Bounds(), buf, buf.Bounds(), xdraw.Src, nil)

	return &Bitmap{Image: out, Scale: s}, nil
}
