// Package drawtest provides a draw.Display that records the operations
// performed on it, for tests that care about what was drawn where rather
// than about pixels.
package drawtest

import (
	"fmt"
	"image"
	"sync"
	"unicode/utf8"

	"github.com/rjkroege/outline/draw"
)

var _ = draw.Display((*mockDisplay)(nil))

const (
	fwidth  = 7
	fheight = 13
)

// GettableDrawOps display implementations can provide a list of the
// executed draw ops.
type GettableDrawOps interface {
	DrawOps() []string
	Clear()
}

// mockDisplay implements draw.Display.
type mockDisplay struct {
	mu      sync.Mutex
	drawops []string
	nalloc  int

	screenimage draw.Image

	// failalloc makes AllocImage fail, to exercise error paths.
	failalloc bool
}

// NewDisplay returns a mock draw.Display whose screen covers r.
func NewDisplay(r image.Rectangle) draw.Display {
	md := &mockDisplay{}
	md.screenimage = &mockImage{d: md, n: "screen", r: r, c: draw.Notacolor}
	return md
}

// FailAlloc makes subsequent AllocImage calls on display fail.
func FailAlloc(display draw.Display, fail bool) {
	d := display.(*mockDisplay)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failalloc = fail
}

func (d *mockDisplay) record(op string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drawops = append(d.drawops, op)
}

func (d *mockDisplay) ScreenImage() draw.Image { return d.screenimage }

func (d *mockDisplay) White() draw.Image {
	return &mockImage{d: d, n: "white", c: draw.White, r: image.Rect(0, 0, 1, 1), repl: true}
}

func (d *mockDisplay) Black() draw.Image {
	return &mockImage{d: d, n: "black", c: draw.Black, r: image.Rect(0, 0, 1, 1), repl: true}
}

func (d *mockDisplay) DefaultFont() draw.Font          { return NewFont(fwidth, fheight) }
func (d *mockDisplay) InitKeyboard() *draw.Keyboardctl { return &draw.Keyboardctl{} }
func (d *mockDisplay) InitMouse() *draw.Mousectl       { return &draw.Mousectl{} }
func (d *mockDisplay) Attach(ref int) error            { return nil }
func (d *mockDisplay) Flush() error                    { return nil }

func (d *mockDisplay) AllocImage(r image.Rectangle, pix draw.Pix, repl bool, val draw.Color) (draw.Image, error) {
	d.mu.Lock()
	if d.failalloc {
		d.mu.Unlock()
		return nil, fmt.Errorf("mock alloc of %v refused", r)
	}
	d.nalloc++
	n := fmt.Sprintf("image%d", d.nalloc)
	d.mu.Unlock()

	d.record(fmt.Sprintf("alloc %s r: %v pix: %v", n, r, pix))
	return &mockImage{
		d:    d,
		n:    n,
		r:    r,
		c:    val,
		repl: repl,
	}, nil
}

func (d *mockDisplay) DrawOps() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.drawops...)
}

func (d *mockDisplay) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drawops = nil
}

var _ = draw.Image((*mockImage)(nil))

// mockImage implements draw.Image.
type mockImage struct {
	d    *mockDisplay
	n    string
	r    image.Rectangle
	c    draw.Color
	repl bool
}

// NewImage returns a mock draw.Image with the given bounds.
func NewImage(display draw.Display, name string, r image.Rectangle) draw.Image {
	return &mockImage{d: display.(*mockDisplay), n: name, r: r, c: draw.Notacolor}
}

func (i *mockImage) Display() draw.Display { return i.d }
func (i *mockImage) Pix() draw.Pix         { return draw.RGB24 }
func (i *mockImage) R() image.Rectangle    { return i.r }

// N returns the name of an image as it appears in recorded ops.
func (i *mockImage) N() string {
	if i == nil {
		return "nil"
	}
	if i.c != draw.Notacolor && i.c != draw.Nofill && i.n == "" {
		return NiceColourName(i.c)
	}
	return i.n
}

func name(i draw.Image) string {
	if m, ok := i.(*mockImage); ok {
		return m.N()
	}
	return "nil"
}

func (i *mockImage) Draw(r image.Rectangle, src, mask draw.Image, p1 image.Point) {
	i.d.record(fmt.Sprintf("%s <- draw r: %v src: %s mask: %s p1: %v",
		i.n, r, name(src), name(mask), p1))
}

func (i *mockImage) Bytes(pt image.Point, src draw.Image, sp image.Point, f draw.Font, b []byte) image.Point {
	i.d.record(fmt.Sprintf("%s <- string %q atpoint: %v fill: %s", i.n, string(b), pt, name(src)))
	return pt.Add(image.Pt(f.BytesWidth(b), 0))
}

func (i *mockImage) Free() error {
	i.d.record(fmt.Sprintf("free %s", i.n))
	return nil
}

func (i *mockImage) Load(r image.Rectangle, data []byte) (int, error) {
	i.d.record(fmt.Sprintf("%s <- load r: %v bytes: %d", i.n, r, len(data)))
	return len(data), nil
}

var _ = draw.Font((*mockFont)(nil))

// mockFont implements draw.Font and mocks as a fixed width font.
type mockFont struct {
	width, height int
}

// NewFont returns a draw.Font that mocks a fixed-width font.
func NewFont(width, height int) draw.Font {
	return &mockFont{
		width:  width,
		height: height,
	}
}

func (f *mockFont) Name() string             { return "mock" }
func (f *mockFont) Height() int              { return f.height }
func (f *mockFont) BytesWidth(b []byte) int  { return f.width * utf8.RuneCount(b) }
func (f *mockFont) StringWidth(s string) int { return f.width * utf8.RuneCountInString(s) }
