package draw

import (
	"image"
	"unicode/utf8"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// MemDisplay is a Display whose images are Go images. Nothing is shown
// anywhere; hosts that export the strip read the screen back with Screen.
type MemDisplay struct {
	screen *memImage
	font   *memFont
}

var _ = Display((*MemDisplay)(nil))

// NewMemDisplay returns a MemDisplay with a white screen covering r.
func NewMemDisplay(r image.Rectangle) *MemDisplay {
	d := &MemDisplay{
		font: &memFont{face: basicfont.Face7x13},
	}
	d.screen = d.newImage(r, RGB24, false, White)
	return d
}

// Screen returns the pixels of the screen image.
func (d *MemDisplay) Screen() *image.RGBA { return d.screen.rgba }

func (d *MemDisplay) ScreenImage() Image { return d.screen }
func (d *MemDisplay) White() Image       { return d.newImage(image.Rect(0, 0, 1, 1), RGB24, true, White) }
func (d *MemDisplay) Black() Image       { return d.newImage(image.Rect(0, 0, 1, 1), RGB24, true, Black) }
func (d *MemDisplay) DefaultFont() Font  { return d.font }

func (d *MemDisplay) InitKeyboard() *Keyboardctl { return &Keyboardctl{} }
func (d *MemDisplay) InitMouse() *Mousectl       { return &Mousectl{} }
func (d *MemDisplay) Attach(ref int) error       { return nil }
func (d *MemDisplay) Flush() error               { return nil }

func (d *MemDisplay) AllocImage(r image.Rectangle, pix Pix, repl bool, val Color) (Image, error) {
	return d.newImage(r, pix, repl, val), nil
}

func (d *MemDisplay) newImage(r image.Rectangle, pix Pix, repl bool, val Color) *memImage {
	i := &memImage{
		d:    d,
		pix:  pix,
		repl: repl,
		rgba: image.NewRGBA(r),
	}
	if val != Nofill && val != Notacolor {
		xdraw.Draw(i.rgba, r, image.NewUniform(RGBA(val)), image.Point{}, xdraw.Src)
	}
	return i
}

// ImageRGBA returns the pixels behind an Image allocated on a MemDisplay.
func ImageRGBA(i Image) (*image.RGBA, bool) {
	m, ok := i.(*memImage)
	if !ok {
		return nil, false
	}
	return m.rgba, true
}

// memImage implements Image over an *image.RGBA.
type memImage struct {
	d    *MemDisplay
	pix  Pix
	repl bool
	rgba *image.RGBA
}

var _ = Image((*memImage)(nil))

func (i *memImage) Display() Display   { return i.d }
func (i *memImage) Pix() Pix           { return i.pix }
func (i *memImage) R() image.Rectangle { return i.rgba.Bounds() }

// source returns what i contributes when used as a draw source: replicated
// images tile, which for the 1x1 colour images used here is a uniform.
func (i *memImage) source() image.Image {
	if i.repl {
		return image.NewUniform(i.rgba.At(i.rgba.Bounds().Min.X, i.rgba.Bounds().Min.Y))
	}
	return i.rgba
}

func (i *memImage) Draw(r image.Rectangle, src, mask Image, p1 image.Point) {
	s, ok := src.(*memImage)
	if !ok {
		return
	}
	if m, ok := mask.(*memImage); ok {
		xdraw.DrawMask(i.rgba, r, s.source(), p1, m.source(), p1, xdraw.Over)
		return
	}
	xdraw.Draw(i.rgba, r, s.source(), p1, xdraw.Over)
}

func (i *memImage) Bytes(pt image.Point, src Image, sp image.Point, f Font, b []byte) image.Point {
	mf, ok := f.(*memFont)
	if !ok {
		mf = i.d.font
	}
	var fill image.Image = image.Black
	if s, ok := src.(*memImage); ok {
		fill = s.source()
	}
	dr := &font.Drawer{
		Dst:  i.rgba,
		Src:  fill,
		Face: mf.face,
		Dot:  fixed.P(pt.X, pt.Y+mf.face.Ascent),
	}
	dr.DrawBytes(b)
	return pt.Add(image.Pt(mf.BytesWidth(b), 0))
}

func (i *memImage) Free() error { return nil }

func (i *memImage) Load(r image.Rectangle, data []byte) (int, error) {
	return fromPlan9Bytes(i.rgba, r, i.pix, data)
}

// memFont is the fixed 7x13 face from golang.org/x/image/font/basicfont.
type memFont struct {
	face *basicfont.Face
}

func (f *memFont) Name() string { return "basicfont/7x13" }
func (f *memFont) Height() int  { return f.face.Height }

func (f *memFont) BytesWidth(b []byte) int  { return f.face.Advance * utf8.RuneCount(b) }
func (f *memFont) StringWidth(s string) int { return f.face.Advance * utf8.RuneCountInString(s) }
