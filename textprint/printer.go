// Package textprint is a fragment printer for plain text: it lays document
// lines out one per row in Go Mono and paints them into a Go image. Hosts
// without a print facility of their own hand it to render.New.
package textprint

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/rjkroege/outline/document"
	"github.com/rjkroege/outline/draw"
	"github.com/rjkroege/outline/render"
	"github.com/rjkroege/outline/theme"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultSize     = 12
	DefaultTabWidth = 4
)

var (
	parseOnce sync.Once
	monoFont  *opentype.Font
	parseErr  error
)

func goMono() (*opentype.Font, error) {
	parseOnce.Do(func() {
		monoFont, parseErr = opentype.Parse(gomono.TTF)
	})
	return monoFont, parseErr
}

// Printer implements render.Printer.
type Printer struct {
	size     float64
	tabwidth int
	fore     color.Color
	back     color.Color

	face       font.Face
	ascent     int
	lineHeight int
}

var _ render.Printer = (*Printer)(nil)

// Option configures a Printer.
type Option func(*Printer)

// WithSize sets the point size (at 72 DPI, so points are pixels).
func WithSize(pt float64) Option {
	return func(p *Printer) {
		p.size = pt
	}
}

// WithTabWidth sets the tab stop interval in columns.
func WithTabWidth(n int) Option {
	return func(p *Printer) {
		p.tabwidth = n
	}
}

// WithColors sets the text and background colours.
func WithColors(fore, back draw.Color) Option {
	return func(p *Printer) {
		p.fore = draw.RGBA(fore)
		p.back = draw.RGBA(back)
	}
}

// New returns a Printer using the current theme's text colours unless
// overridden.
func New(opts ...Option) (*Printer, error) {
	pal := theme.Current()
	p := &Printer{
		size:     DefaultSize,
		tabwidth: DefaultTabWidth,
		fore:     draw.RGBA(pal.TextFore),
		back:     draw.RGBA(pal.TextBack),
	}
	for _, o := range opts {
		o(p)
	}
	if p.size <= 0 {
		return nil, fmt.Errorf("textprint: point size %g must be positive", p.size)
	}
	if p.tabwidth < 1 {
		p.tabwidth = 1
	}

	f, err := goMono()
	if err != nil {
		return nil, fmt.Errorf("textprint: parsing Go Mono: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    p.size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("textprint: creating %gpt face: %w", p.size, err)
	}
	m := face.Metrics()
	p.face = face
	p.ascent = m.Ascent.Ceil()
	p.lineHeight = max(1, m.Height.Ceil())
	return p, nil
}

// LineHeight returns the height of one printed row.
func (p *Printer) LineHeight() int { return p.lineHeight }

// CharWidth returns the advance of r, rounded up.
func (p *Printer) CharWidth(r rune) int {
	adv, ok := p.face.GlyphAdvance(r)
	if !ok {
		adv, _ = p.face.GlyphAdvance('w')
	}
	return adv.Ceil()
}

// PrintRange snapshots lines [start, end) of doc with tabs expanded.
func (p *Printer) PrintRange(doc document.Document, start, end int) render.Fragment {
	start = max(0, start)
	end = min(end, doc.LineCount())
	fr := &fragment{p: p}
	for i := start; i < end; i++ {
		line := p.expand(doc.Line(i))
		fr.lines = append(fr.lines, line)
		if w := font.MeasureString(p.face, line).Ceil(); w > fr.width {
			fr.width = w
		}
	}
	return fr
}

// expand replaces tabs with spaces up to the next tab stop.
func (p *Printer) expand(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := p.tabwidth - col%p.tabwidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col++
	}
	return sb.String()
}

type fragment struct {
	p     *Printer
	lines []string
	width int
}

func (f *fragment) Size() image.Point {
	return image.Pt(f.width, len(f.lines)*f.p.lineHeight)
}

func (f *fragment) Print(dst *image.RGBA) {
	b := dst.Bounds()
	xdraw.Draw(dst, b, image.NewUniform(f.p.back), image.Point{}, xdraw.Src)

	dr := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(f.p.fore),
		Face: f.p.face,
	}
	for i, line := range f.lines {
		top := b.Min.Y + i*f.p.lineHeight
		if top >= b.Max.Y {
			break
		}
		dr.Dot = fixed.P(b.Min.X, top+f.p.ascent)
		dr.DrawString(line)
	}
}
