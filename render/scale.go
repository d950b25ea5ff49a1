package render

import (
	"image"
	"math"

	"github.com/rjkroege/outline/config"
)

// Scale is the geometry of one outline render.
type Scale struct {
	// Natural is the unscaled size of the printed document.
	Natural image.Point

	// Cap is the widest the print buffer may be: the char width times the
	// configured column budget.
	Cap int

	// X and Y are the independent horizontal and vertical scale factors.
	X, Y float64

	// Buffer is the size the document is printed at before scaling.
	Buffer image.Point

	// Output is the size of the finished bitmap.
	Output image.Point
}

// atLeastOne keeps degenerate sizes out of the scale ratios.
func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// Compute works out how a document of the given natural size is fitted
// into the strip. Zero or negative sizes are treated as 1 so that empty
// documents and unmeasurable fonts still produce a usable bitmap.
//
// The horizontal scale fits min(natural width, Cap) into StripWidth. The
// vertical scale fits the document into the viewport height but never
// exceeds X/AspectGuard. The print buffer is made tall enough that, once
// scaled, it covers the whole viewport.
func Compute(cfg config.Config, natural image.Point, viewportHeight, charWidth int) Scale {
	nw := atLeastOne(natural.X)
	nh := atLeastOne(natural.Y)
	vh := atLeastOne(viewportHeight)
	strip := atLeastOne(cfg.StripWidth)
	guard := cfg.AspectGuard
	if guard <= 0 {
		guard = 1
	}

	capw := atLeastOne(charWidth) * atLeastOne(cfg.TrimColumns)
	w := min(nw, capw)

	xs := float64(strip) / float64(w)
	ys := math.Min(xs/guard, float64(vh)/float64(nh))
	h := max(int(float64(vh)/ys), nh)

	return Scale{
		Natural: natural,
		Cap:     capw,
		X:       xs,
		Y:       ys,
		Buffer:  image.Pt(w, h),
		Output:  image.Pt(strip, max(1, int(math.Round(float64(h)*ys)))),
	}
}
