// Package theme holds the colours used to print documents and to frame the
// outline strip.
package theme

import (
	"github.com/rjkroege/outline/draw"
)

type Palette struct {
	// TextBack and TextFore colour the printed document.
	TextBack draw.Color
	TextFore draw.Color

	// Background fills the viewer window behind the document text.
	Background draw.Color

	// StripRule is the one-pixel rule drawn along the strip's left edge.
	StripRule draw.Color
}

var lightPalette = Palette{
	// Plan 9 defaults
	TextBack:   draw.Paleyellow,
	TextFore:   draw.Black,
	Background: draw.White,
	StripRule:  draw.Darkyellow,
}

var darkPalette = Palette{
	TextBack:   0x222222FF,
	TextFore:   0xEEEEEEFF,
	Background: draw.Black,
	StripRule:  0x888888FF,
}

var current = lightPalette

// SetDarkMode selects between the light and dark palettes.
func SetDarkMode(enabled bool) {
	if enabled {
		current = darkPalette
	} else {
		current = lightPalette
	}
}

// Current returns the active colour palette.
func Current() Palette { return current }
