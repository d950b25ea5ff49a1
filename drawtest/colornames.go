package drawtest

import (
	"fmt"

	"github.com/rjkroege/outline/draw"
)

var colournames = map[draw.Color]string{
	draw.Black:       "Black",
	draw.White:       "White",
	draw.Darkyellow:  "Darkyellow",
	draw.Medblue:     "Medblue",
	draw.Paleyellow:  "Paleyellow",
	draw.Transparent: "Transparent",
}

// NiceColourName returns a readable name for a Plan 9 colour.
func NiceColourName(num draw.Color) string {
	if s, ok := colournames[num]; ok {
		return s
	}
	return fmt.Sprintf("%#08x", uint32(num))
}
