package draw

import (
	draw "9fans.net/go/draw"
)

const (
	Refnone = draw.Refnone

	Black       = draw.Black
	White       = draw.White
	Nofill      = draw.Nofill
	Notacolor   = draw.Notacolor
	Transparent = draw.Transparent
	Paleyellow  = draw.Paleyellow
	Darkyellow  = draw.Darkyellow
	Medblue     = draw.Medblue
)

// Pixel formats accepted by LoadImage.
var (
	RGB24  = draw.RGB24
	RGBA32 = draw.RGBA32
)

type (
	Color       = draw.Color
	drawDisplay = draw.Display
	drawFont    = draw.Font
	drawImage   = draw.Image
	Keyboardctl = draw.Keyboardctl
	Mousectl    = draw.Mousectl
	Mouse       = draw.Mouse
	Pix         = draw.Pix
)

var Init = draw.Init

func Main(f func(*Device)) {
	f(new(Device))
}

type Device struct{}

// NewDisplay connects to devdraw and opens a window labelled label.
func (dev *Device) NewDisplay(errch chan<- error, fontname, label, winsize string) (Display, error) {
	d, err := Init(errch, fontname, label, winsize)
	if err != nil {
		return nil, err
	}
	return &displayImpl{d}, nil
}
