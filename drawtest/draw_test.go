package drawtest

import (
	"fmt"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rjkroege/outline/draw"
)

func TestRecordedOps(t *testing.T) {
	display := NewDisplay(image.Rect(0, 0, 100, 100))
	screen := display.ScreenImage()

	img, err := display.AllocImage(image.Rect(0, 0, 2, 2), draw.RGB24, false, draw.Nofill)
	if err != nil {
		t.Fatalf("AllocImage: %v", err)
	}
	if _, err := img.Load(img.R(), make([]byte, 12)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	screen.Draw(image.Rect(10, 10, 12, 12), img, nil, image.Point{})
	screen.Bytes(image.Pt(0, 0), display.Black(), image.Point{}, display.DefaultFont(), []byte("hi"))
	img.Free()

	want := []string{
		"alloc image1 r: (0,0)-(2,2) pix: " + fmt.Sprint(draw.RGB24),
		"image1 <- load r: (0,0)-(2,2) bytes: 12",
		"screen <- draw r: (10,10)-(12,12) src: image1 mask: nil p1: (0,0)",
		`screen <- string "hi" atpoint: (0,0) fill: black`,
		"free image1",
	}
	if diff := cmp.Diff(want, display.(GettableDrawOps).DrawOps()); diff != "" {
		t.Errorf("DrawOps mismatch (-want +got):\n%s", diff)
	}

	display.(GettableDrawOps).Clear()
	if got := display.(GettableDrawOps).DrawOps(); len(got) != 0 {
		t.Errorf("Clear left %d ops", len(got))
	}
}

func TestFailAlloc(t *testing.T) {
	display := NewDisplay(image.Rect(0, 0, 10, 10))
	FailAlloc(display, true)
	if _, err := display.AllocImage(image.Rect(0, 0, 1, 1), draw.RGB24, false, draw.Nofill); err == nil {
		t.Error("AllocImage succeeded with FailAlloc set")
	}
}
