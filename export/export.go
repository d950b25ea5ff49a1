// Package export writes outline strips out as PNG files.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rjkroege/outline/draw"
	"github.com/rjkroege/outline/overlay"
	"github.com/rjkroege/outline/theme"
)

// Strip paints p over an editor occupying bounds on a memory display and
// returns the strip's part of the result: the rightmost stripWidth columns.
func Strip(p overlay.BorderPainter, bounds image.Rectangle, stripWidth int) (*image.RGBA, error) {
	if bounds.Empty() {
		return nil, fmt.Errorf("export: empty bounds %v", bounds)
	}
	d := draw.NewMemDisplay(bounds)
	screen := d.ScreenImage()

	bg, err := d.AllocImage(image.Rect(0, 0, 1, 1), draw.RGB24, true, theme.Current().Background)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	screen.Draw(bounds, bg, nil, image.Point{})
	p.PaintBorder(screen, bounds)

	r := image.Rect(bounds.Max.X-stripWidth, bounds.Min.Y, bounds.Max.X, bounds.Max.Y).Intersect(bounds)
	return d.Screen().SubImage(r).(*image.RGBA), nil
}

// WritePNG encodes img to path. The file is replaced atomically so readers
// never see a partial image.
func WritePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("export: encoding %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".outline-*.png")
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("export: writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("export: writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// FileName returns the PNG name used for the editor with the given ID.
// IDs that are paths keep their directories, escaped into the name, so
// distinct files never share a PNG.
func FileName(dir, id string) string {
	name := strings.TrimPrefix(filepath.ToSlash(filepath.Clean(id)), "/")
	return filepath.Join(dir, url.PathEscape(name)+".png")
}
