package draw

import (
	"fmt"
	"image"
	"image/color"
)

// Plan9Bytes converts img to the pixel layout Image.Load expects for pix.
// Plan 9 stores the channels of a pixel little-endian, so RGB24 rows are
// blue, green, red and RGBA32 rows are alpha, blue, green, red. Only those
// two formats are supported.
func Plan9Bytes(img image.Image, pix Pix) ([]byte, error) {
	b := img.Bounds()
	var bpp int
	switch pix {
	case RGB24:
		bpp = 3
	case RGBA32:
		bpp = 4
	default:
		return nil, fmt.Errorf("unsupported pixel format %v", pix)
	}

	data := make([]byte, 0, b.Dx()*b.Dy()*bpp)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if bpp == 3 {
				data = append(data, c.B, c.G, c.R)
			} else {
				data = append(data, c.A, c.B, c.G, c.R)
			}
		}
	}
	return data, nil
}

// fromPlan9Bytes is the inverse of Plan9Bytes, writing into dst over r.
func fromPlan9Bytes(dst *image.RGBA, r image.Rectangle, pix Pix, data []byte) (int, error) {
	var bpp int
	switch pix {
	case RGB24:
		bpp = 3
	case RGBA32:
		bpp = 4
	default:
		return 0, fmt.Errorf("unsupported pixel format %v", pix)
	}
	if !r.In(dst.Bounds()) {
		return 0, fmt.Errorf("load rectangle %v outside image %v", r, dst.Bounds())
	}
	need := r.Dx() * r.Dy() * bpp
	if len(data) < need {
		return 0, fmt.Errorf("short load data: %d bytes for %v, need %d", len(data), r, need)
	}

	i := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			var c color.RGBA
			if bpp == 3 {
				c = color.RGBA{R: data[i+2], G: data[i+1], B: data[i], A: 0xFF}
			} else {
				c = color.RGBA{R: data[i+3], G: data[i+2], B: data[i+1], A: data[i]}
			}
			dst.SetRGBA(x, y, c)
			i += bpp
		}
	}
	return need, nil
}

// LoadImage allocates an RGB24 image on d the size of img, with its origin
// at (0,0), and loads img's pixels into it.
func LoadImage(d Display, img image.Image) (Image, error) {
	b := img.Bounds()
	r := image.Rect(0, 0, b.Dx(), b.Dy())
	data, err := Plan9Bytes(img, RGB24)
	if err != nil {
		return nil, err
	}
	dst, err := d.AllocImage(r, RGB24, false, Nofill)
	if err != nil {
		return nil, fmt.Errorf("allocating %v image: %w", r, err)
	}
	if _, err := dst.Load(r, data); err != nil {
		dst.Free()
		return nil, fmt.Errorf("loading %v image: %w", r, err)
	}
	return dst, nil
}

// RGBA converts a Plan 9 colour to a Go colour.
func RGBA(c Color) color.RGBA {
	return color.RGBA{
		R: uint8(c >> 24),
		G: uint8(c >> 16),
		B: uint8(c >> 8),
		A: uint8(c),
	}
}
