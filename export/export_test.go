package export

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rjkroege/outline/draw"
)

// blockPainter fills the top right 10x20 of the editor with black.
type blockPainter struct{ bounds image.Rectangle }

func (p blockPainter) PaintBorder(dst draw.Image, clip image.Rectangle) {
	r := image.Rect(p.bounds.Max.X-10, p.bounds.Min.Y, p.bounds.Max.X, p.bounds.Min.Y+20)
	dst.Draw(r.Intersect(clip), dst.Display().Black(), nil, image.Point{})
}

func TestStrip(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 50)
	img, err := Strip(blockPainter{bounds}, bounds, 30)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := img.Bounds(), image.Rect(70, 0, 100, 50); got != want {
		t.Errorf("strip bounds %v, want %v", got, want)
	}
	if px := img.RGBAAt(95, 5); px != (color.RGBA{0, 0, 0, 0xFF}) {
		t.Errorf("painted pixel = %v, want black", px)
	}
	if px := img.RGBAAt(75, 40); px != (color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Errorf("background pixel = %v, want white", px)
	}

	if _, err := Strip(blockPainter{}, image.Rectangle{}, 30); err == nil {
		t.Error("Strip of empty bounds succeeded")
	}
}

func TestWritePNG(t *testing.T) {
	dir := t.TempDir()
	path := FileName(dir, "/src/a.go")
	if want := filepath.Join(dir, "src%2Fa.go.png"); path != want {
		t.Fatalf("FileName() = %q, want %q", path, want)
	}

	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{0x11, 0x22, 0x33, 0xFF})
	if err := WritePNG(path, img); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds() != img.Bounds() {
		t.Errorf("decoded bounds %v, want %v", got.Bounds(), img.Bounds())
	}
	r, g, b, _ := got.At(1, 1).RGBA()
	if r>>8 != 0x11 || g>>8 != 0x22 || b>>8 != 0x33 {
		t.Errorf("decoded pixel = %v", got.At(1, 1))
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestFileNameDistinct(t *testing.T) {
	for _, tc := range []struct {
		id   string
		want string
	}{
		{"4", "4.png"},
		{"/src/a/main.go", "src%2Fa%2Fmain.go.png"},
		{"/src/b/main.go", "src%2Fb%2Fmain.go.png"},
		{"/src/a%2Fmain.go", "src%2Fa%252Fmain.go.png"},
	} {
		if got := FileName("out", tc.id); got != filepath.Join("out", tc.want) {
			t.Errorf("FileName(out, %q) = %q, want %q", tc.id, got, filepath.Join("out", tc.want))
		}
	}
}
