package main

import (
	"context"
	"fmt"
	"image"
	"log"
	"path/filepath"

	"github.com/rjkroege/outline/attach"
	"github.com/rjkroege/outline/config"
	"github.com/rjkroege/outline/draw"
	"github.com/rjkroege/outline/filehost"
	"github.com/rjkroege/outline/render"
	"github.com/rjkroege/outline/theme"
	"github.com/rjkroege/outline/ui"
)

// runView shows path in a devdraw window with its outline on the right.
func runView(ctx context.Context, cfg config.Config, r *render.Renderer, path string) error {
	var err error
	draw.Main(func(dev *draw.Device) {
		err = view(ctx, dev, cfg, r, path)
	})
	return err
}

type viewer struct {
	cfg     config.Config
	display draw.Display
}

func view(ctx context.Context, dev *draw.Device, cfg config.Config, r *render.Renderer, path string) error {
	errch := make(chan error, 1)
	display, err := dev.NewDisplay(errch, "", "outline "+filepath.Base(path), *winsize)
	if err != nil {
		return fmt.Errorf("can't open display: %w", err)
	}
	if err := display.Attach(draw.Refnone); err != nil {
		return fmt.Errorf("failed to attach to window: %w", err)
	}
	mousectl := display.InitMouse()
	keyboardctl := display.InitKeyboard()

	v := &viewer{cfg: cfg, display: display}
	q := ui.NewQueue()
	m := attach.New(cfg, r, q)
	// Runs after m.Close so the controllers' bitmaps are freed.
	defer q.Drain()
	defer m.Close()

	s, err := filehost.Open(path, display.ScreenImage().R(), q, v.redraw)
	if err != nil {
		return err
	}
	defer s.Close()
	m.Attach(s)

	watcherr := make(chan error, 1)
	go func() { watcherr <- s.Watch(ctx) }()

	v.redraw(s)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-q.Wake():
			q.Drain()
		case <-mousectl.Resize:
			if err := display.Attach(draw.Refnone); err != nil {
				return fmt.Errorf("failed to reattach window: %w", err)
			}
			s.SetBounds(display.ScreenImage().R())
			v.redraw(s)
		case mousectl.Mouse = <-mousectl.C:
		case k := <-keyboardctl.C:
			if k == 'q' || k == 0x7F {
				return nil
			}
		case err := <-errch:
			return err
		case err := <-watcherr:
			if err != nil {
				return err
			}
		}
	}
}

// redraw paints the file text, the rule separating it from the strip and
// the strip itself.
func (v *viewer) redraw(s *filehost.Session) {
	screen := v.display.ScreenImage()
	r := screen.R()
	pal := theme.Current()

	bg, err := v.display.AllocImage(image.Rect(0, 0, 1, 1), draw.RGB24, true, pal.TextBack)
	if err != nil {
		log.Printf("redraw: %v", err)
		return
	}
	defer bg.Free()
	fg, err := v.display.AllocImage(image.Rect(0, 0, 1, 1), draw.RGB24, true, pal.TextFore)
	if err != nil {
		log.Printf("redraw: %v", err)
		return
	}
	defer fg.Free()
	rule, err := v.display.AllocImage(image.Rect(0, 0, 1, 1), draw.RGB24, true, pal.StripRule)
	if err != nil {
		log.Printf("redraw: %v", err)
		return
	}
	defer rule.Free()

	screen.Draw(r, bg, nil, image.Point{})

	font := v.display.DefaultFont()
	doc := s.Document()
	textr := r
	textr.Max.X -= v.cfg.StripWidth + 1
	for i, y := 0, textr.Min.Y; i < doc.LineCount() && y+font.Height() <= textr.Max.Y; i, y = i+1, y+font.Height() {
		screen.Bytes(image.Pt(textr.Min.X+4, y), fg, image.Point{}, font, []byte(doc.Line(i)))
	}
	screen.Draw(image.Rect(textr.Max.X, r.Min.Y, textr.Max.X+1, r.Max.Y), rule, nil, image.Point{})

	if p := s.Painter(); p != nil {
		p.PaintBorder(screen, r)
	}
	if err := v.display.Flush(); err != nil {
		log.Printf("redraw: %v", err)
	}
}
