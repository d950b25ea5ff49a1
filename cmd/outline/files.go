package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/rjkroege/outline/attach"
	"github.com/rjkroege/outline/config"
	"github.com/rjkroege/outline/export"
	"github.com/rjkroege/outline/filehost"
	"github.com/rjkroege/outline/render"
	"github.com/rjkroege/outline/ui"
	"golang.org/x/sync/errgroup"
)

// runFiles writes the strip of each file to dir, and with watch keeps
// rewriting them until ctx is done.
func runFiles(ctx context.Context, cfg config.Config, r *render.Renderer, bounds image.Rectangle, files []string, dir string, watch bool) error {
	q := ui.NewQueue()
	m := attach.New(cfg, r, q)
	// Runs after m.Close so the controllers' bitmaps are freed.
	defer q.Drain()
	defer m.Close()

	write := func(s *filehost.Session) {
		if err := writeStrip(cfg, dir, s); err != nil {
			log.Printf("%v", err)
		}
	}

	var sessions []*filehost.Session
	for _, f := range files {
		s, err := filehost.Open(f, bounds, q, write)
		if err != nil {
			return err
		}
		defer s.Close()
		m.Attach(s)
		if err := writeStrip(cfg, dir, s); err != nil {
			return err
		}
		sessions = append(sessions, s)
	}
	if !watch {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return q.Run(ctx) })
	for _, s := range sessions {
		s := s
		g.Go(func() error { return s.Watch(ctx) })
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func writeStrip(cfg config.Config, dir string, s *filehost.Session) error {
	p := s.Painter()
	if p == nil {
		return fmt.Errorf("%s: no outline attached", s.Path())
	}
	img, err := export.Strip(p, s.Bounds(), cfg.StripWidth)
	if err != nil {
		return fmt.Errorf("%s: %w", s.Path(), err)
	}
	return export.WritePNG(export.FileName(dir, s.ID()), img)
}
