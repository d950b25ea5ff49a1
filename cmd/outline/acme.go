package main

import (
	"context"
	"image"

	"github.com/rjkroege/outline/acmehost"
	"github.com/rjkroege/outline/attach"
	"github.com/rjkroege/outline/config"
	"github.com/rjkroege/outline/render"
	"github.com/rjkroege/outline/ui"
	"golang.org/x/sync/errgroup"
)

// runAcme outlines every acme window until ctx is done or the acme log
// fails.
func runAcme(ctx context.Context, cfg config.Config, r *render.Renderer, bounds image.Rectangle, dir string) error {
	q := ui.NewQueue()
	h, err := acmehost.New(cfg, q, bounds, dir)
	if err != nil {
		return err
	}
	defer h.Close()
	m := attach.New(cfg, r, q)
	// Runs after m.Close so the controllers' bitmaps are freed.
	defer q.Drain()
	defer m.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return q.Run(ctx) })
	g.Go(func() error { return h.Run(ctx) })
	g.Go(func() error { return m.Watch(ctx, h) })
	return g.Wait()
}
