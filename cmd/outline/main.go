// Outline renders the minimap strip of source files.
//
//	outline [-c config] [-o dir] [-W WxH] [-w] file...
//	outline -acme [-o dir]
//	outline -view file
//
// By default one PNG per file is written to dir. With -w the files are
// watched and the PNGs rewritten as they change. With -acme every window of
// a running acme is outlined. With -view the file is shown in a window with
// its outline along the right edge.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"

	"github.com/rjkroege/outline/config"
	"github.com/rjkroege/outline/render"
	"github.com/rjkroege/outline/textprint"
	"github.com/rjkroege/outline/theme"
)

var configflag = flag.String("c", "", "TOML configuration file")
var outdirflag = flag.String("o", ".", "Directory PNGs are written to")
var winsize = flag.String("W", "1024x768", "Editor size (WidthxHeight)")
var watchflag = flag.Bool("w", false, "Watch the files and rewrite PNGs on change")
var acmeflag = flag.Bool("acme", false, "Outline the windows of a running acme")
var viewflag = flag.Bool("view", false, "Show the file in a window with its outline")
var sizeflag = flag.Float64("s", textprint.DefaultSize, "Font size in points")
var darkflag = flag.Bool("dark", false, "Dark colours")
var debug = flag.Bool("d", false, "set for verbose debugging")

func usage() {
	fmt.Fprintf(os.Stderr, "usage: outline [flags] file...\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	flag.Usage = usage
	flag.Parse()

	log.SetPrefix("outline: ")
	log.SetFlags(0)
	if *debug {
		log.SetFlags(log.Ltime | log.Lshortfile)
	}
	theme.SetDarkMode(*darkflag)

	cfg, err := config.Load(*configflag)
	if err != nil {
		log.Fatalf("%v", err)
	}
	bounds, err := parseWinsize(*winsize)
	if err != nil {
		log.Fatalf("%v", err)
	}
	printer, err := textprint.New(textprint.WithSize(*sizeflag))
	if err != nil {
		log.Fatalf("%v", err)
	}
	r := render.New(cfg, printer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case *acmeflag:
		err = runAcme(ctx, cfg, r, bounds, *outdirflag)
	case *viewflag:
		if flag.NArg() != 1 {
			usage()
		}
		err = runView(ctx, cfg, r, flag.Arg(0))
	default:
		if flag.NArg() == 0 {
			usage()
		}
		err = runFiles(ctx, cfg, r, bounds, flag.Args(), *outdirflag, *watchflag)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("%v", err)
	}
}

// parseWinsize parses a WidthxHeight string into a rectangle at the origin.
func parseWinsize(s string) (image.Rectangle, error) {
	var w, h int
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil {
		return image.Rectangle{}, fmt.Errorf("bad window size %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, fmt.Errorf("bad window size %q", s)
	}
	return image.Rect(0, 0, w, h), nil
}
