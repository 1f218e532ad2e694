package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"

	"github.com/example/panview/internal/view"
)

type infoCmd struct {
	*root
	fs *flag.FlagSet
	inputFlags
	width, height int
}

func (c *infoCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *infoCmd) Program() string { return c.root.program + " info" }

func parseInfoCmd(args []string, r *root) (*infoCmd, error) {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	c := &infoCmd{root: r, fs: fs}
	fs.SetOutput(io.Discard)
	fs.StringVar(&c.file, "file", "", "image file to inspect")
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "inspect the clipboard image")
	fs.BoolVar(&c.noFetch, "no-fetch", false, "never download image URLs found on the clipboard")
	fs.IntVar(&c.width, "width", 800, "viewport width used for the fit calculation")
	fs.IntVar(&c.height, "height", 600, "viewport height used for the fit calculation")
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{of: c}
	}
	if c.file == "" && !c.fromClipboard {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *infoCmd) Run() error {
	res, err := c.load(context.Background())
	if err != nil {
		return err
	}
	b := res.Image.Bounds()
	t := view.Fit(float64(b.Dx()), float64(b.Dy()), float64(c.width), float64(c.height), c.root.config.FitMargin)
	fmt.Fprintf(c.root.stdout, "source: %s\n", res.Source)
	fmt.Fprintf(c.root.stdout, "format: %s\n", res.Format)
	fmt.Fprintf(c.root.stdout, "size: %dx%d\n", b.Dx(), b.Dy())
	fmt.Fprintf(c.root.stdout, "fit: %d%% in %dx%d (scale %s)\n", t.ZoomPercent(), c.width, c.height, trimFloat(t.Scale))
	return nil
}

func trimFloat(f float64) string {
	return fmt.Sprintf("%g", math.Round(f*1e6)/1e6)
}
