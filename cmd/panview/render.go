package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/example/panview/internal/render"
	"github.com/example/panview/internal/view"
)

type renderCmd struct {
	*root
	fs *flag.FlagSet
	inputFlags
	output        string
	width, height int
	zoom          float64
	rotate        float64
	panX, panY    float64
	interp        string
	flat          bool
}

func (c *renderCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *renderCmd) Program() string { return c.root.program + " render" }

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	c := &renderCmd{root: r, fs: fs}
	fs.SetOutput(io.Discard)
	fs.StringVar(&c.file, "file", "", "image file to render")
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "render the clipboard image")
	fs.BoolVar(&c.noFetch, "no-fetch", false, "never download image URLs found on the clipboard")
	fs.StringVar(&c.output, "output", "", "output file (.png, .jpg, .bmp, .tif) or - for PNG on stdout")
	fs.IntVar(&c.width, "width", 800, "viewport width in pixels")
	fs.IntVar(&c.height, "height", 600, "viewport height in pixels")
	fs.Float64Var(&c.zoom, "zoom", 0, "scale factor (0 fits the image to the viewport)")
	fs.Float64Var(&c.rotate, "rotate", 0, "rotation in degrees, clockwise")
	fs.Float64Var(&c.panX, "pan-x", 0, "horizontal offset in pixels")
	fs.Float64Var(&c.panY, "pan-y", 0, "vertical offset in pixels")
	fs.StringVar(&c.interp, "interp", "", "interpolation: approx, bilinear, catmullrom, nearest")
	fs.BoolVar(&c.flat, "flat", false, "use a flat background instead of a checkerboard")
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{of: c}
	}
	if c.output == "" || (c.file == "" && !c.fromClipboard) {
		return nil, &UsageError{of: c}
	}
	if c.width <= 0 || c.height <= 0 {
		return nil, fmt.Errorf("viewport must be positive, got %dx%d", c.width, c.height)
	}
	if c.zoom < 0 {
		return nil, fmt.Errorf("-zoom must not be negative")
	}
	return c, nil
}

// transform builds the view for the decoded image from the flags.
func (c *renderCmd) transform(bounds image.Rectangle) view.Transform {
	var t view.Transform
	if c.zoom == 0 {
		t = view.Fit(float64(bounds.Dx()), float64(bounds.Dy()), float64(c.width), float64(c.height), c.root.config.FitMargin)
	} else {
		t = view.Identity()
		t.SetScale(c.zoom)
	}
	t.RotateBy(c.rotate * math.Pi / 180)
	t.Offset = r2.Vec{X: c.panX, Y: c.panY}
	return t
}

func (c *renderCmd) Run() error {
	opts, err := c.root.renderOptions(c.interp, c.flat)
	if err != nil {
		return err
	}
	res, err := c.load(context.Background())
	if err != nil {
		c.root.notifier.Failed(err)
		return err
	}
	t := c.transform(res.Image.Bounds())
	c.root.log.Debug("render", "source", res.Source, "scale", t.Scale, "rotation", t.Rotation, "offset", t.Offset)
	out := render.Frame(res.Image, t, c.width, c.height, opts)

	if c.output == "-" {
		return png.Encode(c.root.stdout, out)
	}
	f, err := os.Create(c.output)
	if err != nil {
		return fmt.Errorf("create %s: %w", c.output, err)
	}
	if err := encode(f, c.output, out); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", c.output, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", c.output, err)
	}
	c.root.log.Info("rendered", "output", c.output, "zoom", t.ZoomPercent())
	return nil
}

// encode picks the format from the file extension, defaulting to PNG.
func encode(w io.Writer, name string, img image.Image) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 92})
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return png.Encode(w, img)
	}
}
