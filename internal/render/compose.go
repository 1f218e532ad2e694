// Package render composites a raster into a viewport under a view transform.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sort"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/example/panview/internal/theme"
	"github.com/example/panview/internal/view"
)

// CheckerSize is the edge length of one backdrop square in pixels.
const CheckerSize = 8

var interpolators = map[string]xdraw.Interpolator{
	"nearest":    xdraw.NearestNeighbor,
	"approx":     xdraw.ApproxBiLinear,
	"bilinear":   xdraw.BiLinear,
	"catmullrom": xdraw.CatmullRom,
}

// Interpolation returns the interpolator registered under name. The empty
// name selects bilinear.
func Interpolation(name string) (xdraw.Interpolator, error) {
	if name == "" {
		name = "bilinear"
	}
	in, ok := interpolators[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown interpolation %q (want one of %s)", name, strings.Join(InterpolationNames(), ", "))
	}
	return in, nil
}

// InterpolationNames lists the accepted interpolation names.
func InterpolationNames() []string {
	names := make([]string, 0, len(interpolators))
	for n := range interpolators {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Options controls how a frame is composited.
type Options struct {
	Interpolator xdraw.Interpolator // nil means bilinear
	Theme        *theme.Theme       // nil means theme.Default
	Flat         bool               // fill with Theme.Background instead of a checkerboard
}

func (o Options) theme() *theme.Theme {
	if o.Theme == nil {
		return theme.Default()
	}
	return o.Theme
}

// Backdrop fills r of dst with the theme background.
func Backdrop(dst draw.Image, r image.Rectangle, opts Options) {
	th := opts.theme()
	if opts.Flat {
		draw.Draw(dst, r, image.NewUniform(th.Background), image.Point{}, draw.Src)
		return
	}
	light, dark := image.NewUniform(th.CheckerLight), image.NewUniform(th.CheckerDark)
	for y := r.Min.Y; y < r.Max.Y; y += CheckerSize - mod(y, CheckerSize) {
		for x := r.Min.X; x < r.Max.X; x += CheckerSize - mod(x, CheckerSize) {
			cell := image.Rect(x, y, x+CheckerSize-mod(x, CheckerSize), y+CheckerSize-mod(y, CheckerSize)).Intersect(r)
			src := light
			if (x/CheckerSize+y/CheckerSize)%2 != 0 {
				src = dark
			}
			draw.Draw(dst, cell, src, image.Point{}, draw.Src)
		}
	}
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// Compose paints the backdrop over vp and draws src into dst under t. The
// viewport origin is dst.Bounds().Min.
func Compose(dst draw.Image, src image.Image, t view.Transform, vp view.Viewport, opts Options) {
	origin := dst.Bounds().Min
	area := image.Rect(0, 0, int(vp.Width), int(vp.Height)).Add(origin).Intersect(dst.Bounds())
	Backdrop(dst, area, opts)
	if src == nil || area.Empty() {
		return
	}
	interp := opts.Interpolator
	if interp == nil {
		interp = xdraw.BiLinear
	}
	m := t.Aff3(src.Bounds(), vp)
	m[2] += float64(origin.X)
	m[5] += float64(origin.Y)
	interp.Transform(restrict(dst, area), m, src, src.Bounds(), xdraw.Over, nil)
}

// restrict limits drawing to r. Sub-imaging keeps xdraw's fast paths for the
// concrete image types.
func restrict(dst draw.Image, r image.Rectangle) draw.Image {
	if r == dst.Bounds() {
		return dst
	}
	if s, ok := dst.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		if sub, ok := s.SubImage(r).(draw.Image); ok {
			return sub
		}
	}
	return clipped{Image: dst, r: r}
}

// Frame renders src into a new w x h RGBA image.
func Frame(src image.Image, t view.Transform, w, h int, opts Options) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	Compose(dst, src, t, view.Viewport{Width: float64(w), Height: float64(h)}, opts)
	return dst
}

// clipped restricts a draw.Image without SubImage support.
type clipped struct {
	draw.Image
	r image.Rectangle
}

func (c clipped) Bounds() image.Rectangle { return c.r }

func (c clipped) Set(x, y int, col color.Color) {
	if image.Pt(x, y).In(c.r) {
		c.Image.Set(x, y, col)
	}
}
