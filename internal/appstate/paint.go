package appstate

import (
	"context"
	"image"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/exp/slog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/panview/internal/render"
	"github.com/example/panview/internal/theme"
	"github.com/example/panview/internal/view"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

const emptyHint = "Press Ctrl+V to paste an image"

// paintState is an immutable snapshot handed to the paint goroutine.
type paintState struct {
	width, height int
	img           image.Image
	t             view.Transform
	vp            view.Viewport
	hasImage      bool
	status        statusLine
	hover         int
}

func themeOf(opts render.Options) *theme.Theme {
	if opts.Theme == nil {
		return theme.Default()
	}
	return opts.Theme
}

// paintInto renders a full window frame into dst.
func paintInto(ctx context.Context, dst *image.RGBA, st paintState, opts render.Options) {
	cw, ch := canvasSize(st.width, st.height)
	canvas := dst.SubImage(image.Rect(0, 0, cw, ch)).(*image.RGBA)
	render.Compose(canvas, st.img, st.t, st.vp, opts)
	if ctx.Err() != nil {
		return
	}
	th := themeOf(opts)
	if !st.hasImage {
		d := &font.Drawer{Dst: canvas, Src: image.NewUniform(th.HintText), Face: basicfont.Face7x13}
		w := d.MeasureString(emptyHint).Ceil()
		d.Dot = fixed.P((cw-w)/2, ch/2)
		d.DrawString(emptyHint)
	}
	drawBar(dst, layoutBar(st.width, st.height, st.t.Locked), st, th)
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState, opts render.Options, log *slog.Logger) {
	if st.width <= 0 || st.height <= 0 {
		return
	}
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Error("new buffer", "err", err)
		return
	}
	defer b.Release()

	paintInto(ctx, b.RGBA(), st, opts)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
