package appstate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/panview/internal/theme"
	"github.com/example/panview/internal/view"
)

const (
	barHeight    = 28
	buttonPad    = 8
	buttonGap    = 4
	sliderWidth  = 160
	sliderHandle = 6
)

type control int

const (
	ctrlNone control = iota
	ctrlPaste
	ctrlFit
	ctrlRotateLeft
	ctrlRotateRight
	ctrlLock
	ctrlSlider
)

func (c control) action() action {
	switch c {
	case ctrlPaste:
		return actPaste
	case ctrlFit:
		return actFit
	case ctrlRotateLeft:
		return actRotateLeft
	case ctrlRotateRight:
		return actRotateRight
	case ctrlLock:
		return actToggleLock
	}
	return actNone
}

type widget struct {
	ctrl  control
	label string
	rect  image.Rectangle
}

// bar is the bottom chrome: buttons, the zoom slider and the status line.
type bar struct {
	rect    image.Rectangle
	widgets []widget
	slider  image.Rectangle
	status  image.Point // baseline origin of the status text
}

func textWidth(s string) int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	return d.MeasureString(s).Ceil()
}

// canvasSize is the viewport left over once the bar is reserved.
func canvasSize(width, height int) (int, int) {
	h := height - barHeight
	if h < 0 {
		h = 0
	}
	return width, h
}

func layoutBar(width, height int, locked bool) bar {
	top := height - barHeight
	if top < 0 {
		top = 0
	}
	b := bar{rect: image.Rect(0, top, width, height)}
	lockLabel := "Lock"
	if locked {
		lockLabel = "Unlock"
	}
	x := buttonGap
	for _, w := range []widget{
		{ctrl: ctrlPaste, label: "Paste"},
		{ctrl: ctrlFit, label: "Fit"},
		{ctrl: ctrlRotateLeft, label: "Rot-"},
		{ctrl: ctrlRotateRight, label: "Rot+"},
		{ctrl: ctrlLock, label: lockLabel},
	} {
		bw := textWidth(w.label) + 2*buttonPad
		w.rect = image.Rect(x, top+4, x+bw, height-4)
		b.widgets = append(b.widgets, w)
		x += bw + buttonGap
	}
	x += buttonGap
	b.slider = image.Rect(x, top+6, x+sliderWidth, height-6)
	x += sliderWidth + 2*buttonGap
	b.status = image.Pt(x, top+barHeight/2+5)
	return b
}

func (b bar) hit(p image.Point) control {
	if !p.In(b.rect) {
		return ctrlNone
	}
	for _, w := range b.widgets {
		if p.In(w.rect) {
			return w.ctrl
		}
	}
	if p.In(b.slider.Inset(-2)) {
		return ctrlSlider
	}
	return ctrlNone
}

// sliderScale maps an x position on the slider track to a scale. The track is
// logarithmic so 100% sits near the middle of the [MinScale, MaxScale] range.
func sliderScale(track image.Rectangle, x int) float64 {
	w := track.Dx()
	if w <= 0 {
		return view.MinScale
	}
	f := float64(x-track.Min.X) / float64(w)
	f = math.Max(0, math.Min(1, f))
	lo, hi := math.Log(view.MinScale), math.Log(view.MaxScale)
	return math.Exp(lo + f*(hi-lo))
}

// sliderX is the inverse of sliderScale.
func sliderX(track image.Rectangle, scale float64) int {
	scale = view.ClampScale(scale)
	lo, hi := math.Log(view.MinScale), math.Log(view.MaxScale)
	f := (math.Log(scale) - lo) / (hi - lo)
	return track.Min.X + int(math.Round(f*float64(track.Dx())))
}

func drawBar(dst *image.RGBA, b bar, st paintState, th *theme.Theme) {
	draw.Draw(dst, b.rect, image.NewUniform(th.StatusBackground), image.Point{}, draw.Src)
	for i, w := range b.widgets {
		bg := th.StatusBackground
		if i == st.hover {
			bg = th.CheckerDark
		}
		if w.ctrl == ctrlLock && st.t.Locked {
			bg = th.StatusAccent
		}
		draw.Draw(dst, w.rect, image.NewUniform(bg), image.Point{}, draw.Src)
		drawOutline(dst, w.rect, th.StatusText)
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.StatusText), Face: basicfont.Face7x13,
			Dot: fixed.P(w.rect.Min.X+buttonPad, w.rect.Min.Y+w.rect.Dy()/2+4)}
		d.DrawString(w.label)
	}

	track := b.slider
	mid := track.Min.Y + track.Dy()/2
	draw.Draw(dst, image.Rect(track.Min.X, mid-1, track.Max.X, mid+1), image.NewUniform(th.StatusText), image.Point{}, draw.Src)
	hx := sliderX(track, st.t.Scale)
	handle := image.Rect(hx-sliderHandle/2, track.Min.Y, hx+sliderHandle/2, track.Max.Y)
	col := th.StatusText
	if !st.hasImage || st.t.Locked {
		col = th.HintText
	}
	draw.Draw(dst, handle, image.NewUniform(col), image.Point{}, draw.Src)

	text := th.StatusText
	if st.status.alert {
		text = th.StatusAccent
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(text), Face: basicfont.Face7x13, Dot: fixed.P(b.status.X, b.status.Y)}
	d.DrawString(st.status.text)

	info := fmt.Sprintf("%d%%  %d°", st.t.ZoomPercent(), int(math.Round(st.t.DisplayRotation()*180/math.Pi)))
	iw := textWidth(info)
	if ix := b.rect.Max.X - iw - buttonPad; ix > d.Dot.X.Ceil()+buttonPad {
		d = &font.Drawer{Dst: dst, Src: image.NewUniform(th.StatusText), Face: basicfont.Face7x13, Dot: fixed.P(ix, b.status.Y)}
		d.DrawString(info)
	}
}

func drawOutline(dst *image.RGBA, r image.Rectangle, col color.Color) {
	u := image.NewUniform(col)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}
