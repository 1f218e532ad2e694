// Package viewer owns the state of one image view: the loaded raster, the
// viewport size, the view transform and the gesture in progress.
//
// A Viewer is not safe for concurrent use. All events are expected to arrive
// on a single goroutine, typically the window's event loop.
package viewer

import (
	"image"
	"io"

	"golang.org/x/exp/slog"

	"github.com/example/panview/internal/gesture"
	"github.com/example/panview/internal/view"
)

// Viewer is a single image view.
type Viewer struct {
	transform view.Transform
	gestures  gesture.Coordinator
	img       image.Image
	viewport  view.Viewport
	margin    float64
	log       *slog.Logger

	// needsFit is set when an image arrived before the viewport had a size.
	needsFit bool
}

// Option configures a Viewer during creation.
type Option func(*Viewer)

// WithViewport sets the initial viewport size in pixels.
func WithViewport(w, h float64) Option {
	return func(v *Viewer) { v.viewport = view.Viewport{Width: w, Height: h} }
}

// WithFitMargin overrides view.DefaultFitMargin.
func WithFitMargin(m float64) Option {
	return func(v *Viewer) {
		if m > 0 && m <= 1 {
			v.margin = m
		}
	}
}

// WithLogger sets the logger used for state transitions.
func WithLogger(l *slog.Logger) Option {
	return func(v *Viewer) {
		if l != nil {
			v.log = l
		}
	}
}

// New creates a Viewer with the identity transform and no image.
func New(opts ...Option) *Viewer {
	v := &Viewer{
		transform: view.Identity(),
		margin:    view.DefaultFitMargin,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Transform returns the current view transform.
func (v *Viewer) Transform() view.Transform { return v.transform }

// Viewport returns the current viewport size.
func (v *Viewer) Viewport() view.Viewport { return v.viewport }

// Image returns the installed raster, or nil.
func (v *Viewer) Image() image.Image { return v.img }

// HasImage reports whether a raster is installed.
func (v *Viewer) HasImage() bool { return v.img != nil }

// Locked reports whether interaction is disabled.
func (v *Viewer) Locked() bool { return v.transform.Locked }

// ZoomPercent is the rounded zoom for display.
func (v *Viewer) ZoomPercent() int { return v.transform.ZoomPercent() }

// Gesturing reports whether any contact is active.
func (v *Viewer) Gesturing() bool { return v.gestures.Active() }

// Install replaces the raster and fits it to the viewport. The lock flag is
// kept. A nil image is ignored.
func (v *Viewer) Install(img image.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	v.img = img
	v.gestures.Reset()
	v.refit()
	v.log.Info("image installed", "width", b.Dx(), "height", b.Dy(), "zoom", v.ZoomPercent())
}

// Resize updates the viewport. The first non-empty size after an install
// fits the image.
func (v *Viewer) Resize(w, h float64) bool {
	vp := view.Viewport{Width: w, Height: h}
	if vp == v.viewport {
		return false
	}
	v.viewport = vp
	if v.needsFit && v.img != nil && !vp.Empty() {
		v.refit()
	}
	return true
}

func (v *Viewer) refit() {
	if v.viewport.Empty() {
		v.needsFit = true
		locked := v.transform.Locked
		v.transform = view.Identity()
		v.transform.Locked = locked
		return
	}
	v.needsFit = false
	b := v.img.Bounds()
	locked := v.transform.Locked
	v.transform = view.Fit(float64(b.Dx()), float64(b.Dy()), v.viewport.Width, v.viewport.Height, v.margin)
	v.transform.Locked = locked
}

func (v *Viewer) interactive() bool {
	return v.img != nil && !v.transform.Locked
}

// Apply runs one event through the viewer and reports whether a redraw is
// needed. Events that cannot apply in the current state are ignored.
func (v *Viewer) Apply(ev Event) bool {
	switch ev.Kind {
	case KindBegin:
		if !v.interactive() {
			return false
		}
		v.gestures.Begin(ev.ID, ev.Pos, v.transform)
		return false
	case KindMove:
		if v.img == nil {
			return false
		}
		return v.gestures.Move(ev.ID, ev.Pos, &v.transform)
	case KindEnd, KindCancel:
		v.gestures.End(ev.ID, v.transform)
		return false
	case KindWheel:
		if !v.interactive() {
			return false
		}
		return v.rebased(v.transform.ZoomAt(ev.Pos, v.viewport, gesture.WheelFactor(ev.DeltaY)))
	case KindZoom:
		if !v.interactive() {
			return false
		}
		return v.rebased(v.transform.SetScale(ev.Value))
	case KindRotate:
		if !v.interactive() || ev.Sign == 0 {
			return false
		}
		step := view.RotateStep
		if ev.Sign < 0 {
			step = -step
		}
		return v.rebased(v.transform.RotateBy(step))
	case KindFit:
		if !v.interactive() {
			return false
		}
		before := v.transform
		v.refit()
		return v.rebased(before != v.transform)
	case KindLock:
		return v.setLocked(ev.Locked)
	case KindToggleLock:
		return v.setLocked(!v.transform.Locked)
	}
	v.log.Debug("ignored event", "kind", ev.Kind)
	return false
}

// rebased keeps an active gesture anchored to a transform changed outside it.
func (v *Viewer) rebased(changed bool) bool {
	if changed {
		v.gestures.Rebase(v.transform)
	}
	return changed
}

func (v *Viewer) setLocked(locked bool) bool {
	if v.transform.Locked == locked {
		return false
	}
	v.transform.SetLocked(locked)
	if !locked {
		// Contacts kept moving while locked; measure deltas from here on.
		v.gestures.Rebase(v.transform)
	}
	v.log.Debug("lock changed", "locked", locked)
	return true
}
