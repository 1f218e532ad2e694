package viewer

import (
	"image"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/example/panview/internal/view"
)

var approx = cmpopts.EquateApprox(1e-9, 1e-9)

func newLoaded(t *testing.T) *Viewer {
	t.Helper()
	v := New(WithViewport(800, 600))
	v.Install(image.NewRGBA(image.Rect(0, 0, 400, 300)))
	return v
}

func TestInstallFits(t *testing.T) {
	v := newLoaded(t)
	want := view.Transform{Scale: 1.9}
	if diff := cmp.Diff(want, v.Transform(), approx); diff != "" {
		t.Fatalf("fitted transform (-want +got):\n%s", diff)
	}
	if v.ZoomPercent() != 190 {
		t.Fatalf("ZoomPercent = %d", v.ZoomPercent())
	}
}

func TestInstallBeforeViewportFitsOnResize(t *testing.T) {
	v := New()
	v.Install(image.NewRGBA(image.Rect(0, 0, 400, 300)))
	if v.Transform() != view.Identity() {
		t.Fatalf("expected identity before sizing, got %+v", v.Transform())
	}
	v.Resize(600, 600)
	if !scalar.EqualWithinRel(v.Transform().Scale, 1.425, 1e-12) {
		t.Fatalf("expected fitted scale 1.425 after resize, got %v", v.Transform().Scale)
	}
	// Later resizes keep the user's view.
	v.Apply(Zoom(2))
	v.Resize(300, 300)
	if v.Transform().Scale != 2 {
		t.Fatalf("resize refit an established view: %+v", v.Transform())
	}
}

func TestNoImageIgnoresEverything(t *testing.T) {
	v := New(WithViewport(100, 100))
	events := []Event{Begin(1, 5, 5), Move(1, 50, 50), Wheel(10, 10, -100), Zoom(3), Rotate(1), Fit(), End(1)}
	for _, ev := range events {
		if v.Apply(ev) {
			t.Errorf("%v requested redraw without an image", ev.Kind)
		}
	}
	if v.Transform() != view.Identity() {
		t.Fatalf("transform changed without image: %+v", v.Transform())
	}
}

func TestLockBlocksMutation(t *testing.T) {
	v := newLoaded(t)
	v.Apply(Begin(1, 100, 100))
	v.Apply(Move(1, 150, 120))
	if !v.Apply(Lock(true)) {
		t.Fatal("locking should request a redraw")
	}
	locked := v.Transform()

	events := []Event{
		Move(1, 400, 400),
		Begin(2, 10, 10),
		Move(2, 600, 10),
		Wheel(10, 10, -500),
		Wheel(700, 500, 250),
		Zoom(5),
		Rotate(-1),
		Rotate(1),
		Fit(),
		End(1),
		Begin(3, 1, 1),
		Move(3, 2, 2),
	}
	for _, ev := range events {
		v.Apply(ev)
		got := v.Transform()
		if got.Scale != locked.Scale || got.Rotation != locked.Rotation || got.Offset != locked.Offset {
			t.Fatalf("%v changed a locked view: %+v -> %+v", ev.Kind, locked, got)
		}
	}

	v.Apply(ToggleLock())
	if v.Locked() {
		t.Fatal("expected unlocked")
	}
	if !v.Apply(Zoom(2)) {
		t.Fatal("zoom should apply after unlock")
	}
}

func TestUnlockMidGestureDoesNotJump(t *testing.T) {
	v := newLoaded(t)
	v.Apply(Begin(1, 100, 100))
	v.Apply(Lock(true))
	v.Apply(Move(1, 300, 300))
	v.Apply(Lock(false))
	before := v.Transform()
	v.Apply(Move(1, 310, 300))
	want := r2.Add(before.Offset, r2.Vec{X: 10})
	if diff := cmp.Diff(want, v.Transform().Offset, approx); diff != "" {
		t.Fatalf("offset after unlock (-want +got):\n%s", diff)
	}
}

func TestDiscreteRotateAccumulates(t *testing.T) {
	v := newLoaded(t)
	before := v.Transform()
	for i := 0; i < 3; i++ {
		if !v.Apply(Rotate(-1)) {
			t.Fatalf("rotate %d did not apply", i)
		}
	}
	got := v.Transform()
	if !scalar.EqualWithinAbs(got.Rotation, -3*math.Pi/18, 1e-12) {
		t.Fatalf("rotation = %v, want %v", got.Rotation, -3*math.Pi/18)
	}
	if got.Scale != before.Scale || got.Offset != before.Offset {
		t.Fatalf("rotate changed scale/offset: %+v", got)
	}
	if v.Apply(Rotate(0)) {
		t.Fatal("signless rotate should be ignored")
	}
}

func TestWheelKeepsPointUnderCursor(t *testing.T) {
	v := newLoaded(t)
	v.Apply(Rotate(1))
	v.Apply(Begin(1, 0, 0))
	v.Apply(Move(1, 40, -25))
	v.Apply(End(1))

	p := r2.Vec{X: 612, Y: 97}
	before := v.Transform().ToWorld(p, v.Viewport())
	if !v.Apply(Wheel(p.X, p.Y, -120)) {
		t.Fatal("wheel did not zoom")
	}
	after := v.Transform().ToWorld(p, v.Viewport())
	if diff := cmp.Diff(before, after, approx); diff != "" {
		t.Fatalf("world point under cursor moved (-want +got):\n%s", diff)
	}
}

func TestWheelDuringGestureRebases(t *testing.T) {
	v := newLoaded(t)
	v.Apply(Begin(1, 100, 100))
	v.Apply(Wheel(100, 100, -300))
	zoomed := v.Transform()
	v.Apply(Move(1, 100, 100))
	if diff := cmp.Diff(zoomed, v.Transform(), approx); diff != "" {
		t.Fatalf("gesture undid wheel zoom (-want +got):\n%s", diff)
	}
}

func TestSliderZoomSetsClampedScale(t *testing.T) {
	v := newLoaded(t)
	v.Apply(Rotate(1))
	before := v.Transform()
	v.Apply(Zoom(20))
	got := v.Transform()
	if got.Scale != view.MaxScale {
		t.Fatalf("scale = %v", got.Scale)
	}
	if got.Rotation != before.Rotation || got.Offset != before.Offset {
		t.Fatalf("slider changed rotation/offset: %+v", got)
	}
}

func TestFitResetsView(t *testing.T) {
	v := newLoaded(t)
	fitted := v.Transform()
	v.Apply(Rotate(1))
	v.Apply(Zoom(3))
	if !v.Apply(Fit()) {
		t.Fatal("fit should change the view")
	}
	if diff := cmp.Diff(fitted, v.Transform(), approx); diff != "" {
		t.Fatalf("fit (-want +got):\n%s", diff)
	}
	if v.Apply(Fit()) {
		t.Fatal("second fit should be a no-op")
	}
}

func TestInstallKeepsLock(t *testing.T) {
	v := newLoaded(t)
	v.Apply(Lock(true))
	v.Install(image.NewRGBA(image.Rect(0, 0, 100, 100)))
	if !v.Locked() {
		t.Fatal("install cleared the lock")
	}
	if v.Gesturing() {
		t.Fatal("install should clear contacts")
	}
}

func TestKindString(t *testing.T) {
	if KindToggleLock.String() != "toggle-lock" {
		t.Fatalf("unexpected name %q", KindToggleLock.String())
	}
	if Kind(99).String() != "kind(99)" {
		t.Fatalf("unexpected name %q", Kind(99).String())
	}
}
