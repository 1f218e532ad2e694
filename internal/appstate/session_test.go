package appstate

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"

	"github.com/example/panview/internal/clipboard"
	"github.com/example/panview/internal/importer"
)

type fakeClip struct {
	data []byte
	err  error
}

func (f fakeClip) ReadImage() ([]byte, error) { return f.data, f.err }
func (f fakeClip) ReadHTML() (string, error) { return "", f.err }
func (f fakeClip) ReadText() (string, error) { return "", f.err }

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// newTestSession returns a session whose imports run synchronously.
func newTestSession(t *testing.T, opts ...Option) *session {
	t.Helper()
	a := New(opts...)
	var s *session
	s = a.newSession(func(req loadRequest) {
		res, err := req.fn(context.Background())
		s.handle(loadedEvent{kind: req.kind, res: res, err: err})
	})
	s.handle(size.Event{WidthPx: 800, HeightPx: 600 + barHeight})
	return s
}

func press(r rune) key.Event { return key.Event{Rune: r, Direction: key.DirPress} }

func TestSessionInitialImageFits(t *testing.T) {
	res, err := importer.FromBytes(encodePNG(t, 400, 300), "test")
	if err != nil {
		t.Fatal(err)
	}
	a := New(WithImage(res))
	s := a.newSession(func(loadRequest) { t.Fatal("unexpected load") })
	a.begin(s)
	s.handle(size.Event{WidthPx: 800, HeightPx: 600 + barHeight})

	if got := s.v.ZoomPercent(); got != 190 {
		t.Errorf("zoom = %d%%, want 190%%", got)
	}
	if s.status.text != "190%" {
		t.Errorf("status = %q", s.status.text)
	}
}

func TestSessionPaste(t *testing.T) {
	s := newTestSession(t, WithClipboard(fakeClip{data: encodePNG(t, 400, 300)}))
	if !s.handle(key.Event{Rune: 'v', Code: key.CodeV, Modifiers: key.ModControl, Direction: key.DirPress}) {
		t.Fatal("paste should request a repaint")
	}
	if !s.v.HasImage() {
		t.Fatal("pasted image not installed")
	}
	if s.status.text != "190%" {
		t.Errorf("status = %q", s.status.text)
	}
}

func TestSessionPasteFailures(t *testing.T) {
	tests := []struct {
		name string
		clip importer.Source
		want string
	}{
		{"empty", fakeClip{}, msgNoClipboard},
		{"no display", fakeClip{err: clipboard.ErrUnavailable}, msgClipboardDown},
		{"undecodable", fakeClip{data: []byte("junk")}, msgNoClipboard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, WithClipboard(tt.clip))
			s.do(actPaste)
			if s.status.text != tt.want || !s.status.alert {
				t.Errorf("status = %+v, want alert %q", s.status, tt.want)
			}
			if s.v.HasImage() {
				t.Error("no image should be installed")
			}
		})
	}
}

func TestFailureStatus(t *testing.T) {
	if got := failureStatus(loadPaste, clipboard.ErrUnavailable); got.text != msgClipboardDown {
		t.Errorf("unavailable clipboard = %q", got.text)
	}
	if got := failureStatus(loadPaste, importer.ErrNoImage); got.text != msgNoClipboard {
		t.Errorf("empty clipboard = %q", got.text)
	}
	if got := failureStatus(loadFile, errors.New("eof")); got.text != msgLoadFailed {
		t.Errorf("file failure = %q", got.text)
	}
}

func TestSessionLockedPasteAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	if err := os.WriteFile(path, encodePNG(t, 100, 100), 0o644); err != nil {
		t.Fatal(err)
	}
	s := newTestSession(t, WithFile(path), WithClipboard(fakeClip{data: encodePNG(t, 10, 10)}))
	s.openFile(path)
	if !s.v.HasImage() {
		t.Fatal("file not loaded")
	}
	first := s.v.Image()

	s.handle(press('l'))
	if s.status.text != msgLocked {
		t.Errorf("status after lock = %q", s.status.text)
	}
	s.do(actPaste)
	if s.status.text != msgUnlockToPaste {
		t.Errorf("status = %q, want %q", s.status.text, msgUnlockToPaste)
	}
	s.do(actReload)
	if s.status.text != msgUnlockToImport {
		t.Errorf("status = %q, want %q", s.status.text, msgUnlockToImport)
	}
	if s.v.Image() != first {
		t.Error("locked viewer must keep its image")
	}

	s.handle(press('l'))
	if want := zoomStatus(s.v.ZoomPercent()).text; s.status.text != want {
		t.Errorf("status after unlock = %q, want %q", s.status.text, want)
	}
	s.do(actReload)
	if s.v.Image() == first {
		t.Error("reload should install a fresh decode")
	}
}

func TestSessionReloadWithoutFile(t *testing.T) {
	s := newTestSession(t)
	s.do(actReload)
	if s.status.text != msgNothingToLoad {
		t.Errorf("status = %q", s.status.text)
	}
}

func TestSessionFailedFileKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	if err := os.WriteFile(good, encodePNG(t, 50, 50), 0o644); err != nil {
		t.Fatal(err)
	}
	s := newTestSession(t)
	s.openFile(good)
	before := s.v.Transform()
	s.openFile(filepath.Join(dir, "missing.png"))
	if s.status.text != msgLoadFailed {
		t.Errorf("status = %q", s.status.text)
	}
	if s.v.Transform() != before || !s.v.HasImage() {
		t.Error("failed load must leave state untouched")
	}
}

func TestSessionMouseDragPans(t *testing.T) {
	res, _ := importer.FromBytes(encodePNG(t, 400, 300), "test")
	s := newTestSession(t)
	s.loaded(loadedEvent{res: res})
	start := s.v.Transform().Offset

	s.handle(mouse.Event{X: 100, Y: 100, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	s.handle(mouse.Event{X: 130, Y: 90, Direction: mouse.DirNone})
	s.handle(mouse.Event{X: 130, Y: 90, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})

	got := s.v.Transform().Offset
	if got.X-start.X != 30 || got.Y-start.Y != -10 {
		t.Errorf("offset moved by (%v,%v), want (30,-10)", got.X-start.X, got.Y-start.Y)
	}
	if s.v.Gesturing() {
		t.Error("gesture should be idle after release")
	}
}

func TestSessionWheelUpdatesStatus(t *testing.T) {
	res, _ := importer.FromBytes(encodePNG(t, 400, 300), "test")
	s := newTestSession(t)
	s.loaded(loadedEvent{res: res})
	s.handle(mouse.Event{X: 200, Y: 200, Button: mouse.ButtonWheelUp, Direction: mouse.DirStep})
	if s.v.ZoomPercent() <= 190 {
		t.Errorf("wheel up should zoom in, got %d%%", s.v.ZoomPercent())
	}
	if want := zoomStatus(s.v.ZoomPercent()).text; s.status.text != want {
		t.Errorf("status = %q, want %q", s.status.text, want)
	}
}

func TestSessionPinch(t *testing.T) {
	res, _ := importer.FromBytes(encodePNG(t, 400, 300), "test")
	s := newTestSession(t)
	s.loaded(loadedEvent{res: res})
	scale := s.v.Transform().Scale

	s.handle(touch.Event{X: 300, Y: 300, Sequence: 0, Type: touch.TypeBegin})
	s.handle(touch.Event{X: 400, Y: 300, Sequence: 1, Type: touch.TypeBegin})
	s.handle(touch.Event{X: 500, Y: 300, Sequence: 1, Type: touch.TypeMove})
	if got := s.v.Transform().Scale; got != doubled(scale) {
		t.Errorf("scale = %v, want %v", got, doubled(scale))
	}
	s.handle(touch.Event{Sequence: 0, Type: touch.TypeEnd})
	s.handle(touch.Event{Sequence: 1, Type: touch.TypeEnd})
	if s.v.Gesturing() {
		t.Error("gesture should be idle")
	}
}

// doubled doubles a scale, clamping like the transform does.
func doubled(s float64) float64 {
	if s*2 > 8 {
		return 8
	}
	return s * 2
}

func TestSessionBarButtonsAndSlider(t *testing.T) {
	res, _ := importer.FromBytes(encodePNG(t, 400, 300), "test")
	s := newTestSession(t)
	s.loaded(loadedEvent{res: res})
	b := s.bar()

	click := func(p image.Point) {
		s.handle(mouse.Event{X: float32(p.X), Y: float32(p.Y), Button: mouse.ButtonLeft, Direction: mouse.DirPress})
		s.handle(mouse.Event{X: float32(p.X), Y: float32(p.Y), Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	}
	center := func(r image.Rectangle) image.Point { return r.Min.Add(r.Size().Div(2)) }

	click(center(b.widgets[3].rect)) // Rot+
	if s.v.Transform().Rotation == 0 {
		t.Error("rotate button had no effect")
	}
	if s.v.Gesturing() {
		t.Error("bar clicks must not start a gesture")
	}
	click(center(b.widgets[1].rect)) // Fit
	if s.v.Transform().Rotation != 0 {
		t.Error("fit should reset rotation")
	}

	p := image.Pt(b.slider.Max.X, center(b.slider).Y)
	click(p)
	if got := s.v.ZoomPercent(); got != 800 {
		t.Errorf("slider right end zoom = %d%%, want 800%%", got)
	}

	click(center(b.widgets[4].rect)) // Lock
	if !s.v.Locked() {
		t.Fatal("lock button should lock")
	}
	click(center(s.bar().slider))
	if got := s.v.ZoomPercent(); got != 800 {
		t.Errorf("locked slider changed zoom to %d%%", got)
	}
}

func TestSessionQuit(t *testing.T) {
	s := newTestSession(t)
	s.handle(press('q'))
	if !s.quit {
		t.Error("q should quit")
	}
}

func TestSessionLastCompletionWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.png")
	if err := os.WriteFile(path, encodePNG(t, 400, 300), 0o644); err != nil {
		t.Fatal(err)
	}
	a := New(WithFile(path), WithClipboard(fakeClip{data: encodePNG(t, 200, 100)}))
	var queued []loadRequest
	s := a.newSession(func(req loadRequest) { queued = append(queued, req) })
	s.handle(size.Event{WidthPx: 800, HeightPx: 600 + barHeight})

	s.do(actReload)
	s.do(actPaste)
	if len(queued) != 2 {
		t.Fatalf("queued %d loads, want 2", len(queued))
	}
	if s.v.HasImage() {
		t.Fatal("nothing should be installed before a load completes")
	}

	// The paste finishes first, then the older file load arrives.
	for _, i := range []int{1, 0} {
		res, err := queued[i].fn(context.Background())
		s.handle(loadedEvent{kind: queued[i].kind, res: res, err: err})
	}
	if got := s.v.Image().Bounds(); got != image.Rect(0, 0, 400, 300) {
		t.Errorf("installed %v, want the last delivered 400x300 image", got)
	}
	if got := s.v.ZoomPercent(); got != 190 {
		t.Errorf("zoom = %d%%, want the fit of the last image (190%%)", got)
	}

	// Back to back in request order the paste lands last.
	s.handle(loadedEvent{kind: loadFile, res: mustResult(t, queued[0])})
	s.handle(loadedEvent{kind: loadPaste, res: mustResult(t, queued[1])})
	if got := s.v.Image().Bounds(); got != image.Rect(0, 0, 200, 100) {
		t.Errorf("installed %v, want the 200x100 paste", got)
	}
}

func mustResult(t *testing.T, req loadRequest) importer.Result {
	t.Helper()
	res, err := req.fn(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return res
}
