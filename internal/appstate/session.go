package appstate

import (
	"context"
	"image"

	"golang.org/x/exp/slog"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"

	"github.com/example/panview/internal/importer"
	"github.com/example/panview/internal/notify"
	"github.com/example/panview/internal/viewer"
)

type loadKind int

const (
	loadFile loadKind = iota
	loadPaste
)

func (k loadKind) String() string {
	if k == loadPaste {
		return "paste"
	}
	return "file"
}

type loadRequest struct {
	kind loadKind
	fn   func(context.Context) (importer.Result, error)
}

// loadedEvent carries a finished import back onto the event goroutine.
type loadedEvent struct {
	kind loadKind
	res  importer.Result
	err  error
}

// session is the window-independent half of the UI: it owns the viewer and
// turns shiny events into viewer operations.
type session struct {
	v      *viewer.Viewer
	log    *slog.Logger
	notify *notify.Notifier

	clip  importer.Source
	fetch importer.Fetcher
	file  string
	start func(loadRequest)

	width, height int
	status        statusLine
	mouse         pointer
	sliderDrag    bool
	hover         int
	quit          bool
}

func (s *session) bar() bar { return layoutBar(s.width, s.height, s.v.Locked()) }

// handle applies e and reports whether the window needs repainting.
func (s *session) handle(e any) bool {
	switch e := e.(type) {
	case size.Event:
		s.width, s.height = e.WidthPx, e.HeightPx
		w, h := canvasSize(s.width, s.height)
		before := s.v.Transform().Scale
		s.v.Resize(float64(w), float64(h))
		if after := s.v.Transform().Scale; after != before && s.v.HasImage() {
			s.status = zoomStatus(s.v.ZoomPercent())
		}
		return true
	case mouse.Event:
		return s.handleMouse(e)
	case touch.Event:
		return s.apply(translateTouch(e))
	case key.Event:
		return s.do(keyAction(e))
	case loadedEvent:
		return s.loaded(e)
	}
	return false
}

func (s *session) handleMouse(e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))
	b := s.bar()

	if s.sliderDrag {
		if e.Direction == mouse.DirRelease {
			s.sliderDrag = false
			return false
		}
		return s.apply(viewer.Zoom(sliderScale(b.slider, p.X)))
	}

	if !s.mouse.down && p.In(b.rect) {
		hover := -1
		for i, w := range b.widgets {
			if p.In(w.rect) {
				hover = i
			}
		}
		changed := hover != s.hover
		s.hover = hover
		if e.Button != mouse.ButtonLeft || e.Direction != mouse.DirPress {
			return changed
		}
		switch c := b.hit(p); c {
		case ctrlSlider:
			s.sliderDrag = true
			s.apply(viewer.Zoom(sliderScale(b.slider, p.X)))
			return true
		case ctrlNone:
			return changed
		default:
			s.do(c.action())
			return true
		}
	}
	redraw := false
	if s.hover != -1 {
		s.hover = -1
		redraw = true
	}

	ev, ok := s.mouse.translate(e)
	if !ok {
		return redraw
	}
	return s.apply(ev) || redraw
}

// apply forwards an event to the viewer and keeps the status line in step
// with zoom and lock changes.
func (s *session) apply(ev viewer.Event) bool {
	before := s.v.Transform()
	changed := s.v.Apply(ev)
	after := s.v.Transform()
	switch {
	case after.Locked && !before.Locked:
		s.status = info(msgLocked)
	case !after.Locked && before.Locked:
		s.status = zoomStatus(after.ZoomPercent())
	case changed && after.Scale != before.Scale:
		s.status = zoomStatus(after.ZoomPercent())
	}
	return changed || after.Locked != before.Locked
}

func (s *session) do(a action) bool {
	t := s.v.Transform()
	switch a {
	case actFit:
		return s.apply(viewer.Fit())
	case actRotateLeft:
		return s.apply(viewer.Rotate(-1))
	case actRotateRight:
		return s.apply(viewer.Rotate(1))
	case actToggleLock:
		return s.apply(viewer.ToggleLock())
	case actZoomIn:
		return s.apply(viewer.Zoom(t.Scale + zoomStep))
	case actZoomOut:
		return s.apply(viewer.Zoom(t.Scale - zoomStep))
	case actZoomReset:
		return s.apply(viewer.Zoom(1))
	case actPaste:
		return s.paste()
	case actReload:
		return s.reload()
	case actQuit:
		s.quit = true
	}
	return false
}

func (s *session) paste() bool {
	if s.v.Locked() {
		s.status = info(msgUnlockToPaste)
		return true
	}
	if s.clip == nil {
		s.status = alert(msgClipboardDown)
		return true
	}
	clip, fetch := s.clip, s.fetch
	s.status = info(msgPasting)
	s.start(loadRequest{kind: loadPaste, fn: func(ctx context.Context) (importer.Result, error) {
		return importer.FromClipboard(ctx, clip, fetch)
	}})
	return true
}

func (s *session) reload() bool {
	if s.v.Locked() {
		s.status = info(msgUnlockToImport)
		return true
	}
	if s.file == "" {
		s.status = info(msgNothingToLoad)
		return true
	}
	s.openFile(s.file)
	return true
}

func (s *session) openFile(path string) {
	s.status = info(msgLoading)
	s.start(loadRequest{kind: loadFile, fn: func(context.Context) (importer.Result, error) {
		return importer.FromFile(path)
	}})
}

// loaded installs a finished import. Completions are applied in arrival order
// so the last one wins.
func (s *session) loaded(e loadedEvent) bool {
	if e.err != nil {
		s.log.Warn("import failed", "kind", e.kind.String(), "err", e.err)
		s.status = failureStatus(e.kind, e.err)
		s.notify.Failed(e.err)
		return true
	}
	s.v.Install(e.res.Image)
	s.status = zoomStatus(s.v.ZoomPercent())
	b := e.res.Image.Bounds()
	s.log.Info("image loaded", "source", e.res.Source, "format", e.res.Format, "width", b.Dx(), "height", b.Dy())
	s.notify.Loaded(e.res.Source, e.res.Image)
	return true
}

func (s *session) snapshot() paintState {
	return paintState{
		width:    s.width,
		height:   s.height,
		img:      s.v.Image(),
		t:        s.v.Transform(),
		vp:       s.v.Viewport(),
		hasImage: s.v.HasImage(),
		status:   s.status,
		hover:    s.hover,
	}
}
