// Package appstate runs the interactive viewer window.
package appstate

import (
	"context"
	"io"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/exp/slog"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"

	"github.com/example/panview/internal/importer"
	"github.com/example/panview/internal/notify"
	"github.com/example/panview/internal/render"
	"github.com/example/panview/internal/viewer"
)

const (
	defaultWidth  = 1024
	defaultHeight = 768
)

// AppState holds application configuration for the UI.
type AppState struct {
	Title  string
	Width  int
	Height int

	file      string
	paste     bool
	initial   *importer.Result
	clip      importer.Source
	fetch     importer.Fetcher
	render    render.Options
	fitMargin float64
	log       *slog.Logger
	notifier  *notify.Notifier

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithFile loads path when the window opens. The r key reloads it.
func WithFile(path string) Option { return func(a *AppState) { a.file = path } }

// WithPasteOnStart imports from the clipboard when the window opens.
func WithPasteOnStart() Option { return func(a *AppState) { a.paste = true } }

// WithImage installs an already decoded image on start.
func WithImage(res importer.Result) Option { return func(a *AppState) { a.initial = &res } }

// WithClipboard sets the clipboard used for paste.
func WithClipboard(src importer.Source) Option { return func(a *AppState) { a.clip = src } }

// WithFetcher sets how image URLs found on the clipboard are retrieved.
func WithFetcher(f importer.Fetcher) Option { return func(a *AppState) { a.fetch = f } }

// WithRenderOptions configures theme, backdrop and interpolation.
func WithRenderOptions(o render.Options) Option { return func(a *AppState) { a.render = o } }

// WithFitMargin overrides the fraction of the viewport a fitted image fills.
func WithFitMargin(m float64) Option { return func(a *AppState) { a.fitMargin = m } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(a *AppState) { a.log = l } }

// WithNotifier sends desktop notifications for load outcomes.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.notifier = n } }

// WithWindowSize sets the initial window size in pixels.
func WithWindowSize(w, h int) Option {
	return func(a *AppState) { a.Width, a.Height = w, h }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{
		Title:  "panview",
		Width:  defaultWidth,
		Height: defaultHeight,
	}
	for _, o := range opts {
		o(a)
	}
	if a.log == nil {
		a.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if a.Width <= 0 || a.Height <= 0 {
		a.Width, a.Height = defaultWidth, defaultHeight
	}
	return a
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// newSession builds the event handler. start is called for every import the
// user triggers.
func (a *AppState) newSession(start func(loadRequest)) *session {
	vopts := []viewer.Option{viewer.WithLogger(a.log)}
	if a.fitMargin > 0 {
		vopts = append(vopts, viewer.WithFitMargin(a.fitMargin))
	}
	return &session{
		v:      viewer.New(vopts...),
		log:    a.log,
		notify: a.notifier,
		clip:   a.clip,
		fetch:  a.fetch,
		file:   a.file,
		start:  start,
		status: info(msgReady),
		hover:  -1,
	}
}

// begin performs the start-up import, if any.
func (a *AppState) begin(s *session) {
	switch {
	case a.initial != nil:
		s.loaded(loadedEvent{kind: loadFile, res: *a.initial})
	case a.file != "":
		s.openFile(a.file)
	case a.paste:
		s.paste()
	}
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

func (a *AppState) Main(s screen.Screen) {
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: a.Width, Height: a.Height, Title: a.Title})
	if err != nil {
		a.log.Error("new window", "err", err)
		return
	}
	defer w.Release()
	defer a.notifyClose()

	var loader importer.Loader
	sess := a.newSession(func(req loadRequest) {
		loader.Load(context.Background(), req.fn, func(res importer.Result, err error) {
			w.Send(loadedEvent{kind: req.kind, res: res, err: err})
		})
	})

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st, a.render, a.log)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	defer close(paintCh)

	a.begin(sess)

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := sess.snapshot()
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case error:
			a.log.Error("window", "err", e)
		default:
			if sess.handle(e) {
				w.Send(paint.Event{})
			}
			if sess.quit {
				return
			}
		}
	}
}
