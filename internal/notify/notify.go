// Package notify forwards image load outcomes to the desktop notification
// service.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/slog"
	xdraw "golang.org/x/image/draw"

	"github.com/example/panview/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventLoad emits a notification when an image has been installed.
	EventLoad Event = "load"
	// EventFailure emits a notification when an import fails.
	EventFailure Event = "failure"
)

// previewSize bounds the longer edge of the thumbnail attached to load
// notifications.
const previewSize = 128

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "panview",
		Events: map[Event]EventPreference{
			EventLoad:    {Template: "Opened %s"},
			EventFailure: {Template: "Failed to load image: %s"},
		},
	}
}

// LoadPreferences reads overrides from environment variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("PANVIEW_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			eventPrefs := prefs.Events[event]
			eventPrefs.Template = v
			prefs.Events[event] = eventPrefs
		}
	}
	apply("PANVIEW_NOTIFY_LOAD_TEXT", EventLoad)
	apply("PANVIEW_NOTIFY_FAILURE_TEXT", EventFailure)
	return prefs
}

// send is swapped out in tests.
var send = platform.Notify

// previewLinger is how long a thumbnail outlives its notification. Desktop
// daemons may read image-path after the Notify call has returned.
var previewLinger = 30 * time.Second

// queueSize bounds notifications waiting for the sender goroutine. Further
// notifications are dropped rather than blocking the caller.
const queueSize = 8

type job struct {
	event  Event
	detail string
	opts   platform.Options
	img    image.Image
}

// Notifier sends OS-level notifications based on the configured preferences.
// Sends happen in order on a background goroutine.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	log     *slog.Logger

	startOnce sync.Once
	jobs      chan job
	pending   sync.WaitGroup

	mu       sync.Mutex
	previews map[string]*time.Timer
}

// New creates a new Notifier using the provided preferences. A nil logger
// discards diagnostics.
func New(prefs Preferences, log *slog.Logger) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool), log: log, previews: make(map[string]*time.Timer)}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// Loaded reports a successfully installed image with a thumbnail preview.
// It does not block on the notification service.
func (n *Notifier) Loaded(source string, img image.Image) {
	if !n.enabledFor(EventLoad) {
		return
	}
	if strings.TrimSpace(source) == "" {
		source = "image"
	}
	n.enqueue(job{
		event:  EventLoad,
		detail: source,
		opts:   platform.Options{AppName: n.prefs.Title, Timeout: 4 * time.Second},
		img:    img,
	})
}

// Failed reports a failed import.
func (n *Notifier) Failed(err error) {
	if err == nil || !n.enabledFor(EventFailure) {
		return
	}
	n.enqueue(job{event: EventFailure, detail: err.Error(), opts: platform.Options{AppName: n.prefs.Title}})
}

// Flush waits until every queued notification has been handed to the
// notification service.
func (n *Notifier) Flush() {
	if n == nil {
		return
	}
	n.pending.Wait()
}

// Close flushes the queue and removes thumbnails that are still lingering.
func (n *Notifier) Close() {
	if n == nil {
		return
	}
	n.Flush()
	n.mu.Lock()
	defer n.mu.Unlock()
	for path, timer := range n.previews {
		timer.Stop()
		_ = os.Remove(path)
		delete(n.previews, path)
	}
}

func (n *Notifier) enqueue(j job) {
	n.startOnce.Do(func() {
		n.jobs = make(chan job, queueSize)
		go n.run()
	})
	n.pending.Add(1)
	select {
	case n.jobs <- j:
	default:
		n.pending.Done()
		n.log.Warn("notification dropped", "event", string(j.event))
	}
}

func (n *Notifier) run() {
	for j := range n.jobs {
		if j.img != nil {
			if path, err := createPreview(j.img); err != nil {
				n.log.Warn("notification preview", "err", err)
			} else {
				j.opts.IconPath = path
			}
		}
		n.dispatch(j.event, j.detail, j.opts)
		if j.opts.IconPath != "" {
			n.expire(j.opts.IconPath)
		}
		n.pending.Done()
	}
}

// expire removes a preview once previewLinger has passed.
func (n *Notifier) expire(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.previews == nil {
		n.previews = make(map[string]*time.Timer)
	}
	n.previews[path] = time.AfterFunc(previewLinger, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if _, ok := n.previews[path]; ok {
			_ = os.Remove(path)
			delete(n.previews, path)
		}
	})
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil || n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	template := strings.TrimSpace(n.template(event))
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := send(n.prefs.Title, body, opts); err != nil {
		n.log.Warn("notification", "event", string(event), "err", err)
	}
}

func (n *Notifier) template(event Event) string {
	if pref, ok := n.prefs.Events[event]; ok {
		return pref.Template
	}
	return ""
}

// thumbnail scales img so its longer edge is at most previewSize.
func thumbnail(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= previewSize && h <= previewSize {
		return img
	}
	if w >= h {
		h = max(1, h*previewSize/w)
		w = previewSize
	} else {
		w = max(1, w*previewSize/h)
		h = previewSize
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

func createPreview(img image.Image) (string, error) {
	f, err := os.CreateTemp("", "panview-preview-*.png")
	if err != nil {
		return "", err
	}
	path := f.Name()
	if err := png.Encode(f, thumbnail(img)); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}
