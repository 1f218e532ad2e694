package appstate

import (
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"

	"github.com/example/panview/internal/viewer"
)

// mouseContact is the contact id used for the primary mouse button. Touch
// sequences are shifted by one so they never collide with it.
const mouseContact = 0

// wheelStep is the deltaY reported for one notch of a scroll wheel.
const wheelStep = 100

type action int

const (
	actNone action = iota
	actFit
	actRotateLeft
	actRotateRight
	actToggleLock
	actZoomIn
	actZoomOut
	actZoomReset
	actPaste
	actReload
	actQuit
)

// zoomStep is the slider increment applied by the keyboard zoom keys.
const zoomStep = 0.1

// pointer turns shiny mouse events into contact events. Drag motion arrives
// with DirNone, so the button state is tracked here.
type pointer struct {
	down bool
}

func (p *pointer) translate(e mouse.Event) (viewer.Event, bool) {
	x, y := float64(e.X), float64(e.Y)
	if e.Button.IsWheel() {
		if e.Direction != mouse.DirStep && e.Direction != mouse.DirPress {
			return viewer.Event{}, false
		}
		switch e.Button {
		case mouse.ButtonWheelUp:
			return viewer.Wheel(x, y, -wheelStep), true
		case mouse.ButtonWheelDown:
			return viewer.Wheel(x, y, wheelStep), true
		}
		return viewer.Event{}, false
	}
	switch e.Direction {
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft {
			return viewer.Event{}, false
		}
		p.down = true
		return viewer.Begin(mouseContact, x, y), true
	case mouse.DirRelease:
		if e.Button != mouse.ButtonLeft || !p.down {
			return viewer.Event{}, false
		}
		p.down = false
		return viewer.End(mouseContact), true
	case mouse.DirNone:
		if !p.down {
			return viewer.Event{}, false
		}
		return viewer.Move(mouseContact, x, y), true
	}
	return viewer.Event{}, false
}

func touchContact(seq touch.Sequence) int64 { return int64(seq) + 1 }

func translateTouch(e touch.Event) viewer.Event {
	id := touchContact(e.Sequence)
	x, y := float64(e.X), float64(e.Y)
	switch e.Type {
	case touch.TypeBegin:
		return viewer.Begin(id, x, y)
	case touch.TypeMove:
		return viewer.Move(id, x, y)
	default:
		return viewer.End(id)
	}
}

// keyAction maps a key press (or auto-repeat) to an action.
func keyAction(e key.Event) action {
	if e.Direction == key.DirRelease {
		return actNone
	}
	if e.Modifiers&(key.ModControl|key.ModMeta) != 0 {
		if e.Code == key.CodeV || unicode.ToLower(e.Rune) == 'v' {
			return actPaste
		}
		return actNone
	}
	switch e.Code {
	case key.CodeEscape:
		return actQuit
	case key.CodeKeypadPlusSign:
		return actZoomIn
	case key.CodeKeypadHyphenMinus:
		return actZoomOut
	}
	switch e.Rune {
	case 'f', 'F':
		return actFit
	case '[':
		return actRotateLeft
	case ']':
		return actRotateRight
	case 'l', 'L':
		return actToggleLock
	case '+', '=':
		return actZoomIn
	case '-', '_':
		return actZoomOut
	case '0':
		return actZoomReset
	case 'r', 'R':
		return actReload
	case 'q', 'Q':
		return actQuit
	}
	return actNone
}
