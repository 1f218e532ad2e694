package viewer

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// Kind identifies a normalized input event.
type Kind int

const (
	KindBegin Kind = iota
	KindMove
	KindEnd
	KindCancel
	KindWheel
	KindZoom
	KindRotate
	KindFit
	KindLock
	KindToggleLock
)

var kindNames = map[Kind]string{
	KindBegin:      "begin",
	KindMove:       "move",
	KindEnd:        "end",
	KindCancel:     "cancel",
	KindWheel:      "wheel",
	KindZoom:       "zoom",
	KindRotate:     "rotate",
	KindFit:        "fit",
	KindLock:       "lock",
	KindToggleLock: "toggle-lock",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is one normalized input. Pos is in viewport pixels. Only the fields
// relevant to Kind are read.
type Event struct {
	Kind   Kind
	ID     int64   // contact id for begin/move/end/cancel
	Pos    r2.Vec  // contact or cursor position
	DeltaY float64 // wheel delta, positive zooms out
	Value  float64 // zoom: absolute scale
	Sign   int     // rotate: -1 left, +1 right
	Locked bool    // lock: requested state
}

// Begin returns a contact begin event.
func Begin(id int64, x, y float64) Event {
	return Event{Kind: KindBegin, ID: id, Pos: r2.Vec{X: x, Y: y}}
}

// Move returns a contact move event.
func Move(id int64, x, y float64) Event {
	return Event{Kind: KindMove, ID: id, Pos: r2.Vec{X: x, Y: y}}
}

// End returns a contact end event.
func End(id int64) Event { return Event{Kind: KindEnd, ID: id} }

// Cancel returns a contact cancel event.
func Cancel(id int64) Event { return Event{Kind: KindCancel, ID: id} }

// Wheel returns a wheel event at the cursor position.
func Wheel(x, y, deltaY float64) Event {
	return Event{Kind: KindWheel, Pos: r2.Vec{X: x, Y: y}, DeltaY: deltaY}
}

// Zoom returns a slider zoom event.
func Zoom(value float64) Event { return Event{Kind: KindZoom, Value: value} }

// Rotate returns a discrete rotate event.
func Rotate(sign int) Event { return Event{Kind: KindRotate, Sign: sign} }

// Fit returns a fit-to-screen event.
func Fit() Event { return Event{Kind: KindFit} }

// Lock returns an event setting the lock state.
func Lock(locked bool) Event { return Event{Kind: KindLock, Locked: locked} }

// ToggleLock returns an event flipping the lock state.
func ToggleLock() Event { return Event{Kind: KindToggleLock} }
