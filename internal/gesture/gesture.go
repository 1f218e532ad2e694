// Package gesture turns pointer and touch contacts into view transform updates.
//
// A Coordinator remembers the transform and contact metrics at the moment a
// gesture starts (its anchor) and derives every later transform from that
// snapshot, so rounding never accumulates across frames. The anchor is
// recaptured whenever the number of contacts changes.
package gesture

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/example/panview/internal/view"
)

// MaxContacts caps the number of tracked contacts. Begins beyond it are ignored.
const MaxContacts = 10

// Contact is one pressed pointer in viewport pixels.
type Contact struct {
	ID  int64
	Pos r2.Vec
}

// Metrics summarises the active contacts. Distance and Angle are measured
// between the first two contacts in arrival order and are zero for fewer than
// two contacts.
type Metrics struct {
	Centroid r2.Vec
	Distance float64
	Angle    float64
	Count    int
}

// Anchor is the reference snapshot every gesture update is computed from.
type Anchor struct {
	Metrics
	Scale    float64
	Rotation float64
	Offset   r2.Vec
}

// Coordinator tracks contacts in arrival order.
type Coordinator struct {
	contacts []Contact
	anchor   *Anchor
}

// Active reports whether a gesture is in progress.
func (c *Coordinator) Active() bool {
	return c.anchor != nil
}

// Contacts returns a copy of the active contacts in arrival order.
func (c *Coordinator) Contacts() []Contact {
	out := make([]Contact, len(c.contacts))
	copy(out, c.contacts)
	return out
}

// Anchor returns the current anchor, if any.
func (c *Coordinator) Anchor() (Anchor, bool) {
	if c.anchor == nil {
		return Anchor{}, false
	}
	return *c.anchor, true
}

// Reset forgets all contacts.
func (c *Coordinator) Reset() {
	c.contacts = c.contacts[:0]
	c.anchor = nil
}

func (c *Coordinator) indexOf(id int64) int {
	for i := range c.contacts {
		if c.contacts[i].ID == id {
			return i
		}
	}
	return -1
}

// Measure computes metrics over contacts. ok is false when there are none.
func Measure(contacts []Contact) (m Metrics, ok bool) {
	if len(contacts) == 0 {
		return Metrics{}, false
	}
	var sum r2.Vec
	for _, ct := range contacts {
		sum = r2.Add(sum, ct.Pos)
	}
	m.Count = len(contacts)
	m.Centroid = r2.Scale(1/float64(m.Count), sum)
	if m.Count >= 2 {
		d := r2.Sub(contacts[1].Pos, contacts[0].Pos)
		m.Distance = r2.Norm(d)
		m.Angle = math.Atan2(d.Y, d.X)
	}
	return m, true
}

// reanchor captures a fresh anchor from t, or clears it when idle.
func (c *Coordinator) reanchor(t view.Transform) {
	m, ok := Measure(c.contacts)
	if !ok {
		c.anchor = nil
		return
	}
	c.anchor = &Anchor{
		Metrics:  m,
		Scale:    t.Scale,
		Rotation: t.Rotation,
		Offset:   t.Offset,
	}
}

// Begin registers a contact and re-anchors the gesture on t. A repeated id
// updates that contact's position. It reports whether the contact was
// accepted.
func (c *Coordinator) Begin(id int64, pos r2.Vec, t view.Transform) bool {
	if i := c.indexOf(id); i >= 0 {
		c.contacts[i].Pos = pos
	} else {
		if len(c.contacts) >= MaxContacts {
			return false
		}
		c.contacts = append(c.contacts, Contact{ID: id, Pos: pos})
	}
	c.reanchor(t)
	return true
}

// Move updates a contact and applies the resulting gesture to t. Unknown ids
// and moves without an anchor are ignored; a locked t only has the contact
// position recorded. It reports whether t changed.
func (c *Coordinator) Move(id int64, pos r2.Vec, t *view.Transform) bool {
	i := c.indexOf(id)
	if i < 0 || c.anchor == nil {
		return false
	}
	c.contacts[i].Pos = pos
	if t.Locked {
		return false
	}
	m, ok := Measure(c.contacts)
	if !ok {
		return false
	}
	a := c.anchor
	next := *t
	next.Offset = r2.Add(a.Offset, r2.Sub(m.Centroid, a.Centroid))
	if m.Count >= 2 && a.Distance > 0 {
		next.Scale = view.ClampScale(a.Scale * m.Distance / a.Distance)
		next.Rotation = a.Rotation + (m.Angle - a.Angle)
	}
	if next == *t {
		return false
	}
	*t = next
	return true
}

// End removes a contact and re-anchors on t if others remain. Cancel is the
// same transition. It reports whether the id was known.
func (c *Coordinator) End(id int64, t view.Transform) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.contacts = append(c.contacts[:i], c.contacts[i+1:]...)
	c.reanchor(t)
	return true
}

// Rebase recaptures the anchor from t without touching the contacts. It keeps
// an in-progress gesture continuous after t was changed by something else.
func (c *Coordinator) Rebase(t view.Transform) {
	if c.anchor == nil {
		return
	}
	c.reanchor(t)
}

// WheelFactor converts a wheel delta into a multiplicative zoom factor.
func WheelFactor(deltaY float64) float64 {
	return math.Exp((-deltaY / 300) * 0.6)
}
