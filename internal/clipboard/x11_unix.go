//go:build linux || freebsd || openbsd || netbsd || dragonfly

package clipboard

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

const selectionTimeout = 2 * time.Second

var (
	displayOnce  sync.Once
	displayErr   error
	errNoDisplay = fmt.Errorf("%w: requires DISPLAY or WAYLAND_DISPLAY", ErrUnavailable)
	errNoTarget  = errors.New("clipboard target unavailable")
)

func checkDisplay() error {
	displayOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			displayErr = errNoDisplay
		}
	})
	return displayErr
}

// maxTransfer bounds a single selection payload, incremental or not.
const maxTransfer = 64 << 20

var (
	errTransferTooLarge = fmt.Errorf("clipboard payload exceeds %d bytes", maxTransfer)
	errIncomplete       = errors.New("incremental clipboard transfer interrupted")
)

// readTarget converts the CLIPBOARD selection to the named target on a
// short-lived connection. A missing owner or target returns nil data.
func readTarget(name string) ([]byte, error) {
	if err := checkDisplay(); err != nil {
		return nil, err
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer conn.Close()

	intern := func(n string) (xproto.Atom, error) {
		reply, err := xproto.InternAtom(conn, false, uint16(len(n)), n).Reply()
		if err != nil {
			return 0, err
		}
		return reply.Atom, nil
	}
	atoms := make(map[string]xproto.Atom, 4)
	for _, n := range []string{"CLIPBOARD", "INCR", "PANVIEW_CLIPBOARD", name} {
		a, err := intern(n)
		if err != nil {
			return nil, fmt.Errorf("intern %s: %w", n, err)
		}
		atoms[n] = a
	}

	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}
	if err := xproto.CreateWindowChecked(conn, 0, window, screen.Root, 0, 0, 1, 1, 0, xproto.WindowClassInputOnly, 0, xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check(); err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, window)

	if err := xproto.ConvertSelectionChecked(conn, window, atoms["CLIPBOARD"], atoms[name], atoms["PANVIEW_CLIPBOARD"], xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	src := &xSelection{conn: conn, window: window, property: atoms["PANVIEW_CLIPBOARD"]}
	go func() {
		data, err := receive(src, atoms["PANVIEW_CLIPBOARD"], atoms["INCR"])
		done <- result{data: data, err: err}
	}()

	select {
	case r := <-done:
		if errors.Is(r.err, errNoTarget) {
			return nil, nil
		}
		return r.data, r.err
	case <-time.After(selectionTimeout):
		return nil, nil
	}
}

// selectionSource is the part of an X connection a transfer needs.
type selectionSource interface {
	// next blocks for the next event. A closed connection yields nil, nil.
	next() (xgb.Event, error)
	// take reads and deletes the transfer property.
	take() (*xproto.GetPropertyReply, error)
}

type xSelection struct {
	conn     *xgb.Conn
	window   xproto.Window
	property xproto.Atom
}

func (x *xSelection) next() (xgb.Event, error) {
	ev, xerr := x.conn.WaitForEvent()
	if xerr != nil {
		return nil, xerr
	}
	return ev, nil
}

func (x *xSelection) take() (*xproto.GetPropertyReply, error) {
	return xproto.GetProperty(x.conn, true, x.window, x.property, xproto.GetPropertyTypeAny, 0, maxTransfer/4).Reply()
}

// receive waits for the owner's SelectionNotify and returns the converted
// data. INCR replies are reassembled from PropertyNotify chunks until the
// owner writes a zero-length one.
func receive(src selectionSource, property, incr xproto.Atom) ([]byte, error) {
	for {
		ev, err := src.next()
		if err != nil {
			return nil, err
		}
		if ev == nil {
			return nil, errNoTarget
		}
		e, ok := ev.(xproto.SelectionNotifyEvent)
		if !ok {
			continue
		}
		if e.Property == xproto.AtomNone {
			return nil, errNoTarget
		}
		reply, err := src.take()
		if err != nil {
			return nil, fmt.Errorf("read selection: %w", err)
		}
		if reply.Type == incr {
			return receiveIncr(src, property)
		}
		return append([]byte(nil), reply.Value...), nil
	}
}

func receiveIncr(src selectionSource, property xproto.Atom) ([]byte, error) {
	var buf []byte
	for {
		ev, err := src.next()
		if err != nil {
			return nil, err
		}
		if ev == nil {
			return nil, errIncomplete
		}
		e, ok := ev.(xproto.PropertyNotifyEvent)
		if !ok || e.Atom != property || e.State != xproto.PropertyNewValue {
			continue
		}
		reply, err := src.take()
		if err != nil {
			return nil, fmt.Errorf("read selection chunk: %w", err)
		}
		if len(reply.Value) == 0 {
			return buf, nil
		}
		if len(buf)+len(reply.Value) > maxTransfer {
			return nil, errTransferTooLarge
		}
		buf = append(buf, reply.Value...)
	}
}

// readHTML is shared by the cgo and pure Go builds; neither backend of the
// image/text API exposes text/html.
func readHTML() (string, error) {
	data, err := readTarget("text/html")
	if err != nil {
		return "", err
	}
	return string(trimNull(data)), nil
}
