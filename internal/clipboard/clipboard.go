// Package clipboard reads image, HTML and text flavours from the system
// clipboard.
package clipboard

import "errors"

// ErrUnavailable reports that no clipboard service could be reached.
var ErrUnavailable = errors.New("clipboard unavailable")

// System reads from the desktop clipboard. Absent flavours yield an empty
// payload and a nil error.
type System struct{}

// ReadImage returns encoded image bytes.
func (System) ReadImage() ([]byte, error) { return ReadImage() }

// ReadHTML returns an HTML fragment.
func (System) ReadHTML() (string, error) { return ReadHTML() }

// ReadText returns plain UTF-8 text.
func (System) ReadText() (string, error) { return ReadText() }

func trimNull(data []byte) []byte {
	for len(data) > 0 && data[len(data)-1] == 0 {
		data = data[:len(data)-1]
	}
	return data
}
