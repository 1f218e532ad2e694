//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "fmt"

var errUnsupported = fmt.Errorf("%w: not supported on this platform", ErrUnavailable)

func ReadImage() ([]byte, error) { return nil, errUnsupported }

func ReadHTML() (string, error) { return "", errUnsupported }

func ReadText() (string, error) { return "", errUnsupported }
