//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

// imageTargets lists the raster targets asked for, most preferred first.
var imageTargets = []string{"image/png", "image/jpeg", "image/gif", "image/bmp", "image/webp"}

// ReadImage returns the first raster flavour the selection owner offers.
func ReadImage() ([]byte, error) {
	for _, target := range imageTargets {
		data, err := readTarget(target)
		if err != nil {
			return nil, err
		}
		if len(data) > 0 {
			return data, nil
		}
	}
	return nil, nil
}

// ReadHTML returns the text/html flavour.
func ReadHTML() (string, error) {
	return readHTML()
}

// ReadText returns UTF8_STRING, falling back to STRING.
func ReadText() (string, error) {
	data, err := readTarget("UTF8_STRING")
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		if data, err = readTarget("STRING"); err != nil {
			return "", err
		}
	}
	return string(trimNull(data)), nil
}
