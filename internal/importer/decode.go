// Package importer turns files, clipboard contents and URLs into decoded
// rasters for the viewer.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrDecode reports that bytes could not be decoded into a raster.
	ErrDecode = errors.New("failed to load image")
	// ErrNoImage reports that a source held nothing usable as an image.
	ErrNoImage = errors.New("no image found")
	// ErrTooLarge reports a payload above the byte or pixel cap.
	ErrTooLarge = errors.New("image data too large")
)

// MaxPixels caps the raster area Decode allocates. Headers are checked
// before any pixel data is read.
const MaxPixels = 1 << 27

// Result is a decoded raster and a description of where it came from.
type Result struct {
	Image  image.Image
	Format string
	Source string
}

// Decode reads a raster in any registered format. Rasters whose header
// claims more than MaxPixels are rejected with ErrTooLarge.
func Decode(r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Result{}, fmt.Errorf("%w: empty %s raster", ErrDecode, format)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return Result{}, fmt.Errorf("%w: %s raster is %dx%d, limit is %d pixels", ErrTooLarge, format, cfg.Width, cfg.Height, MaxPixels)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return Result{}, fmt.Errorf("%w: empty %s raster", ErrDecode, format)
	}
	return Result{Image: img, Format: format}, nil
}

// FromBytes decodes an in-memory payload.
func FromBytes(data []byte, source string) (Result, error) {
	if len(data) == 0 {
		return Result{}, fmt.Errorf("%s: %w", source, ErrNoImage)
	}
	res, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", source, err)
	}
	res.Source = source
	return res, nil
}

// FromFile decodes the image stored at path.
func FromFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	res, err := Decode(f)
	if err != nil {
		return Result{}, fmt.Errorf("decode %s: %w", path, err)
	}
	res.Source = path
	return res, nil
}
