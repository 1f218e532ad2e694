package theme

import (
	"image/color"
)

// Theme defines the colors used to paint the viewer window.
type Theme struct {
	Name string

	// Canvas
	Background   color.RGBA // Fill behind the image when no checker is drawn
	CheckerLight color.RGBA
	CheckerDark  color.RGBA

	// Status bar
	StatusBackground color.RGBA
	StatusText       color.RGBA
	StatusAccent     color.RGBA // Lock indicator and error text

	// Overlay used for the empty-state hint
	HintText color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:             "Default",
		Background:       color.RGBA{220, 220, 220, 255},
		CheckerLight:     color.RGBA{220, 220, 220, 255},
		CheckerDark:      color.RGBA{192, 192, 192, 255},
		StatusBackground: color.RGBA{240, 240, 240, 255},
		StatusText:       color.RGBA{0, 0, 0, 255},
		StatusAccent:     color.RGBA{200, 40, 40, 255},
		HintText:         color.RGBA{90, 90, 90, 255},
	}
}

// Fields lists the color keys in the order they are written out.
func Fields() []string {
	return []string{"Background", "CheckerLight", "CheckerDark", "StatusBackground", "StatusText", "StatusAccent", "HintText"}
}
