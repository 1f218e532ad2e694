// Package view holds the affine placement of an image inside a viewport.
//
// A Transform positions the image center at the viewport center plus Offset,
// rotated by Rotation radians and uniformly scaled by Scale. Image-local
// ("world") coordinates are centered on the image and unscaled.
package view

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// MinScale and MaxScale bound every scale a Transform can hold.
	MinScale = 0.05
	MaxScale = 8.0

	// DefaultFitMargin is the share of the viewport a fitted image may occupy.
	DefaultFitMargin = 0.95

	// RotateStep is the increment applied by a discrete rotate command (10°).
	RotateStep = math.Pi / 18
)

// Viewport is the pixel size of the drawing surface.
type Viewport struct {
	Width, Height float64
}

// Center returns the viewport center in viewport pixels.
func (vp Viewport) Center() r2.Vec {
	return r2.Vec{X: vp.Width / 2, Y: vp.Height / 2}
}

// Empty reports whether the viewport has no drawable area.
func (vp Viewport) Empty() bool {
	return vp.Width <= 0 || vp.Height <= 0
}

// Transform is the view state of the loaded image.
type Transform struct {
	Scale    float64
	Rotation float64
	Offset   r2.Vec
	Locked   bool
}

// Identity returns the startup transform.
func Identity() Transform {
	return Transform{Scale: 1}
}

// ClampScale projects s into [MinScale, MaxScale].
func ClampScale(s float64) float64 {
	if math.IsNaN(s) || s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

// Fit returns the transform that shows an imageW×imageH raster as large as
// possible within margin of the viewport, unrotated and centered.
func Fit(imageW, imageH, viewportW, viewportH, margin float64) Transform {
	if imageW <= 0 || imageH <= 0 || viewportW <= 0 || viewportH <= 0 {
		return Identity()
	}
	if margin <= 0 {
		margin = DefaultFitMargin
	}
	s := math.Min(viewportW*margin/imageW, viewportH*margin/imageH)
	return Transform{Scale: ClampScale(s)}
}

// ToWorld maps a viewport point to image-local coordinates.
func (t Transform) ToWorld(p r2.Vec, vp Viewport) r2.Vec {
	rel := r2.Sub(p, r2.Add(vp.Center(), t.Offset))
	unrotated := r2.Rotate(rel, -t.Rotation, r2.Vec{})
	return r2.Scale(1/t.Scale, unrotated)
}

// ToScreen maps an image-local point to viewport coordinates.
func (t Transform) ToScreen(w r2.Vec, vp Viewport) r2.Vec {
	rotated := r2.Rotate(r2.Scale(t.Scale, w), t.Rotation, r2.Vec{})
	return r2.Add(rotated, r2.Add(vp.Center(), t.Offset))
}

// SetLocked changes only the lock flag.
func (t *Transform) SetLocked(locked bool) {
	t.Locked = locked
}

// SetScale sets the scale to the clamped value of s. It reports whether the
// transform changed.
func (t *Transform) SetScale(s float64) bool {
	if t.Locked {
		return false
	}
	s = ClampScale(s)
	if s == t.Scale {
		return false
	}
	t.Scale = s
	return true
}

// RotateBy adds delta radians to the rotation.
func (t *Transform) RotateBy(delta float64) bool {
	if t.Locked || delta == 0 {
		return false
	}
	t.Rotation += delta
	return true
}

// ZoomAt multiplies the scale by factor while keeping the image point under p
// fixed on screen.
func (t *Transform) ZoomAt(p r2.Vec, vp Viewport, factor float64) bool {
	if t.Locked {
		return false
	}
	before := t.ToWorld(p, vp)
	scale := ClampScale(t.Scale * factor)
	if scale == t.Scale {
		return false
	}
	t.Scale = scale
	after := t.ToWorld(p, vp)

	// Screen drift of the pinned point, expressed in the rotated frame.
	drift := r2.Scale(t.Scale, r2.Sub(after, before))
	t.Offset = r2.Add(t.Offset, r2.Rotate(drift, t.Rotation, r2.Vec{}))
	return true
}

// ZoomPercent is the zoom shown to the user.
func (t Transform) ZoomPercent() int {
	return int(math.Round(t.Scale * 100))
}

// DisplayRotation returns the rotation normalized into (-π, π].
func (t Transform) DisplayRotation() float64 {
	r := math.Mod(t.Rotation, 2*math.Pi)
	if r > math.Pi {
		r -= 2 * math.Pi
	} else if r <= -math.Pi {
		r += 2 * math.Pi
	}
	return r
}

// Aff3 returns the matrix mapping source pixels of an image with the given
// bounds to viewport pixels.
func (t Transform) Aff3(bounds image.Rectangle, vp Viewport) f64.Aff3 {
	sin, cos := math.Sincos(t.Rotation)
	a, b := t.Scale*cos, -t.Scale*sin
	c, d := t.Scale*sin, t.Scale*cos

	// Source pixel at the image center lands on the viewport center plus offset.
	cx := float64(bounds.Min.X) + float64(bounds.Dx())/2
	cy := float64(bounds.Min.Y) + float64(bounds.Dy())/2
	origin := r2.Add(vp.Center(), t.Offset)
	return f64.Aff3{
		a, b, origin.X - a*cx - b*cy,
		c, d, origin.Y - c*cx - d*cy,
	}
}
