// Package render abstracts the drawing targets the map renderer composites
// into, so the same compositing code can draw into an in-memory pixel buffer,
// an ebiten screen or anything else that can place an image at a position.
package render

import "image"

// Surface is a drawing target with a compositing alpha.
type Surface interface {
	// Bounds returns the drawable area.
	Bounds() image.Rectangle

	// DrawImage draws img with its bounds' top-left corner at (x, y),
	// blended source-over with the current alpha.
	DrawImage(img image.Image, x, y float64)

	// Alpha returns the current compositing alpha in [0, 1].
	Alpha() float64

	// SetAlpha sets the compositing alpha used by subsequent draws.
	SetAlpha(alpha float64)
}

// WithAlpha sets the compositing alpha of s and returns a function that
// restores the previous value.
func WithAlpha(s Surface, alpha float64) (restore func()) {
	prev := s.Alpha()
	s.SetAlpha(ClampAlpha(alpha))
	return func() {
		s.SetAlpha(prev)
	}
}

// ClampAlpha clamps a to [0, 1].
func ClampAlpha(a float64) float64 {
	switch {
	case a < 0:
		return 0
	case a > 1:
		return 1
	default:
		return a
	}
}
