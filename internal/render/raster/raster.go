// Package raster implements render.Surface on top of an in-memory RGBA
// buffer. It is the backend for cached composites and headless output.
package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"chosenoffset.com/tilecomp/internal/render"
)

// Surface is a software render target.
type Surface struct {
	img   *image.RGBA
	alpha float64
}

var _ render.Surface = (*Surface)(nil)

// New allocates a transparent surface of the given size.
func New(width, height int) *Surface {
	return Wrap(image.NewRGBA(image.Rect(0, 0, width, height)))
}

// Wrap turns an existing RGBA image into a surface.
func Wrap(img *image.RGBA) *Surface {
	return &Surface{img: img, alpha: 1}
}

// Image returns the backing buffer.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Bounds returns the bounds of the backing buffer.
func (s *Surface) Bounds() image.Rectangle {
	return s.img.Bounds()
}

// Alpha returns the compositing alpha.
func (s *Surface) Alpha() float64 {
	return s.alpha
}

// SetAlpha sets the compositing alpha.
func (s *Surface) SetAlpha(alpha float64) {
	s.alpha = render.ClampAlpha(alpha)
}

// Fill replaces every pixel with c.
func (s *Surface) Fill(c color.Color) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// DrawImage draws img source-over at (x, y), rounded to whole pixels.
func (s *Surface) DrawImage(img image.Image, x, y float64) {
	if img == nil || s.alpha <= 0 {
		return
	}

	sb := img.Bounds()
	dp := image.Pt(int(math.Round(x)), int(math.Round(y)))
	r := image.Rectangle{Min: dp, Max: dp.Add(sb.Size())}

	if s.alpha >= 1 {
		draw.Draw(s.img, r, img, sb.Min, draw.Over)
		return
	}

	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(s.alpha * 255))})
	draw.DrawMask(s.img, r, img, sb.Min, mask, image.Point{}, draw.Over)
}
