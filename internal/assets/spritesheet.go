// Package assets provides the sprite sheets and static images the renderer
// draws from. Images are decoded once and stay resident; the renderer never
// blocks on I/O.
package assets

import (
	"image"
	"sync"
)

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

type spriteKey struct {
	index   int
	margin  int
	spacing int
	variant uint8
}

// Spritesheet slices a source image into equally sized sprites.
type Spritesheet struct {
	Name         string
	Image        image.Image
	SpriteWidth  int
	SpriteHeight int

	sprites sync.Map // spriteKey -> image.Image
}

// NewSpritesheet creates a sprite sheet over img.
func NewSpritesheet(name string, img image.Image, spriteWidth, spriteHeight int) *Spritesheet {
	return &Spritesheet{
		Name:         name,
		Image:        img,
		SpriteWidth:  spriteWidth,
		SpriteHeight: spriteHeight,
	}
}

// Columns returns the number of sprites per row for the given margin and
// spacing.
func (s *Spritesheet) Columns(margin, spacing int) int {
	if s.SpriteWidth <= 0 {
		return 0
	}
	w := s.Image.Bounds().Dx() - 2*margin + spacing
	return w / (s.SpriteWidth + spacing)
}

// Rows returns the number of sprite rows for the given margin and spacing.
func (s *Spritesheet) Rows(margin, spacing int) int {
	if s.SpriteHeight <= 0 {
		return 0
	}
	h := s.Image.Bounds().Dy() - 2*margin + spacing
	return h / (s.SpriteHeight + spacing)
}

// SpriteRect returns the source rectangle of the sprite at index.
func (s *Spritesheet) SpriteRect(index, margin, spacing int) (image.Rectangle, bool) {
	cols := s.Columns(margin, spacing)
	if index < 0 || cols <= 0 || index/cols >= s.Rows(margin, spacing) {
		return image.Rectangle{}, false
	}

	b := s.Image.Bounds()
	x := b.Min.X + margin + (index%cols)*(s.SpriteWidth+spacing)
	y := b.Min.Y + margin + (index/cols)*(s.SpriteHeight+spacing)
	return image.Rect(x, y, x+s.SpriteWidth, y+s.SpriteHeight), true
}

// Sprite returns the sprite at index, or nil when the index lies outside the
// sheet.
func (s *Spritesheet) Sprite(index, margin, spacing int) image.Image {
	return s.Variant(index, margin, spacing, 0, nil)
}

// Variant returns a derived version of the sprite at index, built once by fn
// and memoized under variant. Variant 0 is the untransformed sprite and fn
// may be nil for it.
func (s *Spritesheet) Variant(index, margin, spacing int, variant uint8, fn func(image.Image) image.Image) image.Image {
	key := spriteKey{index: index, margin: margin, spacing: spacing, variant: variant}
	if img, ok := s.sprites.Load(key); ok {
		return img.(image.Image)
	}

	var img image.Image
	if variant == 0 || fn == nil {
		r, ok := s.SpriteRect(index, margin, spacing)
		if !ok {
			return nil
		}
		sub, ok := s.Image.(subImager)
		if !ok {
			return nil
		}
		img = sub.SubImage(r)
	} else {
		base := s.Sprite(index, margin, spacing)
		if base == nil {
			return nil
		}
		img = fn(base)
	}

	actual, _ := s.sprites.LoadOrStore(key, img)
	return actual.(image.Image)
}
