// Package ebiten implements render.Surface on top of ebiten images and runs
// an interactive map viewer.
package ebiten

import (
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"chosenoffset.com/tilecomp/internal/render"
)

// TextureCache uploads CPU images to the GPU once per image value. Resolved
// sprites and cached composites keep their identity between frames, so each
// is uploaded a single time.
type TextureCache struct {
	mu       sync.Mutex
	textures map[image.Image]*ebiten.Image
}

// NewTextureCache creates an empty texture cache.
func NewTextureCache() *TextureCache {
	return &TextureCache{textures: make(map[image.Image]*ebiten.Image)}
}

// Texture returns the GPU image for img.
func (c *TextureCache) Texture(img image.Image) *ebiten.Image {
	if eimg, ok := img.(*ebiten.Image); ok {
		return eimg
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if tex, ok := c.textures[img]; ok {
		return tex
	}
	tex := ebiten.NewImageFromImage(img)
	c.textures[img] = tex
	return tex
}

// Clear disposes every uploaded texture. Call it after invalidating cached
// composites so stale buffers are released.
func (c *TextureCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, tex := range c.textures {
		tex.Dispose()
	}
	c.textures = make(map[image.Image]*ebiten.Image)
}

// Len returns the number of uploaded textures.
func (c *TextureCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.textures)
}

// Surface draws onto an ebiten image.
type Surface struct {
	img      *ebiten.Image
	alpha    float64
	textures *TextureCache
}

var _ render.Surface = (*Surface)(nil)

// NewSurface wraps dst. Textures are shared through textures.
func NewSurface(dst *ebiten.Image, textures *TextureCache) *Surface {
	if textures == nil {
		textures = NewTextureCache()
	}
	return &Surface{img: dst, alpha: 1, textures: textures}
}

// Image returns the underlying ebiten.Image.
func (s *Surface) Image() *ebiten.Image {
	return s.img
}

// Bounds returns the bounds of the target image.
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

// DrawImage draws img at (x, y) scaled by the compositing alpha.
func (s *Surface) DrawImage(img image.Image, x, y float64) {
	if img == nil || s.alpha <= 0 {
		return
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate(x, y)
	opts.ColorScale.ScaleAlpha(float32(s.alpha))
	s.img.DrawImage(s.textures.Texture(img), opts)
}
