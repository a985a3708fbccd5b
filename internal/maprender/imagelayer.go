package maprender

import (
	"image"

	"chosenoffset.com/tilecomp/internal/assets"
	"chosenoffset.com/tilecomp/internal/render"
	"chosenoffset.com/tilecomp/internal/tilemap"
)

// renderImageLayer draws the image of an image layer at its offset relative
// to the viewport. Layers whose image is not loaded are skipped.
func renderImageLayer(target render.Surface, provider assets.Provider, layer *tilemap.ImageLayer, viewport image.Rectangle) {
	if provider == nil {
		return
	}
	img, ok := provider.Image(layer.Image)
	if !ok || img == nil {
		return
	}

	restore := render.WithAlpha(target, layer.Opacity)
	defer restore()

	p := layer.Offset.Sub(viewport.Min)
	target.DrawImage(img, float64(p.X), float64(p.Y))
}
