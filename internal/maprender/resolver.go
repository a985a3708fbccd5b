package maprender

import (
	"image"

	"github.com/disintegration/imaging"

	"chosenoffset.com/tilecomp/internal/assets"
	"chosenoffset.com/tilecomp/internal/tilemap"
)

// Sprite variants, one bit per flip flag.
const (
	variantFlipD uint8 = 1 << iota
	variantFlipH
	variantFlipV
)

// Resolver looks up the source image of a tile at a point in time.
type Resolver struct {
	Assets assets.Provider
}

// Resolve returns the correctly oriented image for tile at nowMs milliseconds
// since start, or nil when the tile cannot be drawn.
func (r *Resolver) Resolve(ts *tilemap.Tileset, tile *tilemap.Tile, nowMs int64) image.Image {
	if tile == nil || ts == nil || tile.GridID < ts.FirstGID || r.Assets == nil {
		return nil
	}

	sheet, ok := r.Assets.Spritesheet(ts.Image)
	if !ok || sheet == nil {
		return nil
	}

	index := ts.LocalIndex(tile.GridID)
	if anim, ok := ts.Animation(index); ok {
		if frame, ok := anim.FrameAt(nowMs); ok {
			index = frame.TileID
		}
	}

	if !tile.Flipped() {
		return sheet.Sprite(index, ts.Margin, ts.Spacing)
	}

	t := *tile
	return sheet.Variant(index, ts.Margin, ts.Spacing, flipVariant(tile), func(img image.Image) image.Image {
		return Transform(img, &t)
	})
}

func flipVariant(t *tilemap.Tile) uint8 {
	var v uint8
	if t.FlipD {
		v |= variantFlipD
	}
	if t.FlipH {
		v |= variantFlipH
	}
	if t.FlipV {
		v |= variantFlipV
	}
	return v
}

// Transform applies the tile's flip flags to img. A diagonal flip rotates the
// image 90 degrees clockwise and then flips it vertically; horizontal and
// vertical flips follow in that order.
func Transform(img image.Image, t *tilemap.Tile) image.Image {
	if t == nil || !t.Flipped() {
		return img
	}

	out := img
	if t.FlipD {
		// imaging rotates counter-clockwise.
		out = imaging.FlipV(imaging.Rotate270(out))
	}
	if t.FlipH {
		out = imaging.FlipH(out)
	}
	if t.FlipV {
		out = imaging.FlipV(out)
	}
	return out
}
