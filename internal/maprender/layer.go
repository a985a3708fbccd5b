package maprender

import (
	"image"
	"log"

	"chosenoffset.com/tilecomp/internal/render"
	"chosenoffset.com/tilecomp/internal/render/cache"
	"chosenoffset.com/tilecomp/internal/render/raster"
	"chosenoffset.com/tilecomp/internal/tilemap"
)

// cellVisitor enumerates the cells of a layer whose footprint may overlap a
// viewport. Implementations may return extra cells; callers still test the
// footprint.
type cellVisitor func(m *tilemap.Map, layer *tilemap.TileLayer, viewport image.Rectangle, visit func(x, y int))

// layerCompositor draws tile layers, either into a cached full-layer buffer
// or straight onto a target clipped to a viewport.
type layerCompositor struct {
	resolver Resolver
	cache    *cache.Store
	clock    Clock
	logger   *log.Logger
	cells    cellVisitor
}

// layerImage returns the composite of every tile of layer, the layer at index
// in the map's stack, sized to the map.
// The buffer is cached and reflects animated tiles as of the moment it was
// built; with includeAnimated false they are left out.
func (c *layerCompositor) layerImage(m *tilemap.Map, index int, layer *tilemap.TileLayer, includeAnimated bool) image.Image {
	return c.cache.GetOrCreate(cache.LayerKey(m.Name, index, layer.Name), func() image.Image {
		size := m.PixelSize()
		buf := raster.New(size.X, size.Y)
		buf.SetAlpha(layer.Opacity)

		now := millis(c.clock)
		drawn := 0
		for y := 0; y < layer.Height; y++ {
			for x := 0; x < layer.Width; x++ {
				tile := layer.Tile(x, y)
				if tile == nil || (!includeAnimated && m.HasAnimation(tile)) {
					continue
				}
				if c.drawTile(buf, m, layer, tile, Footprint(m, x, y).Min, now) {
					drawn++
				}
			}
		}

		c.logger.Printf("composited layer %s of map %s (%d tiles)", layer.Name, m.Name, drawn)
		return buf.Image()
	})
}

// renderViewport draws the tiles of layer that overlap viewport directly onto
// target, resolving animations at the current time.
func (c *layerCompositor) renderViewport(target render.Surface, m *tilemap.Map, layer *tilemap.TileLayer, viewport image.Rectangle) {
	restore := render.WithAlpha(target, layer.Opacity)
	defer restore()

	now := millis(c.clock)
	c.cells(m, layer, viewport, func(x, y int) {
		tile := layer.Tile(x, y)
		if tile == nil {
			return
		}
		bounds := Footprint(m, x, y)
		if !bounds.Overlaps(viewport) {
			return
		}
		c.drawTile(target, m, layer, tile, bounds.Min.Sub(viewport.Min), now)
	})
}

// drawTile draws one tile with its origin at pos plus the composed tile
// offset. It reports whether anything was drawn.
func (c *layerCompositor) drawTile(target render.Surface, m *tilemap.Map, layer *tilemap.TileLayer, tile *tilemap.Tile, pos image.Point, now int64) bool {
	ts := m.FindTileset(tile)
	if ts == nil {
		return false
	}

	img := c.resolver.Resolve(ts, tile, now)
	if img == nil {
		return false
	}

	p := pos.Add(Offset(ts, layer, m.TileSize()))
	target.DrawImage(img, float64(p.X), float64(p.Y))
	return true
}

// allCells visits every cell of the layer in row-major order.
func allCells(_ *tilemap.Map, layer *tilemap.TileLayer, _ image.Rectangle, visit func(x, y int)) {
	for y := 0; y < layer.Height; y++ {
		for x := 0; x < layer.Width; x++ {
			visit(x, y)
		}
	}
}
