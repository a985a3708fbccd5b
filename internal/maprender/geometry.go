package maprender

import (
	"image"

	"chosenoffset.com/tilecomp/internal/tilemap"
)

// Footprint returns the pixel rectangle of grid cell (x, y).
func Footprint(m *tilemap.Map, x, y int) image.Rectangle {
	return m.TileShape(x, y)
}

// Offset returns the drawing offset of a tile: the tileset offset, corrected
// for tilesets whose tiles are larger or smaller than the map grid, plus the
// layer offset.
func Offset(ts *tilemap.Tileset, layer tilemap.Layer, mapTileSize image.Point) image.Point {
	var d image.Point
	if layer != nil {
		d = layer.LayerOffset()
	}
	if ts != nil {
		d.X += ts.Offset.X - (ts.TileWidth - mapTileSize.X)
		d.Y += ts.Offset.Y - (ts.TileHeight - mapTileSize.Y)
	}
	return d
}
