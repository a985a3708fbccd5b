// Package tilemap holds the declarative map model consumed by the renderer:
// ordered tile and image layers, tilesets with animations and per-tile flip
// flags. Maps are read-only while they are being rendered.
package tilemap

import "image"

// Map is a loaded tile map.
type Map struct {
	Name        string // Cache key root
	Orientation Orientation
	Width       int // In tiles
	Height      int // In tiles
	TileWidth   int
	TileHeight  int
	Hex         HexParams
	Tilesets    []*Tileset
	Layers      []Layer // Bottom first
}

// PixelSize returns the size of the map in pixels.
func (m *Map) PixelSize() image.Point {
	return pixelSize(m)
}

// TileSize returns the map's grid cell size.
func (m *Map) TileSize() image.Point {
	return image.Pt(m.TileWidth, m.TileHeight)
}

// TileShape returns the pixel rectangle covered by grid cell (x, y).
func (m *Map) TileShape(x, y int) image.Rectangle {
	return tileShape(m, x, y)
}

// TileLayers returns the tile layers in draw order.
func (m *Map) TileLayers() []*TileLayer {
	var layers []*TileLayer
	for _, l := range m.Layers {
		if tl, ok := l.(*TileLayer); ok {
			layers = append(layers, tl)
		}
	}
	return layers
}

// Layer returns the layer with the given name.
func (m *Map) Layer(name string) (Layer, bool) {
	for _, l := range m.Layers {
		if l != nil && l.LayerName() == name {
			return l, true
		}
	}
	return nil, false
}

// FindTileset returns the tileset a tile belongs to. When several tilesets
// could match, the one with the highest first grid id wins.
func (m *Map) FindTileset(t *Tile) *Tileset {
	if t == nil {
		return nil
	}

	var match *Tileset
	for _, ts := range m.Tilesets {
		if ts == nil || !ts.Contains(t.GridID) {
			continue
		}
		if match == nil || ts.FirstGID > match.FirstGID {
			match = ts
		}
	}
	return match
}

// HasAnimation reports whether the tile refers to an animated tileset entry.
func (m *Map) HasAnimation(t *Tile) bool {
	ts := m.FindTileset(t)
	if ts == nil {
		return false
	}
	_, ok := ts.Animation(ts.LocalIndex(t.GridID))
	return ok
}
