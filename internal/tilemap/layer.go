package tilemap

import "image"

// Layer is an ordered plane of content, composited bottom to top.
type Layer interface {
	LayerName() string
	IsVisible() bool
	LayerOpacity() float64
	LayerOffset() image.Point
	LayerRenderType() RenderType
}

// LayerProps holds the properties shared by every layer kind.
type LayerProps struct {
	Name       string
	Visible    bool
	Opacity    float64 // In [0, 1]
	Offset     image.Point
	RenderType RenderType
}

func (p *LayerProps) LayerName() string           { return p.Name }
func (p *LayerProps) IsVisible() bool             { return p.Visible }
func (p *LayerProps) LayerOpacity() float64       { return p.Opacity }
func (p *LayerProps) LayerOffset() image.Point    { return p.Offset }
func (p *LayerProps) LayerRenderType() RenderType { return p.RenderType }

// TileLayer is a grid of optional tile references.
type TileLayer struct {
	LayerProps
	Width  int
	Height int
	Tiles  []*Tile // Row-major, len = Width * Height; nil entries are empty cells
}

// NewTileLayer creates a visible, fully opaque, empty tile layer.
func NewTileLayer(name string, width, height int) *TileLayer {
	return &TileLayer{
		LayerProps: LayerProps{Name: name, Visible: true, Opacity: 1, RenderType: Ground},
		Width:      width,
		Height:     height,
		Tiles:      make([]*Tile, width*height),
	}
}

// Tile returns the tile at the given grid coordinates, or nil when the cell is
// empty or out of bounds.
func (l *TileLayer) Tile(x, y int) *Tile {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return nil
	}
	return l.Tiles[y*l.Width+x]
}

// SetTile replaces the tile at the given grid coordinates. Out of bounds
// coordinates are ignored.
func (l *TileLayer) SetTile(x, y int, t *Tile) {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return
	}
	l.Tiles[y*l.Width+x] = t
}

// ImageLayer is a single static image drawn as a whole.
type ImageLayer struct {
	LayerProps
	Image string // Source identifier resolved by the asset provider
}

// NewImageLayer creates a visible, fully opaque image layer.
func NewImageLayer(name, source string) *ImageLayer {
	return &ImageLayer{
		LayerProps: LayerProps{Name: name, Visible: true, Opacity: 1, RenderType: Background},
		Image:      source,
	}
}
