package maprender

import (
	"image"

	"chosenoffset.com/tilecomp/internal/tilemap"
)

// Orthogonal renders maps laid out on a rectangular grid.
type Orthogonal struct {
	base
}

// NewOrthogonal creates an orthogonal compositor.
func NewOrthogonal(opts Options) *Orthogonal {
	return &Orthogonal{base: newBase(tilemap.Orthogonal, opts, orthogonalCells)}
}

// orthogonalCells visits only the columns and rows the viewport covers.
func orthogonalCells(m *tilemap.Map, layer *tilemap.TileLayer, viewport image.Rectangle, visit func(x, y int)) {
	if m.Orientation != tilemap.Orthogonal || m.TileWidth <= 0 || m.TileHeight <= 0 {
		allCells(m, layer, viewport, visit)
		return
	}
	if viewport.Empty() {
		return
	}

	x0 := max(floorDiv(viewport.Min.X, m.TileWidth), 0)
	y0 := max(floorDiv(viewport.Min.Y, m.TileHeight), 0)
	x1 := min(ceilDiv(viewport.Max.X, m.TileWidth), layer.Width)
	y1 := min(ceilDiv(viewport.Max.Y, m.TileHeight), layer.Height)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			visit(x, y)
		}
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}
