package maprender

import "chosenoffset.com/tilecomp/internal/tilemap"

// Hexagonal renders staggered hexagonal maps. Staggered rows overlap, so every
// cell is tested against the viewport.
type Hexagonal struct {
	base
}

// NewHexagonal creates a hexagonal compositor.
func NewHexagonal(opts Options) *Hexagonal {
	return &Hexagonal{base: newBase(tilemap.Hexagonal, opts, allCells)}
}
