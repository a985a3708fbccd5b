package tilemap

import (
	"fmt"
	"image"
	"strings"
)

// Orientation is the grid layout of a map.
type Orientation int

const (
	Orthogonal Orientation = iota
	Isometric
	Staggered
	Hexagonal
)

var orientationNames = [...]string{"orthogonal", "isometric", "staggered", "hexagonal"}

func (o Orientation) String() string {
	if o < 0 || int(o) >= len(orientationNames) {
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
	return orientationNames[o]
}

// ParseOrientation parses an orientation name. An empty string means
// orthogonal.
func ParseOrientation(s string) (Orientation, error) {
	if s == "" {
		return Orthogonal, nil
	}
	for i, name := range orientationNames {
		if strings.EqualFold(s, name) {
			return Orientation(i), nil
		}
	}
	return 0, fmt.Errorf("unknown orientation: %q", s)
}

// StaggerAxis selects which axis is staggered on hexagonal maps.
type StaggerAxis int

const (
	StaggerY StaggerAxis = iota // Pointy-top rows are shifted
	StaggerX                    // Flat-top columns are shifted
)

// StaggerIndex selects whether odd or even rows/columns are shifted.
type StaggerIndex int

const (
	StaggerOdd StaggerIndex = iota
	StaggerEven
)

// HexParams describes the staggered hexagonal layout.
type HexParams struct {
	SideLength int
	Axis       StaggerAxis
	Index      StaggerIndex
}

func (h HexParams) staggered(i int) bool {
	if h.Index == StaggerEven {
		return i%2 == 0
	}
	return i%2 == 1
}

// tileShape returns the pixel rectangle covered by grid cell (x, y).
func tileShape(m *Map, x, y int) image.Rectangle {
	tw, th := m.TileWidth, m.TileHeight
	if m.Orientation != Hexagonal {
		return image.Rect(x*tw, y*th, (x+1)*tw, (y+1)*th)
	}

	h := m.Hex
	switch h.Axis {
	case StaggerX:
		sideOffsetX := (tw - h.SideLength) / 2
		columnWidth := sideOffsetX + h.SideLength
		px := x * columnWidth
		py := y * th
		if h.staggered(x) {
			py += th / 2
		}
		return image.Rect(px, py, px+tw, py+th)
	default:
		sideOffsetY := (th - h.SideLength) / 2
		rowHeight := sideOffsetY + h.SideLength
		px := x * tw
		py := y * rowHeight
		if h.staggered(y) {
			px += tw / 2
		}
		return image.Rect(px, py, px+tw, py+th)
	}
}

// pixelSize returns the size of the area covered by all cells of the map.
func pixelSize(m *Map) image.Point {
	tw, th := m.TileWidth, m.TileHeight
	if m.Orientation != Hexagonal {
		return image.Pt(m.Width*tw, m.Height*th)
	}

	h := m.Hex
	switch h.Axis {
	case StaggerX:
		sideOffsetX := (tw - h.SideLength) / 2
		columnWidth := sideOffsetX + h.SideLength
		height := m.Height * th
		if m.Width > 1 {
			height += th / 2
		}
		return image.Pt(m.Width*columnWidth+sideOffsetX, height)
	default:
		sideOffsetY := (th - h.SideLength) / 2
		rowHeight := sideOffsetY + h.SideLength
		width := m.Width * tw
		if m.Height > 1 {
			width += tw / 2
		}
		return image.Pt(width, m.Height*rowHeight+sideOffsetY)
	}
}
