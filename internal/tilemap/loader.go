package tilemap

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
)

// PointData is a JSON pixel offset.
type PointData struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// AnimationData binds an animation to a local tile index.
type AnimationData struct {
	Tile   int     `json:"tile"`
	Frames []Frame `json:"frames"`
}

// TilesetData is the JSON form of a tileset.
type TilesetData struct {
	Name       string          `json:"name"`
	FirstGID   int             `json:"first_gid"`
	TileWidth  int             `json:"tile_width"`
	TileHeight int             `json:"tile_height"`
	Margin     int             `json:"margin"`
	Spacing    int             `json:"spacing"`
	TileCount  int             `json:"tile_count"`
	Offset     PointData       `json:"offset"`
	Image      string          `json:"image"` // Path relative to the map's asset dir
	Animations []AnimationData `json:"animations"`
}

// LayerData is the JSON form of a tile or image layer.
type LayerData struct {
	Type       string    `json:"type"` // "tile" (default) or "image"
	Name       string    `json:"name"`
	Visible    *bool     `json:"visible"`
	Opacity    *float64  `json:"opacity"`
	Offset     PointData `json:"offset"`
	RenderType string    `json:"render_type"`
	Data       []uint32  `json:"data"`  // Encoded GIDs, row-major
	Image      string    `json:"image"` // Image layers only
}

// MapData represents the JSON map file.
type MapData struct {
	Name          string        `json:"name"`
	Orientation   string        `json:"orientation"`
	Width         int           `json:"width"`
	Height        int           `json:"height"`
	TileWidth     int           `json:"tile_width"`
	TileHeight    int           `json:"tile_height"`
	HexSideLength int           `json:"hex_side_length"`
	StaggerAxis   string        `json:"stagger_axis"`  // "x" or "y"
	StaggerIndex  string        `json:"stagger_index"` // "odd" or "even"
	Tilesets      []TilesetData `json:"tilesets"`
	Layers        []LayerData   `json:"layers"`
}

// LoadMap loads a map from a JSON file.
func LoadMap(mapPath string) (*Map, error) {
	data, err := os.ReadFile(mapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file %s: %w", mapPath, err)
	}

	m, err := ParseMap(data)
	if err != nil {
		return nil, fmt.Errorf("invalid map file %s: %w", mapPath, err)
	}
	return m, nil
}

// ParseMap decodes and validates a JSON map.
func ParseMap(data []byte) (*Map, error) {
	var mapData MapData
	if err := json.Unmarshal(data, &mapData); err != nil {
		return nil, fmt.Errorf("failed to parse map: %w", err)
	}

	if err := validateMapData(&mapData); err != nil {
		return nil, err
	}

	return mapData.build()
}

// validateMapData checks if the map data is valid
func validateMapData(data *MapData) error {
	if data.Name == "" {
		return fmt.Errorf("map name is required")
	}

	if data.Width <= 0 || data.Height <= 0 {
		return fmt.Errorf("invalid map dimensions: %dx%d", data.Width, data.Height)
	}

	if data.TileWidth <= 0 || data.TileHeight <= 0 {
		return fmt.Errorf("invalid tile size: %dx%d", data.TileWidth, data.TileHeight)
	}

	for i, ts := range data.Tilesets {
		if ts.FirstGID <= 0 {
			return fmt.Errorf("tileset %d (%s): first_gid must be positive", i, ts.Name)
		}
		if ts.TileWidth <= 0 || ts.TileHeight <= 0 {
			return fmt.Errorf("tileset %d (%s): invalid tile size: %dx%d", i, ts.Name, ts.TileWidth, ts.TileHeight)
		}
		if ts.Image == "" {
			return fmt.Errorf("tileset %d (%s): image is required", i, ts.Name)
		}
	}

	names := make(map[string]int, len(data.Layers))
	for i, l := range data.Layers {
		if l.Name == "" {
			return fmt.Errorf("layer %d: name is required", i)
		}
		if prev, ok := names[l.Name]; ok {
			return fmt.Errorf("layer %d (%s): name already used by layer %d", i, l.Name, prev)
		}
		names[l.Name] = i

		if l.Opacity != nil && (*l.Opacity < 0 || *l.Opacity > 1) {
			return fmt.Errorf("layer %d (%s): opacity %v out of range", i, l.Name, *l.Opacity)
		}
		switch l.Type {
		case "", "tile":
			if len(l.Data) != data.Width*data.Height {
				return fmt.Errorf("layer %d (%s): data length mismatch: expected %d, got %d",
					i, l.Name, data.Width*data.Height, len(l.Data))
			}
		case "image":
			if l.Image == "" {
				return fmt.Errorf("layer %d (%s): image is required", i, l.Name)
			}
		default:
			return fmt.Errorf("layer %d (%s): unknown layer type %q", i, l.Name, l.Type)
		}
	}

	return nil
}

func (d *MapData) build() (*Map, error) {
	orientation, err := ParseOrientation(d.Orientation)
	if err != nil {
		return nil, err
	}

	m := &Map{
		Name:        d.Name,
		Orientation: orientation,
		Width:       d.Width,
		Height:      d.Height,
		TileWidth:   d.TileWidth,
		TileHeight:  d.TileHeight,
		Hex:         HexParams{SideLength: d.HexSideLength},
	}
	if d.StaggerAxis == "x" {
		m.Hex.Axis = StaggerX
	}
	if d.StaggerIndex == "even" {
		m.Hex.Index = StaggerEven
	}

	for _, td := range d.Tilesets {
		ts := &Tileset{
			Name:       td.Name,
			FirstGID:   td.FirstGID,
			TileWidth:  td.TileWidth,
			TileHeight: td.TileHeight,
			Margin:     td.Margin,
			Spacing:    td.Spacing,
			TileCount:  td.TileCount,
			Offset:     image.Pt(td.Offset.X, td.Offset.Y),
			Image:      td.Image,
		}
		if len(td.Animations) > 0 {
			ts.Animations = make(map[int]*Animation, len(td.Animations))
			for _, ad := range td.Animations {
				ts.Animations[ad.Tile] = &Animation{Frames: ad.Frames}
			}
		}
		m.Tilesets = append(m.Tilesets, ts)
	}

	for _, ld := range d.Layers {
		props, err := ld.props()
		if err != nil {
			return nil, err
		}

		if ld.Type == "image" {
			m.Layers = append(m.Layers, &ImageLayer{LayerProps: props, Image: ld.Image})
			continue
		}

		tl := &TileLayer{LayerProps: props, Width: d.Width, Height: d.Height, Tiles: make([]*Tile, len(ld.Data))}
		for i, raw := range ld.Data {
			tl.Tiles[i] = DecodeGID(raw)
		}
		m.Layers = append(m.Layers, tl)
	}

	return m, nil
}

func (ld *LayerData) props() (LayerProps, error) {
	props := LayerProps{
		Name:       ld.Name,
		Visible:    true,
		Opacity:    1,
		Offset:     image.Pt(ld.Offset.X, ld.Offset.Y),
		RenderType: Ground,
	}
	if ld.Type == "image" {
		props.RenderType = Background
	}
	if ld.Visible != nil {
		props.Visible = *ld.Visible
	}
	if ld.Opacity != nil {
		props.Opacity = *ld.Opacity
	}
	if ld.RenderType != "" {
		rt, err := ParseRenderType(ld.RenderType)
		if err != nil {
			return props, fmt.Errorf("layer %s: %w", ld.Name, err)
		}
		props.RenderType = rt
	}
	return props, nil
}
