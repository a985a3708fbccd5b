// Package sample generates a small tileset and map for trying the renderer
// without authoring assets.
package sample

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"chosenoffset.com/tilecomp/internal/export"
	"chosenoffset.com/tilecomp/internal/tilemap"
)

// TileSize is the edge length of every generated tile
const TileSize = 16

// Local tile indices in the generated sheet
const (
	TileFloor = iota
	TileFloorCobble
	TileWall
	TileTorch1
	TileTorch2
	TileTorch3
	TileRoof
	TileArrow
	tileCount
)

const sheetColumns = 4

// Palette defines the generated colors
var Palette = struct {
	Floor      color.RGBA
	FloorDark  color.RGBA
	Wall       color.RGBA
	WallEdge   color.RGBA
	Flame      color.RGBA
	FlameHot   color.RGBA
	Roof       color.RGBA
	Arrow      color.RGBA
	Background color.RGBA
}{
	Floor:      color.RGBA{70, 65, 60, 255},
	FloorDark:  color.RGBA{55, 50, 45, 255},
	Wall:       color.RGBA{130, 125, 115, 255},
	WallEdge:   color.RGBA{110, 100, 90, 255},
	Flame:      color.RGBA{220, 140, 50, 255},
	FlameHot:   color.RGBA{255, 220, 120, 255},
	Roof:       color.RGBA{100, 80, 60, 255},
	Arrow:      color.RGBA{0, 255, 100, 255},
	Background: color.RGBA{30, 28, 25, 255},
}

// Options selects the generated map's layout
type Options struct {
	Name      string
	Width     int
	Height    int
	Hexagonal bool
}

func solidTile(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

func borderedTile(fill, border color.RGBA, width int) *image.RGBA {
	img := solidTile(fill)
	for i := 0; i < width; i++ {
		for p := 0; p < TileSize; p++ {
			img.SetRGBA(p, i, border)
			img.SetRGBA(p, TileSize-1-i, border)
			img.SetRGBA(i, p, border)
			img.SetRGBA(TileSize-1-i, p, border)
		}
	}
	return img
}

func dottedTile(base, dot color.RGBA) *image.RGBA {
	img := solidTile(base)
	for y := 2; y < TileSize; y += 4 {
		for x := 2; x < TileSize; x += 4 {
			img.SetRGBA(x, y, dot)
		}
	}
	return img
}

// flameTile draws a flame of the given height over a wall tile.
func flameTile(height int) *image.RGBA {
	img := borderedTile(Palette.Wall, Palette.WallEdge, 1)
	mid := TileSize / 2
	for y := TileSize - 3; y >= TileSize-3-height && y >= 0; y-- {
		half := (y - (TileSize - 3 - height)) / 3
		for x := mid - half; x <= mid+half; x++ {
			c := Palette.Flame
			if x == mid {
				c = Palette.FlameHot
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// arrowTile points right along the top edge so flips are visible.
func arrowTile() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
	for x := 2; x < TileSize-2; x++ {
		img.SetRGBA(x, 3, Palette.Arrow)
	}
	for i := 1; i <= 3; i++ {
		img.SetRGBA(TileSize-3-i, 3-i, Palette.Arrow)
		img.SetRGBA(TileSize-3-i, 3+i, Palette.Arrow)
	}
	return img
}

// Tileset draws every generated tile into one sheet.
func Tileset() *image.RGBA {
	tiles := make([]*image.RGBA, tileCount)
	tiles[TileFloor] = solidTile(Palette.Floor)
	tiles[TileFloorCobble] = dottedTile(Palette.Floor, Palette.FloorDark)
	tiles[TileWall] = borderedTile(Palette.Wall, Palette.WallEdge, 2)
	tiles[TileTorch1] = flameTile(4)
	tiles[TileTorch2] = flameTile(7)
	tiles[TileTorch3] = flameTile(10)
	tiles[TileRoof] = dottedTile(Palette.Roof, Palette.WallEdge)
	tiles[TileArrow] = arrowTile()

	rows := (len(tiles) + sheetColumns - 1) / sheetColumns
	sheet := image.NewRGBA(image.Rect(0, 0, sheetColumns*TileSize, rows*TileSize))
	for i, tile := range tiles {
		x := (i % sheetColumns) * TileSize
		y := (i / sheetColumns) * TileSize
		draw.Draw(sheet, image.Rect(x, y, x+TileSize, y+TileSize), tile, image.Point{}, draw.Src)
	}
	return sheet
}

// Map builds the map definition: a walled room with torches on the top wall,
// flipped arrows in the middle row and a translucent roof overlay.
func Map(opts Options, tilesetImage string) (*tilemap.MapData, error) {
	if opts.Width < 3 || opts.Height < 3 {
		return nil, fmt.Errorf("sample map must be at least 3x3, got %dx%d", opts.Width, opts.Height)
	}
	if opts.Name == "" {
		opts.Name = "sample"
	}

	const firstGID = 1
	gid := func(index int, flags uint32) uint32 {
		return uint32(firstGID+index) | flags
	}

	w, h := opts.Width, opts.Height
	ground := make([]uint32, w*h)
	overlay := make([]uint32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			switch {
			case y == 0 && x%3 == 1:
				ground[i] = gid(TileTorch1, 0)
			case x == 0 || y == 0 || x == w-1 || y == h-1:
				ground[i] = gid(TileWall, 0)
			case (x+y)%2 == 0:
				ground[i] = gid(TileFloor, 0)
			default:
				ground[i] = gid(TileFloorCobble, 0)
			}
			if x < w/2 && y < h/2 {
				overlay[i] = gid(TileRoof, 0)
			}
		}
	}

	flips := []uint32{0, tilemap.FlagFlipH, tilemap.FlagFlipV, tilemap.FlagFlipD, tilemap.FlagFlipD | tilemap.FlagFlipH}
	objects := make([]uint32, w*h)
	mid := h / 2
	for x := 1; x < w-1 && x-1 < len(flips); x++ {
		objects[mid*w+x] = gid(TileArrow, flips[x-1])
	}

	roofOpacity := 0.6
	data := &tilemap.MapData{
		Name:       opts.Name,
		Width:      w,
		Height:     h,
		TileWidth:  TileSize,
		TileHeight: TileSize,
		Tilesets: []tilemap.TilesetData{{
			Name:       "sample",
			FirstGID:   firstGID,
			TileWidth:  TileSize,
			TileHeight: TileSize,
			TileCount:  tileCount,
			Image:      tilesetImage,
			Animations: []tilemap.AnimationData{{
				Tile: TileTorch1,
				Frames: []tilemap.Frame{
					{TileID: TileTorch1, Duration: 150},
					{TileID: TileTorch2, Duration: 150},
					{TileID: TileTorch3, Duration: 150},
					{TileID: TileTorch2, Duration: 150},
				},
			}},
		}},
		Layers: []tilemap.LayerData{
			{Name: "ground", RenderType: "ground", Data: ground},
			{Name: "objects", RenderType: "normal", Data: objects},
			{Name: "roof", RenderType: "overlay", Opacity: &roofOpacity, Data: overlay},
		},
	}

	if opts.Hexagonal {
		data.Orientation = "hexagonal"
		data.HexSideLength = TileSize / 2
		data.StaggerAxis = "y"
		data.StaggerIndex = "odd"
	}
	return data, nil
}

// Save writes <name>.json and <name>_tiles.png to dir and returns the map
// path.
func Save(dir string, opts Options) (string, error) {
	if opts.Name == "" {
		opts.Name = "sample"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	sheetName := opts.Name + "_tiles.png"
	if err := export.SavePNG(filepath.Join(dir, sheetName), Tileset()); err != nil {
		return "", err
	}

	data, err := Map(opts, sheetName)
	if err != nil {
		return "", err
	}
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode map: %w", err)
	}

	mapPath := filepath.Join(dir, opts.Name+".json")
	if err := os.WriteFile(mapPath, encoded, 0o644); err != nil {
		return "", fmt.Errorf("failed to write map: %w", err)
	}
	return mapPath, nil
}
