package maprender

import (
	"image"
	"image/color"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"chosenoffset.com/tilecomp/internal/assets"
	"chosenoffset.com/tilecomp/internal/render/cache"
	"chosenoffset.com/tilecomp/internal/tilemap"
)

const (
	spriteSize  = 2
	spriteCount = 8
)

var background = color.RGBA{B: 200, A: 255}

// spriteColor is the solid color of sprite i in the test sheet.
func spriteColor(i int) color.RGBA {
	return color.RGBA{R: uint8(20 * (i + 1)), A: 255}
}

func testSheet() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, spriteCount*spriteSize, spriteSize))
	for i := 0; i < spriteCount; i++ {
		c := spriteColor(i)
		for y := 0; y < spriteSize; y++ {
			for x := i * spriteSize; x < (i+1)*spriteSize; x++ {
				img.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A})
			}
		}
	}
	return img
}

// countingProvider counts sprite sheet lookups, i.e. resolved tiles.
type countingProvider struct {
	assets.Provider
	lookups atomic.Int32
}

func (p *countingProvider) Spritesheet(name string) (*assets.Spritesheet, bool) {
	p.lookups.Add(1)
	return p.Provider.Spritesheet(name)
}

func testAssets(t *testing.T) *countingProvider {
	t.Helper()
	reg := assets.NewRegistry()
	require.NoError(t, reg.RegisterSheet(assets.NewSpritesheet("sheet.png", testSheet(), spriteSize, spriteSize)))
	return &countingProvider{Provider: reg}
}

func testTileset() *tilemap.Tileset {
	return &tilemap.Tileset{
		Name:       "terrain",
		FirstGID:   1,
		TileWidth:  spriteSize,
		TileHeight: spriteSize,
		TileCount:  spriteCount,
		Image:      "sheet.png",
	}
}

// testMap builds a width x height orthogonal map named "testmap" with one
// ground layer filled with gid.
func testMap(width, height, gid int) *tilemap.Map {
	ground := tilemap.NewTileLayer("ground", width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			ground.SetTile(x, y, &tilemap.Tile{GridID: gid})
		}
	}
	return &tilemap.Map{
		Name:       "testmap",
		Width:      width,
		Height:     height,
		TileWidth:  spriteSize,
		TileHeight: spriteSize,
		Tilesets:   []*tilemap.Tileset{testTileset()},
		Layers:     []tilemap.Layer{ground},
	}
}

func testOptions(provider assets.Provider, now int64) Options {
	return Options{
		Assets: provider,
		Cache:  cache.NewStore(),
		Clock:  FixedClock(now * 1e6),
	}
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}
