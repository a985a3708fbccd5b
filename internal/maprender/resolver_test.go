package maprender

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/tilecomp/internal/assets"
	"chosenoffset.com/tilecomp/internal/tilemap"
)

func TestResolveMissingData(t *testing.T) {
	r := Resolver{Assets: testAssets(t)}
	ts := testTileset()
	ts.FirstGID = 5

	assert.Nil(t, r.Resolve(ts, &tilemap.Tile{GridID: 4}, 0))
	assert.Nil(t, r.Resolve(ts, &tilemap.Tile{GridID: 0}, 0))
	assert.Nil(t, r.Resolve(ts, nil, 0))
	assert.Nil(t, r.Resolve(nil, &tilemap.Tile{GridID: 5}, 0))

	ts.Image = "missing.png"
	assert.Nil(t, r.Resolve(ts, &tilemap.Tile{GridID: 5}, 0))

	assert.Nil(t, (&Resolver{}).Resolve(testTileset(), &tilemap.Tile{GridID: 1}, 0))
}

func TestResolveStaticTile(t *testing.T) {
	r := Resolver{Assets: testAssets(t)}

	img := r.Resolve(testTileset(), &tilemap.Tile{GridID: 3}, 0)
	require.NotNil(t, img)
	b := img.Bounds()
	assert.Equal(t, spriteSize, b.Dx())
	assert.Equal(t, spriteColor(2), rgbaAt(img, b.Min.X, b.Min.Y))
}

func TestResolveAnimationFrames(t *testing.T) {
	r := Resolver{Assets: testAssets(t)}
	ts := testTileset()
	ts.Animations = map[int]*tilemap.Animation{
		0: {Frames: []tilemap.Frame{
			{TileID: 4, Duration: 100},
			{TileID: 5, Duration: 200},
			{TileID: 6, Duration: 300},
		}},
	}

	tests := []struct {
		now   int64
		frame int
	}{
		{0, 0}, {99, 0}, {100, 1}, {300, 2}, {599, 2}, {600, 0},
	}

	for _, tt := range tests {
		img := r.Resolve(ts, &tilemap.Tile{GridID: 1}, tt.now)
		require.NotNil(t, img)
		b := img.Bounds()
		want := spriteColor(ts.Animations[0].Frames[tt.frame].TileID)
		assert.Equal(t, want, rgbaAt(img, b.Min.X, b.Min.Y), "at %dms", tt.now)
	}
}

func TestResolveZeroDurationAnimationIsStatic(t *testing.T) {
	r := Resolver{Assets: testAssets(t)}
	ts := testTileset()
	ts.Animations = map[int]*tilemap.Animation{
		0: {Frames: []tilemap.Frame{{TileID: 4, Duration: 0}}},
	}

	img := r.Resolve(ts, &tilemap.Tile{GridID: 1}, 12345)
	require.NotNil(t, img)
	assert.Equal(t, spriteColor(0), rgbaAt(img, img.Bounds().Min.X, img.Bounds().Min.Y))
}

var (
	pixA = color.NRGBA{R: 255, A: 255}
	pixB = color.NRGBA{G: 255, A: 255}
	pixC = color.NRGBA{B: 255, A: 255}
	pixD = color.NRGBA{R: 255, G: 255, A: 255}
)

// quad returns the 2x2 image
//
//	A B
//	C D
func quad() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, pixA)
	img.SetNRGBA(1, 0, pixB)
	img.SetNRGBA(0, 1, pixC)
	img.SetNRGBA(1, 1, pixD)
	return img
}

func pixels(img image.Image) [2][2]color.NRGBA {
	var out [2][2]color.NRGBA
	b := img.Bounds()
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			out[y][x] = color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
		}
	}
	return out
}

func TestTransform(t *testing.T) {
	tests := []struct {
		name string
		tile tilemap.Tile
		want [2][2]color.NRGBA
	}{
		{"none", tilemap.Tile{}, [2][2]color.NRGBA{{pixA, pixB}, {pixC, pixD}}},
		{"horizontal", tilemap.Tile{FlipH: true}, [2][2]color.NRGBA{{pixB, pixA}, {pixD, pixC}}},
		{"vertical", tilemap.Tile{FlipV: true}, [2][2]color.NRGBA{{pixC, pixD}, {pixA, pixB}}},
		// rotate 90 clockwise: C A / D B, then vertical flip.
		{"diagonal", tilemap.Tile{FlipD: true}, [2][2]color.NRGBA{{pixD, pixB}, {pixC, pixA}}},
		{"diagonal horizontal", tilemap.Tile{FlipD: true, FlipH: true}, [2][2]color.NRGBA{{pixB, pixD}, {pixA, pixC}}},
		{"diagonal vertical", tilemap.Tile{FlipD: true, FlipV: true}, [2][2]color.NRGBA{{pixC, pixA}, {pixD, pixB}}},
		{"all", tilemap.Tile{FlipD: true, FlipH: true, FlipV: true}, [2][2]color.NRGBA{{pixA, pixC}, {pixB, pixD}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tile := tt.tile
			assert.Equal(t, tt.want, pixels(Transform(quad(), &tile)))
		})
	}
}

func TestResolveAppliesFlips(t *testing.T) {
	sheet := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	sheet.SetNRGBA(2, 0, pixA)
	sheet.SetNRGBA(3, 0, pixB)
	sheet.SetNRGBA(2, 1, pixC)
	sheet.SetNRGBA(3, 1, pixD)

	reg := assets.NewRegistry()
	require.NoError(t, reg.RegisterSheet(assets.NewSpritesheet("quad.png", sheet, 2, 2)))
	r := Resolver{Assets: reg}
	ts := &tilemap.Tileset{FirstGID: 1, TileWidth: 2, TileHeight: 2, Image: "quad.png"}

	tile := &tilemap.Tile{GridID: 2, FlipD: true, FlipH: true}
	first := r.Resolve(ts, tile, 0)
	require.NotNil(t, first)
	assert.Equal(t, [2][2]color.NRGBA{{pixB, pixD}, {pixA, pixC}}, pixels(first))

	// Flipped sprites are memoized per flip combination.
	assert.Same(t, first, r.Resolve(ts, &tilemap.Tile{GridID: 2, FlipD: true, FlipH: true}, 0))
	assert.Equal(t, [2][2]color.NRGBA{{pixA, pixB}, {pixC, pixD}}, pixels(r.Resolve(ts, &tilemap.Tile{GridID: 2}, 0)))
}
