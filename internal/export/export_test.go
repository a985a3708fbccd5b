package export

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/tilecomp/internal/assets"
	"chosenoffset.com/tilecomp/internal/render/raster"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestScale(t *testing.T) {
	img := solid(4, 2, color.RGBA{R: 255, A: 255})
	img.SetRGBA(3, 1, color.RGBA{G: 255, A: 255})

	half := Scale(img, 0.5)
	assert.Equal(t, image.Pt(2, 1), half.Bounds().Size())

	double := Scale(img, 2)
	assert.Equal(t, image.Pt(8, 4), double.Bounds().Size())
	assert.Equal(t, color.RGBA{G: 255, A: 255}, double.(*image.RGBA).RGBAAt(7, 3))

	assert.Same(t, img, Scale(img, 1))
}

func TestSavePNGRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	img := solid(3, 2, color.RGBA{B: 255, A: 255})

	require.NoError(t, SavePNG(path, img))

	loaded, err := assets.LoadImageFile(path)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), loaded.Bounds())
	r, g, b, a := loaded.At(2, 1).RGBA()
	assert.Equal(t, [4]uint32{0, 0, 0xffff, 0xffff}, [4]uint32{r, g, b, a})
}

func TestFramesAdvanceTime(t *testing.T) {
	var times []time.Duration
	frames, err := Frames(func(dst *raster.Surface, at time.Duration) {
		times = append(times, at)
		if at >= 100*time.Millisecond {
			dst.Fill(color.RGBA{G: 255, A: 255})
		}
	}, AnimationOptions{
		Size:       image.Pt(2, 2),
		Frames:     3,
		FrameDelay: 50 * time.Millisecond,
		Start:      50 * time.Millisecond,
		Background: color.RGBA{R: 255, A: 255},
	})
	require.NoError(t, err)

	assert.Equal(t, []time.Duration{50 * time.Millisecond, 100 * time.Millisecond, 150 * time.Millisecond}, times)
	require.Len(t, frames, 3)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, frames[0].RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{G: 255, A: 255}, frames[1].RGBAAt(0, 0))

	_, err = Frames(func(*raster.Surface, time.Duration) {}, AnimationOptions{Size: image.Pt(1, 1)})
	assert.Error(t, err)
	_, err = Frames(func(*raster.Surface, time.Duration) {}, AnimationOptions{Frames: 1})
	assert.Error(t, err)
}

func TestEncodeGIF(t *testing.T) {
	frames := []*image.RGBA{
		solid(4, 4, color.RGBA{R: 255, A: 255}),
		solid(4, 4, color.RGBA{B: 255, A: 255}),
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeGIF(&buf, frames, AnimationOptions{FrameDelay: 200 * time.Millisecond, Colors: 16}))

	decoded, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	require.Len(t, decoded.Image, 2)
	assert.Equal(t, []int{20, 20}, decoded.Delay)

	r, _, b, _ := decoded.Image[0].At(1, 1).RGBA()
	assert.Greater(t, r, b)
	r, _, b, _ = decoded.Image[1].At(1, 1).RGBA()
	assert.Greater(t, b, r)

	assert.Error(t, EncodeGIF(&buf, nil, AnimationOptions{}))
}
