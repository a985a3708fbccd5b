// Package export writes composited maps to image files: still PNGs, scaled
// thumbnails and animated GIFs of the live, animated render.
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"

	"chosenoffset.com/tilecomp/internal/render/raster"
)

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// SavePNG writes img to a PNG file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Scale resizes img by factor with nearest-neighbour sampling, which keeps
// pixel art crisp. A factor of 1 returns img unchanged.
func Scale(img image.Image, factor float64) image.Image {
	if factor == 1 || factor <= 0 {
		return img
	}
	b := img.Bounds()
	w := max(int(float64(b.Dx())*factor), 1)
	h := max(int(float64(b.Dy())*factor), 1)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// FrameFunc draws the map as it looks at elapsed time at onto dst.
type FrameFunc func(dst *raster.Surface, at time.Duration)

// AnimationOptions configures Frames and EncodeGIF.
type AnimationOptions struct {
	Size       image.Point
	Frames     int
	FrameDelay time.Duration
	Start      time.Duration
	Background color.Color // nil leaves frames transparent
	Colors     int         // Palette size per frame, 2..256
}

// Frames renders opts.Frames images spaced opts.FrameDelay apart.
func Frames(render FrameFunc, opts AnimationOptions) ([]*image.RGBA, error) {
	if opts.Frames <= 0 {
		return nil, fmt.Errorf("frame count must be positive, got %d", opts.Frames)
	}
	if opts.Size.X <= 0 || opts.Size.Y <= 0 {
		return nil, fmt.Errorf("invalid frame size %v", opts.Size)
	}

	frames := make([]*image.RGBA, 0, opts.Frames)
	for i := 0; i < opts.Frames; i++ {
		dst := raster.New(opts.Size.X, opts.Size.Y)
		if opts.Background != nil {
			dst.Fill(opts.Background)
		}
		render(dst, opts.Start+time.Duration(i)*opts.FrameDelay)
		frames = append(frames, dst.Image())
	}
	return frames, nil
}

// EncodeGIF writes frames as a looping animated GIF. Each frame gets its own
// median-cut palette.
func EncodeGIF(w io.Writer, frames []*image.RGBA, opts AnimationOptions) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to encode")
	}

	colors := opts.Colors
	if colors < 2 || colors > 256 {
		colors = 256
	}
	delay := int(opts.FrameDelay / (10 * time.Millisecond))

	anim := &gif.GIF{}
	for _, frame := range frames {
		anim.Image = append(anim.Image, palettize(frame, colors))
		anim.Delay = append(anim.Delay, delay)
	}

	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("failed to encode gif: %w", err)
	}
	return nil
}

// SaveGIF renders and writes an animated GIF to path.
func SaveGIF(path string, render FrameFunc, opts AnimationOptions) error {
	frames, err := Frames(render, opts)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := EncodeGIF(f, frames, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func palettize(img *image.RGBA, colors int) *image.Paletted {
	q := quantize.MedianCutQuantizer{}
	palette := q.Quantize(make(color.Palette, 0, colors), img)
	if len(palette) == 0 {
		palette = color.Palette{color.Transparent}
	}

	b := img.Bounds()
	pm := image.NewPaletted(b, palette)
	draw.Draw(pm, b, img, b.Min, draw.Src)
	return pm
}
