// Package terminal previews composited map images in a terminal using
// half-block characters, two pixel rows per text row.
package terminal

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"
)

const halfBlock = '▀'

// Blit draws the part of img starting at pixel (offX, offY) onto screen. Each
// cell shows the upper pixel as foreground and the lower one as background.
func Blit(screen tcell.Screen, img image.Image, offX, offY int) {
	w, h := screen.Size()
	b := img.Bounds()

	for cy := 0; cy < h; cy++ {
		for cx := 0; cx < w; cx++ {
			px := b.Min.X + offX + cx
			py := b.Min.Y + offY + cy*2
			top := pixelColor(img, image.Pt(px, py))
			bottom := pixelColor(img, image.Pt(px, py+1))
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}
}

// pixelColor returns the pixel at p composited over black. Pixels outside the
// image are black.
func pixelColor(img image.Image, p image.Point) tcell.Color {
	if !p.In(img.Bounds()) {
		return tcell.ColorBlack
	}
	c := color.RGBAModel.Convert(img.At(p.X, p.Y)).(color.RGBA)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Preview is an interactive terminal viewer for a single image.
type Preview struct {
	screen     tcell.Screen
	img        image.Image
	offX, offY int
}

// NewPreview creates a preview of img on screen. The screen must already be
// initialized.
func NewPreview(screen tcell.Screen, img image.Image) *Preview {
	return &Preview{screen: screen, img: img}
}

// NewScreen creates and initializes the terminal screen.
func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}
	return screen, nil
}

// Draw renders the visible part of the image.
func (p *Preview) Draw() {
	p.screen.Clear()
	Blit(p.screen, p.img, p.offX, p.offY)
	p.screen.Show()
}

// Scroll moves the visible window by (dx, dy) pixels, clamped to the image.
func (p *Preview) Scroll(dx, dy int) {
	w, h := p.screen.Size()
	b := p.img.Bounds()
	p.offX = min(max(p.offX+dx, 0), max(b.Dx()-w, 0))
	p.offY = min(max(p.offY+dy, 0), max(b.Dy()-h*2, 0))
}

// Offset returns the pixel offset of the top-left cell.
func (p *Preview) Offset() image.Point {
	return image.Pt(p.offX, p.offY)
}

// Run handles input until the user quits with q or Escape.
func (p *Preview) Run() error {
	defer p.screen.Fini()

	p.Draw()
	for {
		switch ev := p.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if !p.HandleKey(ev) {
				return nil
			}
			p.Draw()
		case *tcell.EventResize:
			p.screen.Sync()
			p.Draw()
		case nil:
			return nil
		}
	}
}

// HandleKey applies a key event and reports whether the preview should keep
// running.
func (p *Preview) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		p.Scroll(-4, 0)
	case tcell.KeyRight:
		p.Scroll(4, 0)
	case tcell.KeyUp:
		p.Scroll(0, -4)
	case tcell.KeyDown:
		p.Scroll(0, 4)
	case tcell.KeyRune:
		if ev.Rune() == 'q' {
			return false
		}
	}
	return true
}
