package ebiten

import (
	"image"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"chosenoffset.com/tilecomp/internal/maprender"
	"chosenoffset.com/tilecomp/internal/tilemap"
)

// ViewerConfig configures the interactive viewer.
type ViewerConfig struct {
	Width       int
	Height      int
	ScrollSpeed float64 // Pixels per tick
	Background  color.Color
	RenderTypes []tilemap.RenderType
	Reload      func() (*tilemap.Map, error) // Optional, bound to R
}

// Viewer is an ebiten.Game that scrolls a viewport over a map. Maps that fit
// the window are drawn from the cached whole-map composite; larger maps are
// rendered per frame clipped to the viewport.
type Viewer struct {
	cfg        ViewerConfig
	registry   *maprender.Registry
	m          *tilemap.Map
	textures   *TextureCache
	camX, camY float64
	status     string
}

// NewViewer creates a viewer for m.
func NewViewer(registry *maprender.Registry, m *tilemap.Map, cfg ViewerConfig) *Viewer {
	if cfg.ScrollSpeed <= 0 {
		cfg.ScrollSpeed = 4
	}
	return &Viewer{
		cfg:      cfg,
		registry: registry,
		m:        m,
		textures: NewTextureCache(),
	}
}

// Run opens the window and blocks until it is closed.
func (v *Viewer) Run() error {
	ebiten.SetWindowSize(v.cfg.Width, v.cfg.Height)
	ebiten.SetWindowTitle("maprender - " + v.m.Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(v)
}

// Viewport returns the map area currently on screen.
func (v *Viewer) Viewport() image.Rectangle {
	x, y := int(v.camX), int(v.camY)
	return image.Rect(x, y, x+v.cfg.Width, y+v.cfg.Height)
}

// Update implements ebiten.Game.
func (v *Viewer) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		v.camX -= v.cfg.ScrollSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		v.camX += v.cfg.ScrollSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		v.camY -= v.cfg.ScrollSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		v.camY += v.cfg.ScrollSpeed
	}
	v.clampCamera()

	if inpututil.IsKeyJustPressed(ebiten.KeyR) && v.cfg.Reload != nil {
		v.reload()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

func (v *Viewer) reload() {
	m, err := v.cfg.Reload()
	if err != nil {
		log.Printf("Failed to reload map: %v", err)
		v.status = "reload failed"
		return
	}

	removed := v.registry.Invalidate(v.m.Name)
	if m.Name != v.m.Name {
		removed += v.registry.Invalidate(m.Name)
	}
	v.textures.Clear()
	v.m = m
	v.status = "reloaded"
	log.Printf("Reloaded map %s (%d cache entries dropped)", m.Name, removed)
}

func (v *Viewer) clampCamera() {
	size := v.m.PixelSize()
	maxX := float64(size.X - v.cfg.Width)
	maxY := float64(size.Y - v.cfg.Height)
	v.camX = min(max(v.camX, 0), max(maxX, 0))
	v.camY = min(max(v.camY, 0), max(maxY, 0))
}

// fits reports whether the whole map fits on screen.
func (v *Viewer) fits() bool {
	size := v.m.PixelSize()
	return size.X <= v.cfg.Width && size.Y <= v.cfg.Height
}

// Draw implements ebiten.Game.
func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.cfg.Background != nil {
		screen.Fill(v.cfg.Background)
	}

	target := NewSurface(screen, v.textures)
	var err error
	if v.fits() {
		err = v.registry.RenderAt(target, v.m, 0, 0, v.cfg.RenderTypes...)
	} else {
		err = v.registry.RenderViewport(target, v.m, v.Viewport(), v.cfg.RenderTypes...)
	}
	if err != nil {
		ebitenutil.DebugPrint(screen, err.Error())
		return
	}

	if v.status != "" {
		ebitenutil.DebugPrintAt(screen, v.status, 4, v.cfg.Height-16)
	}
}

// Layout implements ebiten.Game.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.cfg.Width, v.cfg.Height
}
