package assets

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	"chosenoffset.com/tilecomp/internal/tilemap"
)

// Provider resolves sprite sheets and plain images by source identifier.
type Provider interface {
	Spritesheet(name string) (*Spritesheet, bool)
	Image(name string) (image.Image, bool)
}

// Registry is an in-memory Provider. It is safe for concurrent use so assets
// can be reloaded while a render loop is reading them.
type Registry struct {
	mu     sync.RWMutex
	sheets map[string]*Spritesheet
	images map[string]image.Image
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sheets: make(map[string]*Spritesheet),
		images: make(map[string]image.Image),
	}
}

// RegisterSheet registers a sprite sheet under its name. The sheet's image is
// also available through Image.
func (r *Registry) RegisterSheet(sheet *Spritesheet) error {
	if sheet == nil || sheet.Name == "" {
		return fmt.Errorf("sprite sheet name cannot be empty")
	}
	if sheet.SpriteWidth <= 0 || sheet.SpriteHeight <= 0 {
		return fmt.Errorf("sprite sheet %s: invalid sprite size %dx%d", sheet.Name, sheet.SpriteWidth, sheet.SpriteHeight)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sheets[sheet.Name] = sheet
	r.images[sheet.Name] = sheet.Image
	return nil
}

// RegisterImage registers a plain image under name.
func (r *Registry) RegisterImage(name string, img image.Image) error {
	if name == "" {
		return fmt.Errorf("image name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.images[name] = img
	return nil
}

// Spritesheet returns the sprite sheet registered under name.
func (r *Registry) Spritesheet(name string) (*Spritesheet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sheet, ok := r.sheets[name]
	return sheet, ok
}

// Image returns the image registered under name.
func (r *Registry) Image(name string) (image.Image, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	img, ok := r.images[name]
	return img, ok
}

// Names returns the names of all registered images.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.images))
	for name := range r.images {
		names = append(names, name)
	}
	return names
}

// LoadImageFile decodes an image file from disk.
func LoadImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// LoadSheetFile loads an image file and registers it as a sprite sheet.
func (r *Registry) LoadSheetFile(name, path string, spriteWidth, spriteHeight int) error {
	img, err := LoadImageFile(path)
	if err != nil {
		return err
	}
	return r.RegisterSheet(NewSpritesheet(name, img, spriteWidth, spriteHeight))
}

// LoadMapAssets loads every tileset sheet and image layer image a map refers
// to that is not registered yet. Paths are resolved relative to dir.
func (r *Registry) LoadMapAssets(m *tilemap.Map, dir string) error {
	return r.loadMapAssets(m, dir, false)
}

// ReloadMapAssets reads every asset of the map from disk again, replacing
// registered sheets along with their memoized sprites.
func (r *Registry) ReloadMapAssets(m *tilemap.Map, dir string) error {
	return r.loadMapAssets(m, dir, true)
}

func (r *Registry) loadMapAssets(m *tilemap.Map, dir string, force bool) error {
	for _, ts := range m.Tilesets {
		if _, ok := r.Spritesheet(ts.Image); ok && !force {
			continue
		}
		if err := r.LoadSheetFile(ts.Image, filepath.Join(dir, ts.Image), ts.TileWidth, ts.TileHeight); err != nil {
			return fmt.Errorf("tileset %s: %w", ts.Name, err)
		}
	}

	for _, l := range m.Layers {
		il, ok := l.(*tilemap.ImageLayer)
		if !ok {
			continue
		}
		if _, ok := r.Image(il.Image); ok && !force {
			continue
		}
		img, err := LoadImageFile(filepath.Join(dir, il.Image))
		if err != nil {
			return fmt.Errorf("image layer %s: %w", il.Name, err)
		}
		if err := r.RegisterImage(il.Image, img); err != nil {
			return err
		}
	}

	return nil
}
