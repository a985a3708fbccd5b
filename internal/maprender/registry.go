package maprender

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"chosenoffset.com/tilecomp/internal/render"
	"chosenoffset.com/tilecomp/internal/render/cache"
	"chosenoffset.com/tilecomp/internal/tilemap"
)

// ErrUnsupportedOrientation is returned when no compositor is registered for
// a map's orientation.
var ErrUnsupportedOrientation = errors.New("unsupported map orientation")

// Registry selects the compositor matching a map's orientation.
type Registry struct {
	mu          sync.RWMutex
	compositors map[tilemap.Orientation]Compositor
	cache       *cache.Store
}

// NewRegistry creates a registry with the orthogonal and hexagonal
// compositors sharing one cache.
func NewRegistry(opts Options) *Registry {
	opts = opts.withDefaults()
	r := &Registry{
		compositors: make(map[tilemap.Orientation]Compositor),
		cache:       opts.Cache,
	}
	r.Register(NewOrthogonal(opts))
	r.Register(NewHexagonal(opts))
	return r
}

// Register adds or replaces the compositor for its supported orientation.
func (r *Registry) Register(c Compositor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compositors[c.SupportedOrientation()] = c
}

// Cache returns the store shared by the registered compositors.
func (r *Registry) Cache() *cache.Store {
	return r.cache
}

// For returns the compositor for orientation o.
func (r *Registry) For(o tilemap.Orientation) (Compositor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.compositors[o]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOrientation, o)
	}
	return c, nil
}

// ForMap returns the compositor for the map's orientation.
func (r *Registry) ForMap(m *tilemap.Map) (Compositor, error) {
	if m == nil {
		return nil, errors.New("map is nil")
	}
	c, err := r.For(m.Orientation)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", m.Name, err)
	}
	return c, nil
}

// Image dispatches to the compositor's Image.
func (r *Registry) Image(m *tilemap.Map, types ...tilemap.RenderType) (image.Image, error) {
	c, err := r.ForMap(m)
	if err != nil {
		return nil, err
	}
	return c.Image(m, types...), nil
}

// Render dispatches to the compositor's Render.
func (r *Registry) Render(target render.Surface, m *tilemap.Map, types ...tilemap.RenderType) error {
	return r.RenderAt(target, m, 0, 0, types...)
}

// RenderAt dispatches to the compositor's RenderAt.
func (r *Registry) RenderAt(target render.Surface, m *tilemap.Map, offsetX, offsetY float64, types ...tilemap.RenderType) error {
	c, err := r.ForMap(m)
	if err != nil {
		return err
	}
	c.RenderAt(target, m, offsetX, offsetY, types...)
	return nil
}

// RenderViewport dispatches to the compositor's RenderViewport.
func (r *Registry) RenderViewport(target render.Surface, m *tilemap.Map, viewport image.Rectangle, types ...tilemap.RenderType) error {
	c, err := r.ForMap(m)
	if err != nil {
		return err
	}
	c.RenderViewport(target, m, viewport, types...)
	return nil
}

// Invalidate drops every cached composite of the named map. Owners must call
// it whenever tile data, opacity or offsets of the map change.
func (r *Registry) Invalidate(mapName string) int {
	return r.cache.ClearMap(mapName)
}
