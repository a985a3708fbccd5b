// Package maprender composites tile maps into raster images. Whole-map and
// per-layer composites are cached in a cache.Store; viewport rendering draws
// straight onto the target every frame so animated tiles stay live.
package maprender

import (
	"image"
	"io"
	"log"

	"chosenoffset.com/tilecomp/internal/assets"
	"chosenoffset.com/tilecomp/internal/render"
	"chosenoffset.com/tilecomp/internal/render/cache"
	"chosenoffset.com/tilecomp/internal/render/raster"
	"chosenoffset.com/tilecomp/internal/tilemap"
)

// Compositor renders maps of one grid orientation.
type Compositor interface {
	// SupportedOrientation returns the orientation this compositor draws.
	SupportedOrientation() tilemap.Orientation

	// Image returns the cached composite of the map's tile layers that pass
	// the render type filter. No types means every visible layer.
	Image(m *tilemap.Map, types ...tilemap.RenderType) image.Image

	// DefaultImage is Image with every render type from background to
	// overlay.
	DefaultImage(m *tilemap.Map) image.Image

	// Render draws the cached composite at the target's origin.
	Render(target render.Surface, m *tilemap.Map, types ...tilemap.RenderType)

	// RenderAt draws the cached composite at a fixed screen offset.
	RenderAt(target render.Surface, m *tilemap.Map, offsetX, offsetY float64, types ...tilemap.RenderType)

	// RenderViewport draws every layer that passes the filter, clipped to
	// viewport, without building whole-map buffers.
	RenderViewport(target render.Surface, m *tilemap.Map, viewport image.Rectangle, types ...tilemap.RenderType)
}

// Options configures a compositor.
type Options struct {
	Assets assets.Provider
	Cache  *cache.Store // Defaults to a new store
	Clock  Clock        // Defaults to NewClock()
	Logger *log.Logger  // Defaults to discarding output

	// SkipAnimatedTiles leaves animated tiles out of cached layer
	// composites instead of freezing them at build time.
	SkipAnimatedTiles bool
}

func (o Options) withDefaults() Options {
	if o.Cache == nil {
		o.Cache = cache.NewStore()
	}
	if o.Clock == nil {
		o.Clock = NewClock()
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard, "", 0)
	}
	return o
}

// base implements Compositor for any orientation; the orientation only
// decides which cells are visited for a viewport.
type base struct {
	orientation tilemap.Orientation
	opts        Options
	layers      layerCompositor
}

func newBase(orientation tilemap.Orientation, opts Options, cells cellVisitor) base {
	opts = opts.withDefaults()
	return base{
		orientation: orientation,
		opts:        opts,
		layers: layerCompositor{
			resolver: Resolver{Assets: opts.Assets},
			cache:    opts.Cache,
			clock:    opts.Clock,
			logger:   opts.Logger,
			cells:    cells,
		},
	}
}

func (b *base) SupportedOrientation() tilemap.Orientation {
	return b.orientation
}

// Cache returns the store holding this compositor's composites.
func (b *base) Cache() *cache.Store {
	return b.opts.Cache
}

func (b *base) Image(m *tilemap.Map, types ...tilemap.RenderType) image.Image {
	set := tilemap.RenderTypesOf(types...)
	return b.opts.Cache.GetOrCreate(cache.MapKey(m.Name, set), func() image.Image {
		size := m.PixelSize()
		buf := raster.New(size.X, size.Y)

		for i, l := range m.Layers {
			tl, ok := l.(*tilemap.TileLayer)
			if !ok || tl == nil || !shouldRender(tl, set) {
				continue
			}
			buf.DrawImage(b.layers.layerImage(m, i, tl, !b.opts.SkipAnimatedTiles), 0, 0)
		}

		b.opts.Logger.Printf("composited map %s %s", m.Name, set)
		return buf.Image()
	})
}

func (b *base) DefaultImage(m *tilemap.Map) image.Image {
	return b.Image(m, tilemap.AllRenderTypes()...)
}

func (b *base) Render(target render.Surface, m *tilemap.Map, types ...tilemap.RenderType) {
	b.RenderAt(target, m, 0, 0, types...)
}

func (b *base) RenderAt(target render.Surface, m *tilemap.Map, offsetX, offsetY float64, types ...tilemap.RenderType) {
	target.DrawImage(b.Image(m, types...), offsetX, offsetY)
}

func (b *base) RenderViewport(target render.Surface, m *tilemap.Map, viewport image.Rectangle, types ...tilemap.RenderType) {
	set := tilemap.RenderTypesOf(types...)
	for _, l := range m.Layers {
		if l == nil || !shouldRender(l, set) {
			continue
		}

		switch layer := l.(type) {
		case *tilemap.TileLayer:
			b.layers.renderViewport(target, m, layer, viewport)
		case *tilemap.ImageLayer:
			renderImageLayer(target, b.opts.Assets, layer, viewport)
		}
	}
}

// shouldRender reports whether a layer is visible and passes the render type
// filter.
func shouldRender(l tilemap.Layer, set tilemap.RenderTypeSet) bool {
	return l.IsVisible() && l.LayerOpacity() > 0 && set.Allows(l.LayerRenderType())
}
