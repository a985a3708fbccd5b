package cache

import (
	"strconv"

	"chosenoffset.com/tilecomp/internal/tilemap"
)

const keyPrefix = "map_"

// Key identifies a composited buffer. PerLayer keys address the composite of
// the layer at Index in the map's stack; Layer only names it. Types is only
// meaningful for whole-map keys and the empty set means "no render type
// filter".
type Key struct {
	Map      string
	PerLayer bool
	Index    int
	Layer    string
	Types    tilemap.RenderTypeSet
}

// MapKey returns the whole-map key for the given render type filter.
func MapKey(mapName string, types tilemap.RenderTypeSet) Key {
	return Key{Map: mapName, Types: types}
}

// LayerKey returns the key of the layer at index in the map's layer stack.
// Layers are told apart by index, so unnamed or duplicate names are safe.
func LayerKey(mapName string, index int, layerName string) Key {
	return Key{Map: mapName, PerLayer: true, Index: index, Layer: layerName}
}

// IsLayer reports whether the key addresses a single layer composite.
func (k Key) IsLayer() bool {
	return k.PerLayer
}

// String formats the key as "map_<name>", "map_<name>_[GROUND, OVERLAY]" or
// "map_<name>_<layer>". Different keys may format identically; the string
// form is only used for pattern matching.
func (k Key) String() string {
	s := keyPrefix + k.Map
	switch {
	case k.IsLayer():
		s += "_" + k.Layer
	case !k.Types.Empty():
		s += "_" + k.Types.String()
	}
	return s
}

// id is an unambiguous encoding of the key.
func (k Key) id() string {
	if k.PerLayer {
		return "layer/" + strconv.Quote(k.Map) + "/" + strconv.Itoa(k.Index) + "/" + strconv.Quote(k.Layer)
	}
	return "map/" + strconv.Quote(k.Map) + "/" + strconv.Itoa(int(k.Types))
}
