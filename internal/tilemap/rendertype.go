package tilemap

import (
	"fmt"
	"strings"
)

// RenderType partitions layers into draw passes. The declaration order is the
// compositing order.
type RenderType int

const (
	Background RenderType = iota
	Ground
	Surface
	Normal
	Overlay
	renderTypeCount
)

var renderTypeNames = [...]string{"BACKGROUND", "GROUND", "SURFACE", "NORMAL", "OVERLAY"}

func (r RenderType) String() string {
	if r < 0 || r >= renderTypeCount {
		return fmt.Sprintf("RenderType(%d)", int(r))
	}
	return renderTypeNames[r]
}

// ParseRenderType parses a render type name, case-insensitively.
func ParseRenderType(s string) (RenderType, error) {
	for i, name := range renderTypeNames {
		if strings.EqualFold(s, name) {
			return RenderType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown render type: %q", s)
}

// AllRenderTypes returns every render type from background to overlay.
func AllRenderTypes() []RenderType {
	types := make([]RenderType, 0, renderTypeCount)
	for r := Background; r < renderTypeCount; r++ {
		types = append(types, r)
	}
	return types
}

// RenderTypeSet is a set of render types. The zero value is the empty set,
// which filters nothing.
type RenderTypeSet uint8

// RenderTypesOf builds a set from a list of render types.
func RenderTypesOf(types ...RenderType) RenderTypeSet {
	var s RenderTypeSet
	for _, r := range types {
		if r >= 0 && r < renderTypeCount {
			s |= 1 << uint(r)
		}
	}
	return s
}

// Empty reports whether no render type is in the set.
func (s RenderTypeSet) Empty() bool {
	return s == 0
}

// Contains reports whether r is in the set.
func (s RenderTypeSet) Contains(r RenderType) bool {
	if r < 0 || r >= renderTypeCount {
		return false
	}
	return s&(1<<uint(r)) != 0
}

// Allows reports whether a layer of type r passes the filter. An empty set
// allows everything.
func (s RenderTypeSet) Allows(r RenderType) bool {
	return s.Empty() || s.Contains(r)
}

// Types lists the members in compositing order.
func (s RenderTypeSet) Types() []RenderType {
	var types []RenderType
	for r := Background; r < renderTypeCount; r++ {
		if s.Contains(r) {
			types = append(types, r)
		}
	}
	return types
}

// String formats the set as "[GROUND, OVERLAY]".
func (s RenderTypeSet) String() string {
	names := make([]string, 0, renderTypeCount)
	for _, r := range s.Types() {
		names = append(names, r.String())
	}
	return "[" + strings.Join(names, ", ") + "]"
}
