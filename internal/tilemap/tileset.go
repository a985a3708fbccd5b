package tilemap

import "image"

// Frame is one step of a tile animation.
type Frame struct {
	TileID   int `json:"tile_id"`  // Local tile id shown during this frame
	Duration int `json:"duration"` // Milliseconds
}

// Animation is an ordered list of frames. The current frame is always derived
// from elapsed time, never stored.
type Animation struct {
	Frames []Frame `json:"frames"`
}

// TotalDuration returns the sum of all frame durations in milliseconds.
func (a *Animation) TotalDuration() int {
	if a == nil {
		return 0
	}
	total := 0
	for _, f := range a.Frames {
		total += f.Duration
	}
	return total
}

// Animated reports whether the animation can actually advance. Animations
// without frames or with a zero total duration are treated as static.
func (a *Animation) Animated() bool {
	return a != nil && len(a.Frames) > 0 && a.TotalDuration() > 0
}

// FrameAt returns the frame that is active after elapsedMs milliseconds of
// playback. Playback wraps around at the total duration.
func (a *Animation) FrameAt(elapsedMs int64) (Frame, bool) {
	if !a.Animated() {
		return Frame{}, false
	}

	total := int64(a.TotalDuration())
	delta := elapsedMs % total
	if delta < 0 {
		delta += total
	}

	var played int64
	for _, f := range a.Frames {
		played += int64(f.Duration)
		if delta < played {
			return f, true
		}
	}
	return a.Frames[len(a.Frames)-1], true
}

// Tileset is a sliced source image plus the metadata mapping grid ids onto it.
type Tileset struct {
	Name       string
	FirstGID   int
	TileWidth  int
	TileHeight int
	Margin     int
	Spacing    int
	TileCount  int         // 0 when unknown
	Offset     image.Point // Drawing offset applied to every tile of the set
	Image      string      // Spritesheet source identifier

	// Animations keyed by local tile index.
	Animations map[int]*Animation
}

// Contains reports whether gid falls within this tileset's grid id range.
func (ts *Tileset) Contains(gid int) bool {
	if gid < ts.FirstGID {
		return false
	}
	return ts.TileCount <= 0 || gid < ts.FirstGID+ts.TileCount
}

// LocalIndex converts a grid id into the 0-based index within the tileset.
func (ts *Tileset) LocalIndex(gid int) int {
	return gid - ts.FirstGID
}

// Animation returns the animation defined for a local tile index, if any.
func (ts *Tileset) Animation(index int) (*Animation, bool) {
	if ts.Animations == nil {
		return nil, false
	}
	a, ok := ts.Animations[index]
	if !ok || !a.Animated() {
		return nil, false
	}
	return a, true
}
