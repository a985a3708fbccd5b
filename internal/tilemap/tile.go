package tilemap

// GID flag bits (same convention as Tiled TMX format).
const (
	FlagFlipH uint32 = 1 << 31 // horizontal flip
	FlagFlipV uint32 = 1 << 30 // vertical flip
	FlagFlipD uint32 = 1 << 29 // diagonal flip
	flagMask  uint32 = FlagFlipH | FlagFlipV | FlagFlipD
)

// EmptyGridID marks an empty cell.
const EmptyGridID = 0

// Tile is a single grid cell reference into a tileset.
type Tile struct {
	GridID int
	FlipH  bool
	FlipV  bool
	FlipD  bool
}

// Flipped reports whether any of the flip flags is set.
func (t *Tile) Flipped() bool {
	return t.FlipH || t.FlipV || t.FlipD
}

// DecodeGID splits a raw encoded grid id into a Tile. A zero id decodes to nil
// (empty cell).
func DecodeGID(raw uint32) *Tile {
	gid := raw &^ flagMask
	if gid == EmptyGridID {
		return nil
	}
	return &Tile{
		GridID: int(gid),
		FlipH:  raw&FlagFlipH != 0,
		FlipV:  raw&FlagFlipV != 0,
		FlipD:  raw&FlagFlipD != 0,
	}
}

// EncodeGID is the inverse of DecodeGID.
func EncodeGID(t *Tile) uint32 {
	if t == nil {
		return EmptyGridID
	}
	raw := uint32(t.GridID) &^ flagMask
	if t.FlipH {
		raw |= FlagFlipH
	}
	if t.FlipV {
		raw |= FlagFlipV
	}
	if t.FlipD {
		raw |= FlagFlipD
	}
	return raw
}
