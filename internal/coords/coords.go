// Package coords defines the coordinate scales used by the world model.
//
// Two horizontal scales exist: overmap scale, where one unit is one terrain
// chunk, and submap scale, where one chunk spans SubmapsPerChunk units per
// axis. Tile coordinates address single cells inside a loaded 24x24 block.
// Conversions between scales are explicit so a chunk coordinate can never be
// mistaken for a submap coordinate at a call site.
package coords

const (
	// SubmapsPerChunk is the fixed multiplier between overmap and submap scale.
	SubmapsPerChunk = 2

	// SEEX and SEEY are the half-extents of a loaded block in tiles.
	SEEX = 12
	SEEY = 12

	// BlockX and BlockY are the tile dimensions of a loaded block.
	BlockX = SEEX * 2
	BlockY = SEEY * 2
)

// Overmap is a position at chunk scale. Z is the vertical level, negative
// below ground.
type Overmap struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Submap is a position at submap scale.
type Submap struct {
	X int
	Y int
	Z int
}

// Tile addresses a single cell inside a loaded block, 0 <= X < BlockX and
// 0 <= Y < BlockY.
type Tile struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Submap converts an overmap coordinate to the submap coordinate of its
// top-left corner.
func (o Overmap) Submap() Submap {
	return Submap{X: o.X * SubmapsPerChunk, Y: o.Y * SubmapsPerChunk, Z: o.Z}
}

// Overmap converts a submap coordinate back to the chunk containing it.
func (s Submap) Overmap() Overmap {
	return Overmap{X: floorDiv(s.X, SubmapsPerChunk), Y: floorDiv(s.Y, SubmapsPerChunk), Z: s.Z}
}

// WithZ returns a copy of o with the vertical level replaced.
func (o Overmap) WithZ(z int) Overmap {
	o.Z = z
	return o
}

// Add returns o offset by dx, dy on the same level.
func (o Overmap) Add(dx, dy int) Overmap {
	return Overmap{X: o.X + dx, Y: o.Y + dy, Z: o.Z}
}

// Dist is the Chebyshev distance between two overmap positions, ignoring Z.
// It matches the grid metric used by ring searches: all eight neighbors of a
// chunk are at distance 1.
func Dist(a, b Overmap) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// InBlock reports whether t addresses a cell of a loaded block.
func (t Tile) InBlock() bool {
	return t.X >= 0 && t.X < BlockX && t.Y >= 0 && t.Y < BlockY
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
