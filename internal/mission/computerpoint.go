package mission

import (
	"math/rand"

	"github.com/pixil98/go-rogue/internal/coords"
	"github.com/pixil98/go-rogue/internal/tinymap"
)

// consoleFallbackMargin keeps the fallback console point away from the block
// edges, where it would end up inside an outer wall.
const consoleFallbackMargin = 5

// findConsolePoint picks a tile to drop a console on. In order, prefer:
// 1) Broken consoles, repurposed in place.
// 2) Bare floor next to a bed or dresser, or floor walled in on all four
// cardinal sides (inside the one-tile margin).
// 3) A random spot near the center of the block.
func findConsolePoint(rng *rand.Rand, sess *tinymap.Session) coords.Tile {
	var broken []coords.Tile
	var potential []coords.Tile

	for y := 0; y < coords.BlockY; y++ {
		for x := 0; x < coords.BlockX; x++ {
			t := coords.Tile{X: x, Y: y}
			if sess.Ter(t) == tinymap.TerConsoleBroken {
				broken = append(broken, t)
				continue
			}
			if sess.Ter(t) != tinymap.TerFloor || sess.Furn(t) != tinymap.FurnNull {
				continue
			}
			if nextToBedroomFurniture(sess, t) {
				potential = append(potential, t)
				continue
			}
			if walledIn(sess, t) {
				potential = append(potential, t)
			}
		}
	}

	if len(broken) > 0 {
		return broken[rng.Intn(len(broken))]
	}
	if len(potential) > 0 {
		return potential[rng.Intn(len(potential))]
	}

	span := coords.BlockX - 2*consoleFallbackMargin
	return coords.Tile{
		X: consoleFallbackMargin + rng.Intn(span),
		Y: consoleFallbackMargin + rng.Intn(span),
	}
}

// nextToBedroomFurniture reports whether any of the eight neighbors carries a
// bed or dresser.
func nextToBedroomFurniture(sess *tinymap.Session, t coords.Tile) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			switch sess.Furn(coords.Tile{X: t.X + dx, Y: t.Y + dy}) {
			case tinymap.FurnBed, tinymap.FurnDresser:
				return true
			}
		}
	}
	return false
}

// walledIn reports whether the tile sits inside the one-tile margin with
// walls on all four cardinal neighbors.
func walledIn(sess *tinymap.Session, t coords.Tile) bool {
	if t.X < 1 || t.X >= coords.BlockX-1 || t.Y < 1 || t.Y >= coords.BlockY-1 {
		return false
	}
	return tinymap.IsWall(sess.Ter(coords.Tile{X: t.X, Y: t.Y - 1})) &&
		tinymap.IsWall(sess.Ter(coords.Tile{X: t.X, Y: t.Y + 1})) &&
		tinymap.IsWall(sess.Ter(coords.Tile{X: t.X - 1, Y: t.Y})) &&
		tinymap.IsWall(sess.Ter(coords.Tile{X: t.X + 1, Y: t.Y}))
}
