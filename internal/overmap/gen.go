package overmap

import (
	"math/rand"

	"github.com/ojrac/opensimplex-go"
	"github.com/pixil98/go-rogue/internal/coords"
	"github.com/pixil98/go-rogue/internal/tinymap"
)

const (
	// SectorSize is the edge length, in chunks, of one lazily materialized
	// world sector.
	SectorSize = 32

	noiseScale = 0.04

	cityChance = 60 // percent chance a surface sector seeds a city
	cityMin    = 3
	cityMax    = 6
)

// generator produces chunk terrain for whole sectors. Output is a pure
// function of the world seed and the sector coordinate.
type generator struct {
	seed  int64
	noise opensimplex.Noise
}

func newGenerator(seed int64) *generator {
	return &generator{seed: seed, noise: opensimplex.New(seed)}
}

// sectorRand returns a deterministic source for one sector.
func (g *generator) sectorRand(sx, sy, z int) *rand.Rand {
	h := g.seed
	h = h*31 + int64(sx)
	h = h*31 + int64(sy)
	h = h*31 + int64(z)
	return rand.New(rand.NewSource(h))
}

// baseTer picks the natural terrain for a surface chunk from noise.
func (g *generator) baseTer(x, y int) string {
	v := g.noise.Eval2(float64(x)*noiseScale, float64(y)*noiseScale)
	switch {
	case v < -0.55:
		return TerLake
	case v < 0.05:
		return TerField
	case v < 0.4:
		return TerForest
	default:
		return TerForestThick
	}
}

// generateSector fills ter for every chunk of the sector and returns any city
// seeded inside it. Underground levels are solid rock, levels above the
// surface open air.
func (g *generator) generateSector(sx, sy, z int, ter map[coords.Overmap]string) []City {
	x0 := sx * SectorSize
	y0 := sy * SectorSize

	if z != 0 {
		fill := TerRock
		if z > 0 {
			fill = TerOpenAir
		}
		for y := y0; y < y0+SectorSize; y++ {
			for x := x0; x < x0+SectorSize; x++ {
				ter[coords.Overmap{X: x, Y: y, Z: z}] = fill
			}
		}
		return nil
	}

	for y := y0; y < y0+SectorSize; y++ {
		for x := x0; x < x0+SectorSize; x++ {
			ter[coords.Overmap{X: x, Y: y, Z: 0}] = g.baseTer(x, y)
		}
	}

	rng := g.sectorRand(sx, sy, z)
	if rng.Intn(100) >= cityChance {
		return nil
	}

	size := cityMin + rng.Intn(cityMax-cityMin+1)
	cx := x0 + size + rng.Intn(SectorSize-2*size)
	cy := y0 + size + rng.Intn(SectorSize-2*size)
	city := City{Center: coords.Overmap{X: cx, Y: cy, Z: 0}, Size: size}

	// Roads run through the city center out to the sector edges; buildings
	// fill the rest of the city footprint.
	for y := cy - size; y <= cy+size; y++ {
		for x := cx - size; x <= cx+size; x++ {
			c := coords.Overmap{X: x, Y: y, Z: 0}
			if x == cx || y == cy {
				ter[c] = TerRoad
			} else {
				ter[c] = TerHouse
			}
		}
	}
	for x := x0; x < x0+SectorSize; x++ {
		if x < cx-size || x > cx+size {
			ter[coords.Overmap{X: x, Y: cy, Z: 0}] = TerRoad
		}
	}
	for y := y0; y < y0+SectorSize; y++ {
		if y < cy-size || y > cy+size {
			ter[coords.Overmap{X: cx, Y: y, Z: 0}] = TerRoad
		}
	}

	return []City{city}
}

// generateBlock materializes the tile block for a chunk from its terrain tag.
// Buildings get an outer wall, interior floor and bedroom furniture so the
// console placement scan has anchors to find; open terrain is uniform ground.
func generateBlock(tag string) *tinymap.Block {
	switch {
	case hasPrefix(tag, TerHouse) || hasPrefix(tag, "cabin") || hasPrefix(tag, "s_pharm"):
		return generateBuilding()
	case hasPrefix(tag, "bank"):
		b := generateBuilding()
		s := blockSession(b)
		s.DrawSquareTer(tinymap.TerWallMetal, 3, 3, 8, 8)
		s.DrawSquareTer(tinymap.TerFloor, 4, 4, 7, 7)
		s.SetTer(coords.Tile{X: 5, Y: 8}, tinymap.TerDoorLocked)
		return b
	case hasPrefix(tag, "lab"):
		b := tinymap.NewBlock(tinymap.TerFloor)
		s := blockSession(b)
		s.DrawSquareTer(tinymap.TerWallMetal, 0, 0, coords.BlockX-1, 0)
		s.DrawSquareTer(tinymap.TerWallMetal, 0, coords.BlockY-1, coords.BlockX-1, coords.BlockY-1)
		s.DrawSquareTer(tinymap.TerWallMetal, 0, 0, 0, coords.BlockY-1)
		s.DrawSquareTer(tinymap.TerWallMetal, coords.BlockX-1, 0, coords.BlockX-1, coords.BlockY-1)
		return b
	case hasPrefix(tag, TerRoad):
		return tinymap.NewBlock(tinymap.TerDirt)
	case hasPrefix(tag, TerLake):
		return tinymap.NewBlock(tinymap.TerWater)
	case hasPrefix(tag, TerRock):
		return tinymap.NewBlock(tinymap.TerRock)
	case hasPrefix(tag, TerForest):
		return tinymap.NewBlock(tinymap.TerGrass)
	default:
		return tinymap.NewBlock(tinymap.TerDirt)
	}
}

func generateBuilding() *tinymap.Block {
	b := tinymap.NewBlock(tinymap.TerGrass)
	s := blockSession(b)

	s.DrawSquareTer(tinymap.TerFloor, 3, 3, 20, 20)
	s.DrawSquareTer(tinymap.TerWall, 2, 2, 21, 2)
	s.DrawSquareTer(tinymap.TerWall, 2, 21, 21, 21)
	s.DrawSquareTer(tinymap.TerWall, 2, 2, 2, 21)
	s.DrawSquareTer(tinymap.TerWall, 21, 2, 21, 21)
	s.SetTer(coords.Tile{X: 11, Y: 21}, tinymap.TerDoorClosed)
	s.SetTer(coords.Tile{X: 6, Y: 2}, tinymap.TerWindow)
	s.SetTer(coords.Tile{X: 16, Y: 2}, tinymap.TerWindow)

	// Bedroom in the northwest corner.
	s.DrawSquareTer(tinymap.TerWall, 3, 9, 9, 9)
	s.SetTer(coords.Tile{X: 9, Y: 9}, tinymap.TerDoorClosed)
	s.SetFurn(coords.Tile{X: 4, Y: 4}, tinymap.FurnBed)
	s.SetFurn(coords.Tile{X: 4, Y: 5}, tinymap.FurnBed)
	s.SetFurn(coords.Tile{X: 7, Y: 4}, tinymap.FurnDresser)
	s.SetFurn(coords.Tile{X: 18, Y: 18}, tinymap.FurnCupboard)

	return b
}

// blockSession wraps an unattached block in a throwaway session so block
// generation can reuse the drawing helpers.
func blockSession(b *tinymap.Block) *tinymap.Session {
	s, _ := tinymap.Open(detachedStore{b}, coords.Overmap{})
	return s
}

type detachedStore struct{ b *tinymap.Block }

func (d detachedStore) LoadBlock(coords.Overmap) (*tinymap.Block, error) { return d.b, nil }
func (d detachedStore) StoreBlock(coords.Overmap, *tinymap.Block) error  { return nil }
