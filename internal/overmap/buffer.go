// Package overmap implements the chunk-grid world store: a lazily
// materialized, effectively infinite grid of terrain-tagged chunks, the
// search/reveal queries mission logic runs against it, and the tile blocks
// backing each chunk.
package overmap

import (
	"log/slog"
	"math/rand"

	"github.com/pixil98/go-rogue/internal/coords"
	"github.com/pixil98/go-rogue/internal/storage"
	"github.com/pixil98/go-rogue/internal/tinymap"
)

// DefaultSearchRange is used when a query gives no positive radius.
const DefaultSearchRange = 180

const (
	placeSpecialTries = 20
	routeNodeCap      = 20000
)

// Query describes one terrain search.
type Query struct {
	Origin coords.Overmap

	// Type is matched as a prefix of the chunk tag, so "house" matches
	// "house_2".
	Type string

	// Radius in chunks. Non-positive means DefaultSearchRange.
	Radius int

	// MustSee restricts matches to chunks the player has already revealed.
	MustSee bool

	// AllowNew permits the scan to materialize sectors that do not exist
	// yet. When false only the existing world is searched.
	AllowNew bool

	// Special, when set, restricts matches to chunks owned by the named
	// special placement.
	Special string
}

// Buffer is the world store. There is exactly one logical actor in the game
// loop, so access is unsynchronized by design.
type Buffer struct {
	gen      *generator
	rng      *rand.Rand
	specials storage.Storer[*Special]

	sectors   map[coords.Overmap]bool // key is {sx, sy, z}
	ter       map[coords.Overmap]string
	seen      map[coords.Overmap]bool
	specialAt map[coords.Overmap]string
	cities    []City
	blocks    map[coords.Overmap]*tinymap.Block
}

// New creates a buffer for the given world seed. specials may be nil when no
// special templates are loaded.
func New(seed int64, specials storage.Storer[*Special]) *Buffer {
	return &Buffer{
		gen:       newGenerator(seed),
		rng:       rand.New(rand.NewSource(seed)),
		specials:  specials,
		sectors:   make(map[coords.Overmap]bool),
		ter:       make(map[coords.Overmap]string),
		seen:      make(map[coords.Overmap]bool),
		specialAt: make(map[coords.Overmap]string),
		blocks:    make(map[coords.Overmap]*tinymap.Block),
	}
}

func sectorOf(c coords.Overmap) coords.Overmap {
	return coords.Overmap{X: floorDiv(c.X, SectorSize), Y: floorDiv(c.Y, SectorSize), Z: c.Z}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// materialized reports whether the sector containing c already exists.
func (b *Buffer) materialized(c coords.Overmap) bool {
	return b.sectors[sectorOf(c)]
}

// materialize generates the sector containing c if it does not exist yet.
// Generation is permanent; it is never undone.
func (b *Buffer) materialize(c coords.Overmap) {
	s := sectorOf(c)
	if b.sectors[s] {
		return
	}
	b.sectors[s] = true
	b.cities = append(b.cities, b.gen.generateSector(s.X, s.Y, s.Z, b.ter)...)
}

// Ter returns the terrain tag of a chunk, materializing its sector.
func (b *Buffer) Ter(c coords.Overmap) string {
	b.materialize(c)
	return b.ter[c]
}

// SetTer relabels a chunk's terrain tag in place. This is destructive: the
// previous tag is gone.
func (b *Buffer) SetTer(c coords.Overmap, tag string) {
	b.materialize(c)
	b.ter[c] = tag
}

// CheckOterType reports whether the chunk's tag starts with the given prefix.
func (b *Buffer) CheckOterType(prefix string, c coords.Overmap) bool {
	return hasPrefix(b.Ter(c), prefix)
}

// Seen reports whether the chunk has been revealed to the player.
func (b *Buffer) Seen(c coords.Overmap) bool {
	return b.seen[c]
}

// Reveal discloses every chunk within radius of center, materializing as
// needed. Radius 0 reveals exactly the center chunk. Revealing is monotone;
// chunks are never un-seen.
func (b *Buffer) Reveal(center coords.Overmap, radius int) {
	if radius < 0 {
		return
	}
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			c := center.Add(dx, dy)
			b.materialize(c)
			b.seen[c] = true
		}
	}
}

// IsSafe reports whether the chunk's terrain is free of hostile spawns.
func (b *Buffer) IsSafe(c coords.Overmap) bool {
	tag := b.Ter(c)
	for _, prefix := range safeTerrain {
		if hasPrefix(tag, prefix) {
			return true
		}
	}
	return false
}

// match reports whether the chunk at c satisfies the query filters. When the
// query does not allow materialization, chunks in unmaterialized sectors
// never match.
func (b *Buffer) match(q Query, c coords.Overmap) bool {
	if q.AllowNew {
		b.materialize(c)
	} else if !b.materialized(c) {
		return false
	}
	if q.MustSee && !b.seen[c] {
		return false
	}
	if !hasPrefix(b.ter[c], q.Type) {
		return false
	}
	if q.Special != "" && b.specialAt[c] != q.Special {
		return false
	}
	return true
}

func queryRadius(q Query) int {
	if q.Radius <= 0 {
		return DefaultSearchRange
	}
	return q.Radius
}

// FindClosest returns the nearest chunk matching the query. Candidates are
// scanned in expanding Chebyshev rings with a fixed in-ring order, so ties at
// equal distance resolve deterministically by scan order.
func (b *Buffer) FindClosest(q Query) (coords.Overmap, bool) {
	radius := queryRadius(q)
	for r := 0; r <= radius; r++ {
		for _, c := range ring(q.Origin, r) {
			if b.match(q, c) {
				return c, true
			}
		}
	}
	return coords.Overmap{}, false
}

// FindRandom returns a uniformly random chunk among all matches of the query
// within the radius.
func (b *Buffer) FindRandom(q Query) (coords.Overmap, bool) {
	radius := queryRadius(q)
	var matches []coords.Overmap
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			c := q.Origin.Add(dx, dy)
			if b.match(q, c) {
				matches = append(matches, c)
			}
		}
	}
	if len(matches) == 0 {
		return coords.Overmap{}, false
	}
	return matches[b.rng.Intn(len(matches))], true
}

// ring returns the cells at exactly Chebyshev distance r from center, in a
// fixed order: top row west to east, bottom row west to east, then the side
// columns north to south.
func ring(center coords.Overmap, r int) []coords.Overmap {
	if r == 0 {
		return []coords.Overmap{center}
	}
	cells := make([]coords.Overmap, 0, 8*r)
	for x := -r; x <= r; x++ {
		cells = append(cells, center.Add(x, -r))
	}
	for x := -r; x <= r; x++ {
		cells = append(cells, center.Add(x, r))
	}
	for y := -r + 1; y <= r-1; y++ {
		cells = append(cells, center.Add(-r, y))
	}
	for y := -r + 1; y <= r-1; y++ {
		cells = append(cells, center.Add(r, y))
	}
	return cells
}

// PlaceSpecial stamps the named special template somewhere within radius of
// origin, on natural terrain only. Returns false when the template is unknown
// or no fitting anchor was found.
func (b *Buffer) PlaceSpecial(id string, origin coords.Overmap, radius int) bool {
	if b.specials == nil {
		return false
	}
	sp := b.specials.Get(storage.Identifier(id))
	if sp == nil {
		slog.Warn("unknown overmap special", "special", id)
		return false
	}
	if radius <= 0 {
		radius = DefaultSearchRange
	}

	for try := 0; try < placeSpecialTries; try++ {
		anchor := origin.Add(b.rng.Intn(2*radius+1)-radius, b.rng.Intn(2*radius+1)-radius)
		if !b.specialFits(sp, anchor) {
			continue
		}
		for _, p := range sp.Pieces {
			c := anchor.Add(p.DX, p.DY).WithZ(anchor.Z + p.DZ)
			b.SetTer(c, p.Ter)
			b.specialAt[c] = id
		}
		return true
	}
	return false
}

func (b *Buffer) specialFits(sp *Special, anchor coords.Overmap) bool {
	for _, p := range sp.Pieces {
		c := anchor.Add(p.DX, p.DY).WithZ(anchor.Z + p.DZ)
		tag := b.Ter(c)
		if c.Z < 0 {
			if tag != TerRock {
				return false
			}
			continue
		}
		switch {
		case hasPrefix(tag, TerField), hasPrefix(tag, TerForest), hasPrefix(tag, TerLake):
		default:
			return false
		}
	}
	return true
}

// RevealRoute walks the road network from a to b and reveals the chunks along
// the way. Both endpoints must be road chunks in the existing world. Returns
// false when no road path connects them.
func (b *Buffer) RevealRoute(a, dest coords.Overmap) bool {
	isRoad := func(c coords.Overmap) bool {
		return b.materialized(c) && hasPrefix(b.ter[c], TerRoad)
	}
	if !isRoad(a) || !isRoad(dest) {
		return false
	}

	prev := map[coords.Overmap]coords.Overmap{a: a}
	queue := []coords.Overmap{a}
	visited := 0
	for len(queue) > 0 && visited < routeNodeCap {
		cur := queue[0]
		queue = queue[1:]
		visited++
		if cur == dest {
			for c := dest; ; c = prev[c] {
				b.seen[c] = true
				if c == a {
					return true
				}
			}
		}
		for _, d := range [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
			next := cur.Add(d[0], d[1])
			if _, ok := prev[next]; ok || !isRoad(next) {
				continue
			}
			prev[next] = cur
			queue = append(queue, next)
		}
	}
	return false
}

// ClosestCity returns the generated city nearest to origin, spiraling out
// through neighboring sectors until one is found.
func (b *Buffer) ClosestCity(origin coords.Overmap) (City, bool) {
	surface := origin.WithZ(0)
	for ringIdx := 0; ringIdx <= 3; ringIdx++ {
		s := sectorOf(surface)
		for dy := -ringIdx; dy <= ringIdx; dy++ {
			for dx := -ringIdx; dx <= ringIdx; dx++ {
				b.materialize(coords.Overmap{X: (s.X + dx) * SectorSize, Y: (s.Y + dy) * SectorSize, Z: 0})
			}
		}
		if city, ok := b.closestKnownCity(surface); ok {
			return city, true
		}
	}
	return City{}, false
}

func (b *Buffer) closestKnownCity(origin coords.Overmap) (City, bool) {
	best := -1
	var found City
	for _, city := range b.cities {
		d := coords.Dist(origin, city.Center)
		if best < 0 || d < best {
			best = d
			found = city
		}
	}
	return found, best >= 0
}

// LoadBlock satisfies tinymap.Store. The returned block is a copy; edits are
// only visible to later loads after StoreBlock.
func (b *Buffer) LoadBlock(c coords.Overmap) (*tinymap.Block, error) {
	if blk, ok := b.blocks[c]; ok {
		return blk.Clone(), nil
	}
	blk := generateBlock(b.Ter(c))
	b.blocks[c] = blk
	return blk.Clone(), nil
}

// StoreBlock satisfies tinymap.Store.
func (b *Buffer) StoreBlock(c coords.Overmap, blk *tinymap.Block) error {
	b.blocks[c] = blk
	return nil
}
