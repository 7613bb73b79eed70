package overmap

import (
	"fmt"
	"sort"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-rogue/internal/coords"
)

// Well-known terrain tags produced by generation. Mission content may
// reference further tags (lab rooms, ranch camps); a chunk tag is just a
// string key and searches match by prefix, so "house" finds "house_2".
const (
	TerField       = "field"
	TerForest      = "forest"
	TerForestThick = "forest_thick"
	TerLake        = "lake"
	TerHouse       = "house"
	TerRoad        = "road"
	TerRock        = "rock"
	TerOpenAir     = "open_air"
)

// terrainNames maps tag prefixes to display names used in player messages.
var terrainNames = map[string]string{
	TerField:       "field",
	TerForest:      "forest",
	TerForestThick: "dense forest",
	TerLake:        "lake",
	TerHouse:       "house",
	TerRoad:        "road",
	TerRock:        "solid rock",
	"cabin":        "cabin",
	"bank":         "bank",
	"lab":          "laboratory",
}

// terrainNamePrefixes orders the catalog longest-first so prefix lookups hit
// the most specific entry and the winner never depends on map iteration.
var terrainNamePrefixes = func() []string {
	ps := make([]string, 0, len(terrainNames))
	for p := range terrainNames {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool {
		if len(ps[i]) != len(ps[j]) {
			return len(ps[i]) > len(ps[j])
		}
		return ps[i] < ps[j]
	})
	return ps
}()

// TerrainName returns a human-readable name for a terrain tag, falling back
// to the tag itself.
func TerrainName(tag string) string {
	if n, ok := terrainNames[tag]; ok {
		return n
	}
	for _, prefix := range terrainNamePrefixes {
		if hasPrefix(tag, prefix) {
			return terrainNames[prefix]
		}
	}
	return tag
}

// safeTerrain lists tag prefixes considered free of hostile spawns.
var safeTerrain = []string{TerField, TerForest, TerRoad, "cabin"}

// City is a generated settlement: a center chunk and a radius in chunks.
type City struct {
	Center coords.Overmap `json:"center"`
	Size   int            `json:"size"`
}

// SpecialPiece is one chunk of a special template, at an offset relative to
// the placement anchor.
type SpecialPiece struct {
	DX  int    `json:"dx"`
	DY  int    `json:"dy"`
	DZ  int    `json:"dz"`
	Ter string `json:"ter"`
}

// Special is a named multi-chunk structure template placed as one generation
// unit.
type Special struct {
	Pieces []SpecialPiece `json:"pieces"`
}

// Validate satisfies storage.ValidatingSpec.
func (s *Special) Validate() error {
	el := errors.NewErrorList()

	if len(s.Pieces) == 0 {
		el.Add(fmt.Errorf("special must have at least one piece"))
	}
	for i, p := range s.Pieces {
		if p.Ter == "" {
			el.Add(fmt.Errorf("piece %d: ter is required", i))
		}
	}

	return el.Err()
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
