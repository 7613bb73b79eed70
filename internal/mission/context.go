// Package mission implements what happens the moment a mission is accepted:
// resolving the mission's overmap target, binding it to the mission record,
// and dressing the target site with spawns, terrain edits, consoles and loot.
package mission

import (
	"math/rand"

	"github.com/pixil98/go-rogue/internal/game"
	"github.com/pixil98/go-rogue/internal/overmap"
	"github.com/pixil98/go-rogue/internal/storage"
	"github.com/pixil98/go-rogue/internal/tinymap"
)

// Context carries the ambient state mission procedures run against. Nothing
// in this package reaches for globals; every resolution and dressing call
// receives its world, player, and randomness explicitly.
type Context struct {
	World  *overmap.Buffer
	Tiles  tinymap.Store
	Player *game.Player
	NPCs   *game.Roster
	Log    *game.Log
	Rand   *rand.Rand

	NPCTemplates storage.Storer[*game.NPCTemplate]
	ItemGroups   storage.Storer[*game.ItemGroup]
}

// NewContext wires a context around a world buffer, using the buffer itself
// as the tile store.
func NewContext(world *overmap.Buffer, player *game.Player, seed int64) *Context {
	return &Context{
		World:  world,
		Tiles:  world,
		Player: player,
		NPCs:   game.NewRoster(),
		Log:    game.NewLog(),
		Rand:   rand.New(rand.NewSource(seed)),
	}
}

// rng returns a random integer in [lo, hi], both inclusive.
func (c *Context) rng(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + c.Rand.Intn(hi-lo+1)
}

// oneIn reports true with probability 1/n.
func (c *Context) oneIn(n int) bool {
	return c.Rand.Intn(n) == 0
}
