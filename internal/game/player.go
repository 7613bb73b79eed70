// Package game holds the pieces of ambient game state mission logic runs
// against: the player character, the NPC roster, asset catalogs for NPC
// templates and item groups, and the in-game message log. Everything here is
// passed explicitly; there are no package-level singletons.
package game

import "github.com/pixil98/go-rogue/internal/coords"

// Player is the active character. Pos is the player's overmap location.
type Player struct {
	Name      string
	Pos       coords.Overmap
	Inventory []string
}

// AddItem puts an item of the given type into the player's inventory.
func (p *Player) AddItem(id string) {
	p.Inventory = append(p.Inventory, id)
}

// HasItem reports whether the player carries at least one item of the type.
func (p *Player) HasItem(id string) bool {
	for _, it := range p.Inventory {
		if it == id {
			return true
		}
	}
	return false
}
