// Package tinymap provides scoped editing sessions over the fine-grained tile
// blocks backing single overmap chunks. A session buffers every edit in
// memory; nothing reaches the backing store until Save. Only one session may
// be open against a given chunk at a time.
package tinymap

import (
	"fmt"
	"math/rand"

	"github.com/pixil98/go-rogue/internal/coords"
)

// Terrain tags used by mission dressing. A block cell carries exactly one.
const (
	TerNull           = "t_null"
	TerFloor          = "t_floor"
	TerDirt           = "t_dirt"
	TerDirtFloor      = "t_dirtfloor"
	TerGrass          = "t_grass"
	TerRock           = "t_rock"
	TerWall           = "t_wall"
	TerWallMetal      = "t_wall_metal"
	TerWallHalf       = "t_wall_half"
	TerWallWood       = "t_wall_wood"
	TerDoorClosed     = "t_door_c"
	TerDoorFrame      = "t_door_frame"
	TerDoorLocked     = "t_door_locked"
	TerWindow         = "t_window"
	TerWindowFrame    = "t_window_frame"
	TerWindowBoarded  = "t_window_boarded_noglass"
	TerConsole        = "t_console"
	TerConsoleBroken  = "t_console_broken"
	TerChainFence     = "t_chainfence"
	TerChainGate      = "t_chaingate_l"
	TerMachineryLight = "t_machinery_light"
	TerWater          = "t_water"
)

// Furniture tags. FurnNull marks an empty cell.
const (
	FurnNull          = ""
	FurnBed           = "f_bed"
	FurnMakeshiftBed  = "f_makeshift_bed"
	FurnDresser       = "f_dresser"
	FurnRack          = "f_rack"
	FurnCounter       = "f_counter"
	FurnCupboard      = "f_cupboard"
	FurnIndoorPlant   = "f_indoor_plant"
	FurnFridge        = "f_fridge"
	FurnWasher        = "f_washer"
	FurnWoodstove     = "f_woodstove"
	FurnArcadeMachine = "f_arcade_machine"
)

// IsWall reports whether a terrain tag blocks movement as a wall. Door
// terrains do not count; the console placement scan wants solid enclosure.
func IsWall(ter string) bool {
	switch ter {
	case TerWall, TerWallMetal, TerWallHalf, TerWallWood, TerRock:
		return true
	}
	return false
}

// Item is a stack of one item type placed on a tile.
type Item struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// Spawn is a pending creature spawn recorded in a block. MissionID ties the
// spawned creature back to the mission that placed it.
type Spawn struct {
	Type      string      `json:"type"`
	Count     int         `json:"count"`
	Pos       coords.Tile `json:"pos"`
	Friendly  bool        `json:"friendly,omitempty"`
	Name      string      `json:"name,omitempty"`
	MissionID string      `json:"mission_id,omitempty"`
}

// NPCPlacement is a pending secondary-NPC spawn from a named template.
type NPCPlacement struct {
	Template string      `json:"template"`
	Pos      coords.Tile `json:"pos"`
}

type cell struct {
	Ter   string `json:"ter"`
	Furn  string `json:"furn,omitempty"`
	Items []Item `json:"items,omitempty"`
}

// Block is the editable tile grid for one overmap chunk.
type Block struct {
	Cells    [coords.BlockY][coords.BlockX]cell `json:"cells"`
	Spawns   []Spawn                            `json:"spawns,omitempty"`
	NPCs     []NPCPlacement                     `json:"npcs,omitempty"`
	Consoles []*Console                         `json:"consoles,omitempty"`
}

// NewBlock returns a block with every cell set to the given terrain.
func NewBlock(ter string) *Block {
	b := &Block{}
	for y := 0; y < coords.BlockY; y++ {
		for x := 0; x < coords.BlockX; x++ {
			b.Cells[y][x].Ter = ter
		}
	}
	return b
}

// Clone returns a deep copy of the block. Sessions edit a clone so that
// nothing reaches the backing store until Save.
func (b *Block) Clone() *Block {
	c := &Block{Cells: b.Cells}
	for y := range c.Cells {
		for x := range c.Cells[y] {
			if items := b.Cells[y][x].Items; items != nil {
				c.Cells[y][x].Items = append([]Item(nil), items...)
			}
		}
	}
	c.Spawns = append([]Spawn(nil), b.Spawns...)
	c.NPCs = append([]NPCPlacement(nil), b.NPCs...)
	for _, con := range b.Consoles {
		cc := *con
		cc.Options = append([]ConsoleOption(nil), con.Options...)
		cc.Failures = append([]string(nil), con.Failures...)
		c.Consoles = append(c.Consoles, &cc)
	}
	return c
}

// Store materializes and persists tile blocks. Implemented by the overmap
// buffer, which generates a block from the chunk's terrain tag on first load.
type Store interface {
	LoadBlock(coords.Overmap) (*Block, error)
	StoreBlock(coords.Overmap, *Block) error
}

// Session is an open editing session against one chunk's block. Open it,
// edit, and Save before returning; deferring Save keeps degenerate exit paths
// from leaking unsaved edits.
type Session struct {
	store Store
	loc   coords.Overmap
	block *Block
}

// Open loads the block for the chunk at loc and begins a session.
func Open(store Store, loc coords.Overmap) (*Session, error) {
	block, err := store.LoadBlock(loc)
	if err != nil {
		return nil, fmt.Errorf("loading block at %v: %w", loc, err)
	}
	return &Session{store: store, loc: loc, block: block}, nil
}

// Loc returns the chunk coordinate this session is bound to.
func (s *Session) Loc() coords.Overmap {
	return s.loc
}

// Save persists the session's block back to the store. Safe to call more than
// once; the last write wins.
func (s *Session) Save() error {
	return s.store.StoreBlock(s.loc, s.block)
}

// Ter returns the terrain tag at t, or TerNull outside the block.
func (s *Session) Ter(t coords.Tile) string {
	if !t.InBlock() {
		return TerNull
	}
	return s.block.Cells[t.Y][t.X].Ter
}

// SetTer rewrites the terrain tag at t. Out-of-block writes are ignored.
func (s *Session) SetTer(t coords.Tile, ter string) {
	if !t.InBlock() {
		return
	}
	s.block.Cells[t.Y][t.X].Ter = ter
}

// Furn returns the furniture tag at t, or FurnNull outside the block.
func (s *Session) Furn(t coords.Tile) string {
	if !t.InBlock() {
		return FurnNull
	}
	return s.block.Cells[t.Y][t.X].Furn
}

// SetFurn rewrites the furniture tag at t. Out-of-block writes are ignored.
func (s *Session) SetFurn(t coords.Tile, furn string) {
	if !t.InBlock() {
		return
	}
	s.block.Cells[t.Y][t.X].Furn = furn
}

// DrawSquareTer fills the inclusive rectangle (x1,y1)-(x2,y2) with a terrain.
func (s *Session) DrawSquareTer(ter string, x1, y1, x2, y2 int) {
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			s.SetTer(coords.Tile{X: x, Y: y}, ter)
		}
	}
}

// DrawSquareFurn fills the inclusive rectangle (x1,y1)-(x2,y2) with furniture.
func (s *Session) DrawSquareFurn(furn string, x1, y1, x2, y2 int) {
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			s.SetFurn(coords.Tile{X: x, Y: y}, furn)
		}
	}
}

// Translate rewrites every cell with terrain from to terrain to.
func (s *Session) Translate(from, to string) {
	for y := 0; y < coords.BlockY; y++ {
		for x := 0; x < coords.BlockX; x++ {
			if s.block.Cells[y][x].Ter == from {
				s.block.Cells[y][x].Ter = to
			}
		}
	}
}

// AddSpawn records a creature spawn in the block.
func (s *Session) AddSpawn(sp Spawn) {
	if sp.Count < 1 {
		return
	}
	s.block.Spawns = append(s.block.Spawns, sp)
}

// Spawns returns all spawns recorded in the block.
func (s *Session) Spawns() []Spawn {
	return s.block.Spawns
}

// SpawnItem places count items of the given type on a tile.
func (s *Session) SpawnItem(t coords.Tile, id string, count int) {
	if !t.InBlock() || count < 1 {
		return
	}
	c := &s.block.Cells[t.Y][t.X]
	c.Items = append(c.Items, Item{ID: id, Count: count})
}

// ItemsAt returns the items on a tile.
func (s *Session) ItemsAt(t coords.Tile) []Item {
	if !t.InBlock() {
		return nil
	}
	return s.block.Cells[t.Y][t.X].Items
}

// PlaceItems rolls the given percentage chance once per cell of the inclusive
// rectangle and places one item drawn from pick on success.
func (s *Session) PlaceItems(rng *rand.Rand, pick func() string, chance int, x1, y1, x2, y2 int) {
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			if rng.Intn(100) < chance {
				s.SpawnItem(coords.Tile{X: x, Y: y}, pick(), 1)
			}
		}
	}
}

// PlaceNPC records a secondary-NPC spawn from a named template.
func (s *Session) PlaceNPC(t coords.Tile, template string) {
	s.block.NPCs = append(s.block.NPCs, NPCPlacement{Template: template, Pos: t})
}

// NPCs returns all pending NPC placements in the block.
func (s *Session) NPCs() []NPCPlacement {
	return s.block.NPCs
}
