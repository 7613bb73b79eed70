package tinymap

import (
	"math/rand"
	"testing"

	"github.com/pixil98/go-rogue/internal/coords"
	"github.com/pixil98/go-testutil"
)

// memStore backs sessions with a plain map for testing.
type memStore map[coords.Overmap]*Block

func (s memStore) LoadBlock(c coords.Overmap) (*Block, error) {
	if blk, ok := s[c]; ok {
		return blk.Clone(), nil
	}
	return NewBlock(TerDirt), nil
}

func (s memStore) StoreBlock(c coords.Overmap, blk *Block) error {
	s[c] = blk
	return nil
}

func TestSessionBuffersUntilSave(t *testing.T) {
	store := memStore{}
	loc := coords.Overmap{X: 1, Y: 2, Z: 0}

	sess, err := Open(store, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sess.SetTer(coords.Tile{X: 3, Y: 3}, TerFloor)

	// A second load must not see the unsaved edit.
	other, err := Open(store, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "before save", other.Ter(coords.Tile{X: 3, Y: 3}), TerDirt)

	if err := sess.Save(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	saved, err := Open(store, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "after save", saved.Ter(coords.Tile{X: 3, Y: 3}), TerFloor)
}

func TestSessionOutOfBlockAccess(t *testing.T) {
	sess, err := Open(memStore{}, coords.Overmap{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := map[string]coords.Tile{
		"negative x": {X: -1, Y: 5},
		"negative y": {X: 5, Y: -1},
		"past x":     {X: coords.BlockX, Y: 0},
		"past y":     {X: 0, Y: coords.BlockY},
	}

	for name, tile := range tests {
		t.Run(name, func(t *testing.T) {
			sess.SetTer(tile, TerWall)
			sess.SpawnItem(tile, "rock", 1)
			testutil.AssertEqual(t, "ter", sess.Ter(tile), TerNull)
			testutil.AssertEqual(t, "furn", sess.Furn(tile), FurnNull)
			testutil.AssertEqual(t, "items", len(sess.ItemsAt(tile)), 0)
		})
	}
}

func TestDrawSquareInclusive(t *testing.T) {
	sess, err := Open(memStore{}, coords.Overmap{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sess.DrawSquareTer(TerWall, 2, 3, 4, 5)

	testutil.AssertEqual(t, "min corner", sess.Ter(coords.Tile{X: 2, Y: 3}), TerWall)
	testutil.AssertEqual(t, "max corner", sess.Ter(coords.Tile{X: 4, Y: 5}), TerWall)
	testutil.AssertEqual(t, "outside", sess.Ter(coords.Tile{X: 5, Y: 5}), TerDirt)
}

func TestTranslate(t *testing.T) {
	sess, err := Open(memStore{}, coords.Overmap{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sess.SetTer(coords.Tile{X: 0, Y: 0}, TerDoorClosed)
	sess.SetTer(coords.Tile{X: 1, Y: 0}, TerDoorClosed)
	sess.Translate(TerDoorClosed, TerDoorFrame)

	testutil.AssertEqual(t, "first", sess.Ter(coords.Tile{X: 0, Y: 0}), TerDoorFrame)
	testutil.AssertEqual(t, "second", sess.Ter(coords.Tile{X: 1, Y: 0}), TerDoorFrame)
	testutil.AssertEqual(t, "untouched", sess.Ter(coords.Tile{X: 2, Y: 0}), TerDirt)
}

func TestAddSpawnIgnoresEmpty(t *testing.T) {
	sess, err := Open(memStore{}, coords.Overmap{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sess.AddSpawn(Spawn{Type: "mon_zombie", Count: 0})
	testutil.AssertEqual(t, "zero count", len(sess.Spawns()), 0)

	sess.AddSpawn(Spawn{Type: "mon_zombie", Count: 2, Pos: coords.Tile{X: 1, Y: 1}})
	testutil.AssertEqual(t, "spawns", len(sess.Spawns()), 1)
	testutil.AssertEqual(t, "count", sess.Spawns()[0].Count, 2)
}

func TestPlaceItems(t *testing.T) {
	sess, err := Open(memStore{}, coords.Overmap{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	sess.PlaceItems(rng, func() string { return "wrench" }, 100, 0, 0, 2, 2)

	for y := 0; y <= 2; y++ {
		for x := 0; x <= 2; x++ {
			items := sess.ItemsAt(coords.Tile{X: x, Y: y})
			testutil.AssertEqual(t, "item count", len(items), 1)
			testutil.AssertEqual(t, "item id", items[0].ID, "wrench")
		}
	}

	sess.PlaceItems(rng, func() string { return "wrench" }, 0, 5, 5, 7, 7)
	testutil.AssertEqual(t, "zero chance", len(sess.ItemsAt(coords.Tile{X: 5, Y: 5})), 0)
}

func TestAddComputer(t *testing.T) {
	sess, err := Open(memStore{}, coords.Overmap{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pos := coords.Tile{X: 4, Y: 4}
	comp := sess.AddComputer(pos, "Workstation", 2)
	comp.AddOption("Download", ActionDownloadSoftware, 2)
	comp.AddFailure(FailAlarm)

	testutil.AssertEqual(t, "terrain", sess.Ter(pos), TerConsole)
	got := sess.ComputerAt(pos)
	if got == nil {
		t.Fatal("expected a computer at the console tile")
	}
	testutil.AssertEqual(t, "name", got.Name, "Workstation")
	testutil.AssertEqual(t, "security", got.Security, 2)
	testutil.AssertEqual(t, "options", len(got.Options), 1)
	testutil.AssertEqual(t, "failures", len(got.Failures), 1)

	testutil.AssertEqual(t, "empty tile", sess.ComputerAt(coords.Tile{X: 0, Y: 0}) == nil, true)
}

func TestCloneIsDeep(t *testing.T) {
	blk := NewBlock(TerDirt)
	blk.Spawns = append(blk.Spawns, Spawn{Type: "mon_dog", Count: 1})
	blk.Cells[0][0].Items = []Item{{ID: "rock", Count: 1}}

	clone := blk.Clone()
	clone.Cells[0][0].Items[0].ID = "stick"
	clone.Spawns[0].Type = "mon_cat"
	clone.Cells[1][1].Ter = TerWall

	testutil.AssertEqual(t, "items", blk.Cells[0][0].Items[0].ID, "rock")
	testutil.AssertEqual(t, "spawns", blk.Spawns[0].Type, "mon_dog")
	testutil.AssertEqual(t, "cells", blk.Cells[1][1].Ter, TerDirt)
}
