package mission

import (
	"math/rand"
	"testing"

	"github.com/pixil98/go-rogue/internal/coords"
	"github.com/pixil98/go-rogue/internal/tinymap"
	"github.com/pixil98/go-testutil"
)

// blockStore backs sessions with prepared blocks for testing.
type blockStore map[coords.Overmap]*tinymap.Block

func (s blockStore) LoadBlock(c coords.Overmap) (*tinymap.Block, error) {
	if blk, ok := s[c]; ok {
		return blk.Clone(), nil
	}
	return tinymap.NewBlock(tinymap.TerDirt), nil
}

func (s blockStore) StoreBlock(c coords.Overmap, blk *tinymap.Block) error {
	s[c] = blk
	return nil
}

func openBlock(t *testing.T, blk *tinymap.Block) *tinymap.Session {
	t.Helper()
	store := blockStore{{X: 0, Y: 0, Z: 0}: blk}
	sess, err := tinymap.Open(store, coords.Overmap{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sess
}

func TestConsolePointPrefersBrokenConsole(t *testing.T) {
	blk := tinymap.NewBlock(tinymap.TerFloor)
	broken := coords.Tile{X: 7, Y: 7}
	blk.Cells[broken.Y][broken.X].Ter = tinymap.TerConsoleBroken
	// A bedroom candidate exists too; the broken console still wins.
	blk.Cells[10][10].Furn = tinymap.FurnBed

	sess := openBlock(t, blk)
	got := findConsolePoint(rand.New(rand.NewSource(1)), sess)
	testutil.AssertEqual(t, "repurposed", got, broken)
}

func TestConsolePointNextToBedroomFurniture(t *testing.T) {
	// Solid rock except one floor tile beside a bed.
	blk := tinymap.NewBlock(tinymap.TerRock)
	blk.Cells[5][5].Ter = tinymap.TerFloor
	blk.Cells[5][5].Furn = tinymap.FurnBed
	blk.Cells[5][6].Ter = tinymap.TerFloor

	sess := openBlock(t, blk)
	got := findConsolePoint(rand.New(rand.NewSource(1)), sess)
	testutil.AssertEqual(t, "beside bed", got, coords.Tile{X: 6, Y: 5})
}

func TestConsolePointWalledInFloor(t *testing.T) {
	blk := tinymap.NewBlock(tinymap.TerRock)
	blk.Cells[8][8].Ter = tinymap.TerFloor

	sess := openBlock(t, blk)
	got := findConsolePoint(rand.New(rand.NewSource(1)), sess)
	testutil.AssertEqual(t, "enclosed", got, coords.Tile{X: 8, Y: 8})
}

func TestConsolePointFallbackStaysCentered(t *testing.T) {
	// No consoles, no floor at all: the fallback area must stay away from the
	// outer walls.
	blk := tinymap.NewBlock(tinymap.TerDirt)
	sess := openBlock(t, blk)

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		got := findConsolePoint(rng, sess)
		inX := got.X >= consoleFallbackMargin && got.X < coords.BlockX-consoleFallbackMargin
		inY := got.Y >= consoleFallbackMargin && got.Y < coords.BlockY-consoleFallbackMargin
		if !inX || !inY {
			t.Fatalf("fallback point %v outside the center area", got)
		}
	}
}

func TestConsolePointFallbackIsUniform(t *testing.T) {
	blk := tinymap.NewBlock(tinymap.TerDirt)
	sess := openBlock(t, blk)

	rng := rand.New(rand.NewSource(7))
	counts := map[coords.Tile]int{}
	for i := 0; i < 1000; i++ {
		counts[findConsolePoint(rng, sess)]++
	}

	// A uniform pick over the center area touches most candidate tiles and
	// piles up on none of them.
	area := (coords.BlockX - 2*consoleFallbackMargin) * (coords.BlockY - 2*consoleFallbackMargin)
	if len(counts) < area*3/4 {
		t.Errorf("only %d of %d fallback tiles drawn over 1000 tries", len(counts), area)
	}
	for pt, n := range counts {
		if n > 30 {
			t.Errorf("fallback tile %v drawn %d times", pt, n)
		}
	}
}

func TestConsolePointIgnoresDoorEnclosure(t *testing.T) {
	// A floor tile with a door in its enclosure is not walled in. It sits
	// outside the fallback area, so picking it would be a scan hit.
	blk := tinymap.NewBlock(tinymap.TerRock)
	blk.Cells[2][2].Ter = tinymap.TerFloor
	blk.Cells[1][2].Ter = tinymap.TerDoorClosed

	sess := openBlock(t, blk)
	got := findConsolePoint(rand.New(rand.NewSource(3)), sess)
	testutil.AssertEqual(t, "fell back", got == (coords.Tile{X: 2, Y: 2}), false)
}
