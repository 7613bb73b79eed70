package coords

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestOvermapSubmapRoundTrip(t *testing.T) {
	tests := map[string]struct {
		om        Overmap
		expSubmap Submap
	}{
		"origin":   {om: Overmap{0, 0, 0}, expSubmap: Submap{0, 0, 0}},
		"positive": {om: Overmap{3, 5, 0}, expSubmap: Submap{6, 10, 0}},
		"negative": {om: Overmap{-2, -1, -4}, expSubmap: Submap{-4, -2, -4}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			sm := tt.om.Submap()
			testutil.AssertEqual(t, "submap", sm, tt.expSubmap)
			testutil.AssertEqual(t, "round trip", sm.Overmap(), tt.om)
		})
	}
}

func TestSubmapOvermapFloors(t *testing.T) {
	// The odd submap inside a chunk must map back to the same chunk, on both
	// sides of the origin.
	testutil.AssertEqual(t, "positive interior", Submap{7, 3, 0}.Overmap(), Overmap{3, 1, 0})
	testutil.AssertEqual(t, "negative interior", Submap{-1, -3, 0}.Overmap(), Overmap{-1, -2, 0})
}

func TestDist(t *testing.T) {
	tests := map[string]struct {
		a, b Overmap
		exp  int
	}{
		"same point":       {a: Overmap{1, 1, 0}, b: Overmap{1, 1, 0}, exp: 0},
		"diagonal":         {a: Overmap{0, 0, 0}, b: Overmap{3, 3, 0}, exp: 3},
		"axis dominant":    {a: Overmap{0, 0, 0}, b: Overmap{7, 2, 0}, exp: 7},
		"negative":         {a: Overmap{-4, 0, 0}, b: Overmap{1, -2, 0}, exp: 5},
		"z level ignored":  {a: Overmap{2, 2, -3}, b: Overmap{2, 2, 0}, exp: 0},
		"symmetric metric": {a: Overmap{5, 1, 0}, b: Overmap{0, 0, 0}, exp: 5},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "dist", Dist(tt.a, tt.b), tt.exp)
		})
	}
}

func TestTileInBlock(t *testing.T) {
	testutil.AssertEqual(t, "origin", Tile{0, 0}.InBlock(), true)
	testutil.AssertEqual(t, "far corner", Tile{BlockX - 1, BlockY - 1}.InBlock(), true)
	testutil.AssertEqual(t, "past edge", Tile{BlockX, 0}.InBlock(), false)
	testutil.AssertEqual(t, "negative", Tile{-1, 4}.InBlock(), false)
}
