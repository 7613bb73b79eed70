package mission

import (
	"testing"

	"github.com/pixil98/go-rogue/internal/coords"
	"github.com/pixil98/go-rogue/internal/game"
	"github.com/pixil98/go-rogue/internal/overmap"
	"github.com/pixil98/go-rogue/internal/storage"
	"github.com/pixil98/go-testutil"
)

func newTestContext(specials storage.Storer[*overmap.Special]) *Context {
	world := overmap.New(11, specials)
	return NewContext(world, &game.Player{Name: "tester"}, 11)
}

func TestMissionTargetBinding(t *testing.T) {
	m := New("MISSION_GET_SOFTWARE", "npc-1")
	testutil.AssertEqual(t, "uid set", m.UID != "", true)

	_, bound := m.Target()
	testutil.AssertEqual(t, "unbound", bound, false)

	first := coords.Overmap{X: 1, Y: 2, Z: 0}
	second := coords.Overmap{X: 9, Y: 9, Z: 0}
	m.SetTarget(first)
	m.SetTarget(second)

	got, bound := m.Target()
	testutil.AssertEqual(t, "bound", bound, true)
	testutil.AssertEqual(t, "last write wins", got, second)
}

func TestAssignTargetDirect(t *testing.T) {
	ctx := newTestContext(nil)
	m := New("m", "")

	site := coords.Overmap{X: 3, Y: 0, Z: 0}
	ctx.World.SetTer(site, "evac_center_18")

	reveal := 2
	got, ok := AssignTarget(ctx, TargetParams{
		OterType:     "evac_center_18",
		RevealRadius: &reveal,
	}, m)

	testutil.AssertEqual(t, "found", ok, true)
	testutil.AssertEqual(t, "position", got, site)
	testutil.AssertEqual(t, "revealed", ctx.World.Seen(site.Add(2, 2)), true)

	bound, hasTarget := m.Target()
	testutil.AssertEqual(t, "bound", hasTarget, true)
	testutil.AssertEqual(t, "target", bound, site)
}

func TestAssignTargetFailsSoft(t *testing.T) {
	ctx := newTestContext(nil)
	m := New("m", "")

	_, ok := AssignTarget(ctx, TargetParams{OterType: "evac_center_18"}, m)
	testutil.AssertEqual(t, "not found", ok, false)

	_, bound := m.Target()
	testutil.AssertEqual(t, "unbound", bound, false)
}

func TestAssignTargetRandomNoCreateLeavesWorldUntouched(t *testing.T) {
	ctx := newTestContext(nil)
	m := New("m", "")

	origin := coords.Overmap{X: 400, Y: 400, Z: 0}
	_, ok := AssignTarget(ctx, TargetParams{
		OterType:     "house",
		Random:       true,
		SearchOrigin: &origin,
		SearchRange:  10,
	}, m)

	testutil.AssertEqual(t, "not found", ok, false)
	_, bound := m.Target()
	testutil.AssertEqual(t, "unbound", bound, false)

	// The failed search must not have materialized anything: even common
	// terrain stays absent when the scan is restricted to existing sectors.
	_, ok = ctx.World.FindClosest(overmap.Query{Origin: origin, Type: overmap.TerField, Radius: 10})
	testutil.AssertEqual(t, "still virgin", ok, false)
}

func TestAssignTargetSingleMatchAtRange(t *testing.T) {
	ctx := newTestContext(nil)
	m := New("m", "")

	bank := coords.Overmap{X: 5, Y: 0, Z: 0}
	ctx.World.SetTer(bank, "bank")

	got, ok := AssignTarget(ctx, TargetParams{OterType: "bank", SearchRange: 10}, m)
	testutil.AssertEqual(t, "found", ok, true)
	testutil.AssertEqual(t, "position", got, bank)
	testutil.AssertEqual(t, "distance", coords.Dist(ctx.Player.Pos, got), 5)
}

func TestAssignTargetReplacesTerrain(t *testing.T) {
	ctx := newTestContext(nil)
	m := New("m", "")

	donor := coords.Overmap{X: 2, Y: 2, Z: 0}
	ctx.World.SetTer(donor, "cabin")

	got, ok := AssignTarget(ctx, TargetParams{
		OterType:          "cabin_dead",
		ReplaceTer:        "cabin",
		CreateIfNecessary: true,
	}, m)

	testutil.AssertEqual(t, "found", ok, true)
	testutil.AssertEqual(t, "position", got, donor)
	testutil.AssertEqual(t, "relabeled", ctx.World.Ter(donor), "cabin_dead")
}

func TestAssignTargetMustSeeNeverCreates(t *testing.T) {
	ctx := newTestContext(nil)
	m := New("m", "")

	donor := coords.Overmap{X: 2, Y: 2, Z: 0}
	ctx.World.SetTer(donor, "cabin")

	_, ok := AssignTarget(ctx, TargetParams{
		OterType:          "cabin_dead",
		ReplaceTer:        "cabin",
		CreateIfNecessary: true,
		MustSee:           true,
	}, m)

	testutil.AssertEqual(t, "not found", ok, false)
	testutil.AssertEqual(t, "untouched", ctx.World.Ter(donor), "cabin")
}

func TestAssignTargetPlacesSpecial(t *testing.T) {
	specials := storage.MapStore[*overmap.Special]{
		"evac_center": &overmap.Special{
			Pieces: []overmap.SpecialPiece{{Ter: "evac_center_18"}},
		},
	}
	ctx := newTestContext(specials)
	m := New("m", "")

	// Flatten the anchor area so the special always fits.
	for dy := -3; dy <= 3; dy++ {
		for dx := -3; dx <= 3; dx++ {
			ctx.World.SetTer(coords.Overmap{X: dx, Y: dy, Z: 0}, overmap.TerField)
		}
	}

	got, ok := AssignTarget(ctx, TargetParams{
		OterType:          "evac_center_18",
		Special:           "evac_center",
		SearchRange:       2,
		CreateIfNecessary: true,
	}, m)

	testutil.AssertEqual(t, "found", ok, true)
	testutil.AssertEqual(t, "placed", ctx.World.Ter(got), "evac_center_18")
}

func TestTargetOmTerSearchesOffsetLevel(t *testing.T) {
	ctx := newTestContext(nil)
	m := New("m", "")

	site := coords.Overmap{X: 1, Y: 1, Z: -2}
	ctx.World.SetTer(site, "necropolis_c_44")

	got, ok := TargetOmTer(ctx, "necropolis_c_44", 3, m, false, -2)
	testutil.AssertEqual(t, "found", ok, true)
	testutil.AssertEqual(t, "position", got, site)
	testutil.AssertEqual(t, "revealed", ctx.World.Seen(site), true)
}

func TestTargetOmTerRandomUsesOrigin(t *testing.T) {
	ctx := newTestContext(nil)
	m := New("m", "")

	origin := coords.Overmap{X: 50, Y: 50, Z: 0}
	site := origin.Add(2, 1)
	ctx.World.SetTer(site, "ranch_camp_59")

	got, ok := TargetOmTerRandom(ctx, "ranch_camp_59", 1, m, false, 5, &origin)
	testutil.AssertEqual(t, "found", ok, true)
	testutil.AssertEqual(t, "position", got, site)

	// Out of range of the player, so the default origin must fail.
	m2 := New("m", "")
	_, ok = TargetOmTerRandom(ctx, "ranch_camp_59", 1, m2, false, 5, nil)
	testutil.AssertEqual(t, "out of range", ok, false)
}
