package mission

import (
	"strings"
	"testing"

	"github.com/pixil98/go-rogue/internal/coords"
	"github.com/pixil98/go-rogue/internal/game"
	"github.com/pixil98/go-testutil"
)

func TestRevealTarget(t *testing.T) {
	ctx := newTestContext(nil)
	ctx.NPCs.Insert(&game.NPC{ID: "npc-1", Name: "Anna"})

	cabin := coords.Overmap{X: 5, Y: 5, Z: 0}
	ctx.World.SetTer(cabin, "cabin")

	m := New("m", "npc-1")
	RevealTarget(ctx, m, "cabin")

	got, bound := m.Target()
	testutil.AssertEqual(t, "bound", bound, true)
	testutil.AssertEqual(t, "target", got, cabin)
	testutil.AssertEqual(t, "revealed", ctx.World.Seen(cabin), true)

	lines := ctx.Log.Lines()
	if len(lines) == 0 || !strings.Contains(lines[0], "cabin") {
		t.Fatalf("expected a message naming the cabin, got %v", lines)
	}
}

func TestRevealTargetMissingTerrain(t *testing.T) {
	ctx := newTestContext(nil)
	ctx.NPCs.Insert(&game.NPC{ID: "npc-1", Name: "Anna"})

	m := New("m", "npc-1")
	RevealTarget(ctx, m, "cabin")

	_, bound := m.Target()
	testutil.AssertEqual(t, "unbound", bound, false)
}

func TestRevealAnyTargetEmptyList(t *testing.T) {
	ctx := newTestContext(nil)
	m := New("m", "")
	RevealAnyTarget(ctx, m, nil)

	_, bound := m.Target()
	testutil.AssertEqual(t, "unbound", bound, false)
}

func TestRevealRoadBetweenSites(t *testing.T) {
	ctx := newTestContext(nil)

	// Flatten both endpoint neighborhoods so generated roads cannot shadow
	// the stamped route.
	src := coords.Overmap{X: 200, Y: 0, Z: 0}
	dest := coords.Overmap{X: 208, Y: 2, Z: 0}
	for dy := -3; dy <= 3; dy++ {
		for dx := -3; dx <= 3; dx++ {
			ctx.World.SetTer(src.Add(dx, dy), "field")
			ctx.World.SetTer(dest.Add(dx, dy), "field")
		}
	}
	for x := 200; x <= 208; x++ {
		ctx.World.SetTer(coords.Overmap{X: x, Y: 0, Z: 0}, "road")
	}

	testutil.AssertEqual(t, "revealed", revealRoad(ctx, src, dest), true)
	testutil.AssertEqual(t, "seen", ctx.World.Seen(coords.Overmap{X: 204, Y: 0, Z: 0}), true)

	// No road anywhere near the far endpoint.
	far := coords.Overmap{X: 300, Y: 300, Z: 0}
	for dy := -3; dy <= 3; dy++ {
		for dx := -3; dx <= 3; dx++ {
			ctx.World.SetTer(far.Add(dx, dy), "field")
		}
	}
	testutil.AssertEqual(t, "unreachable", revealRoad(ctx, src, far), false)
}
