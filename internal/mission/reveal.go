package mission

import (
	"log/slog"

	"github.com/pixil98/go-rogue/internal/coords"
	"github.com/pixil98/go-rogue/internal/overmap"
)

// revealDestination finds a random chunk of the given terrain within a
// medium-distance band of the player and reveals a small area around it.
func revealDestination(ctx *Context, ter string) (coords.Overmap, bool) {
	pos, found := ctx.World.FindRandom(overmap.Query{
		Origin: ctx.Player.Pos,
		Type:   ter,
		Radius: ctx.rng(40, 80),
	})
	if !found {
		return coords.Overmap{}, false
	}
	ctx.World.Reveal(pos, 2)
	return pos, true
}

// revealRoad reveals the road route between the roads nearest to the two
// endpoints. Returns false when either endpoint has no road nearby or the
// roads do not connect.
func revealRoad(ctx *Context, source, dest coords.Overmap) bool {
	sourceRoad, ok := ctx.World.FindClosest(overmap.Query{Origin: source, Type: overmap.TerRoad, Radius: 3})
	if !ok {
		return false
	}
	destRoad, ok := ctx.World.FindClosest(overmap.Query{Origin: dest, Type: overmap.TerRoad, Radius: 3})
	if !ok {
		return false
	}
	return ctx.World.RevealRoute(sourceRoad, destRoad)
}

// revealRouteTo marks the road leading to the destination on the player's
// map, crediting the mission's NPC in the message.
func revealRouteTo(ctx *Context, m *Mission, dest coords.Overmap) {
	p := ctx.NPCs.Find(m.NPCID)
	if p == nil {
		slog.Warn("could not find mission npc", "npc", m.NPCID)
		return
	}

	if revealRoad(ctx, ctx.Player.Pos, dest) {
		ctx.Log.Addf("%s also marks the road that leads to it...", p.Name)
	}
}

// RevealTarget resolves a random location of the given terrain, reveals it,
// binds it as the mission target, and sometimes reveals the connecting road.
func RevealTarget(ctx *Context, m *Mission, ter string) {
	p := ctx.NPCs.Find(m.NPCID)
	if p == nil {
		slog.Warn("could not find mission npc", "npc", m.NPCID)
		return
	}

	dest, found := revealDestination(ctx, ter)
	if !found {
		return
	}

	ctx.Log.Addf("%s has marked the only %s known to them on your map.",
		p.Name, overmap.TerrainName(ctx.World.Ter(dest)))
	m.SetTarget(dest)
	if ctx.oneIn(3) {
		revealRouteTo(ctx, m, dest)
	}
}

// RevealAnyTarget picks one terrain from the list uniformly at random and
// reveals it as the mission target.
func RevealAnyTarget(ctx *Context, m *Mission, terrains []string) {
	if len(terrains) == 0 {
		return
	}
	RevealTarget(ctx, m, terrains[ctx.Rand.Intn(len(terrains))])
}
