package mission

import (
	"log/slog"

	"github.com/pixil98/go-rogue/internal/coords"
	"github.com/pixil98/go-rogue/internal/overmap"
)

// TargetParams are the search criteria for resolving a mission target.
type TargetParams struct {
	// OterType is the overmap terrain subtype to find. Required.
	OterType string

	// Special restricts the search to chunks owned by the named special,
	// and allows the generation fallback to place that special.
	Special string

	// ReplaceTer names a terrain subtype that may be relabeled to OterType
	// when no direct match exists and generation is allowed.
	ReplaceTer string

	// SearchOrigin overrides the default origin (the player's position).
	SearchOrigin *coords.Overmap

	// RevealRadius, when set, discloses chunks around the resolved target.
	// The engine applies the value literally; zero reveals one chunk.
	RevealRadius *int

	MustSee           bool
	Random            bool
	CreateIfNecessary bool

	// SearchRange in chunks. Non-positive means the overmap default.
	SearchRange int
}

// AssignTarget resolves the criteria to a concrete overmap coordinate and
// binds it to the mission. Resolution tiers, in strict order: search the
// existing world; generate matching content when permitted (place the
// requested special, or relabel a replacement terrain in place); fail with a
// diagnostic. Failure is a legitimate outcome, reported by the bool.
func AssignTarget(ctx *Context, p TargetParams, m *Mission) (coords.Overmap, bool) {
	origin := ctx.Player.Pos
	if p.SearchOrigin != nil {
		origin = *p.SearchOrigin
	}

	q := overmap.Query{
		Origin:  origin,
		Type:    p.OterType,
		Radius:  p.SearchRange,
		MustSee: p.MustSee,
		Special: p.Special,
	}

	var pos coords.Overmap
	var found bool
	if p.Random {
		pos, found = ctx.World.FindRandom(q)
	} else {
		pos, found = ctx.World.FindClosest(q)
	}

	// No match in the existing world. If we may create content and the
	// request doesn't demand a previously seen location, try to generate it.
	if !found && p.CreateIfNecessary && !p.MustSee {
		if p.Special != "" {
			// The terrain belongs to a special: place the whole special,
			// then search again for the subtype inside it.
			if ctx.World.PlaceSpecial(p.Special, origin, p.SearchRange) {
				pos, found = ctx.World.FindClosest(overmap.Query{
					Origin:  origin,
					Type:    p.OterType,
					Radius:  p.SearchRange,
					Special: p.Special,
				})
			}
		} else if p.ReplaceTer != "" {
			// Look for the replacement terrain in the existing world first,
			// then widen the search to freshly generated sectors.
			rq := overmap.Query{Origin: origin, Type: p.ReplaceTer, Radius: p.SearchRange}
			pos, found = ctx.World.FindRandom(rq)
			if !found {
				rq.AllowNew = true
				pos, found = ctx.World.FindRandom(rq)
			}
			// Relabel the match in place to the requested subtype.
			if found {
				ctx.World.SetTer(pos, p.OterType)
			}
		}
	}

	if !found {
		slog.Warn("unable to find and assign mission target", "terrain", p.OterType)
		return coords.Overmap{}, false
	}

	if p.RevealRadius != nil {
		ctx.World.Reveal(pos, *p.RevealRadius)
	}

	m.SetTarget(pos)

	return pos, true
}

// TargetOmTer finds the closest chunk of the given terrain near the player,
// reveals around it when revealRad is non-negative, and binds it as the
// mission target. z offsets the vertical level of the search origin.
func TargetOmTer(ctx *Context, ter string, revealRad int, m *Mission, mustSee bool, z int) (coords.Overmap, bool) {
	origin := ctx.Player.Pos.WithZ(ctx.Player.Pos.Z + z)
	pos, found := ctx.World.FindClosest(overmap.Query{Origin: origin, Type: ter, MustSee: mustSee})
	if !found {
		slog.Warn("unable to find mission terrain", "terrain", ter)
		return coords.Overmap{}, false
	}
	if revealRad >= 0 {
		ctx.World.Reveal(pos, revealRad)
	}
	m.SetTarget(pos)
	return pos, true
}

// TargetOmTerRandom picks a random chunk of the given terrain within rang of
// the origin (the player's position unless origin is given), reveals around
// it when revealRad is non-negative, and binds it as the mission target.
func TargetOmTerRandom(ctx *Context, ter string, revealRad int, m *Mission, mustSee bool, rang int, origin *coords.Overmap) (coords.Overmap, bool) {
	from := ctx.Player.Pos
	if origin != nil {
		from = *origin
	}
	pos, found := ctx.World.FindRandom(overmap.Query{Origin: from, Type: ter, Radius: rang, MustSee: mustSee})
	if !found {
		slog.Warn("unable to find mission terrain", "terrain", ter)
		return coords.Overmap{}, false
	}
	if revealRad >= 0 {
		ctx.World.Reveal(pos, revealRad)
	}
	m.SetTarget(pos)
	return pos, true
}
