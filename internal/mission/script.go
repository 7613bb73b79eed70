package mission

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-rogue/internal/coords"
	"github.com/pixil98/go-rogue/internal/game"
	"github.com/pixil98/go-rogue/internal/overmap"
	"github.com/pixil98/go-rogue/internal/tinymap"
)

// ErrDeferred reports that a script references a map update that has not been
// registered yet. Callers should retry compilation after more updates load.
var ErrDeferred = fmt.Errorf("referenced map update not loaded yet")

// UpdateFunc applies a named map edit to a mission's target site.
type UpdateFunc func(*tinymap.Session)

// UpdateRegistry maps update names to their implementations.
type UpdateRegistry map[string]UpdateFunc

// ScriptSpec is the declarative form of a mission-start procedure. All stages
// are optional; present stages run in a fixed order: dialogue effects, target
// assignment, terrain reveals, then map updates at the target.
type ScriptSpec struct {
	Effects      []*EffectSpec `json:"effects,omitempty"`
	AssignTarget *TargetSpec   `json:"assign_mission_target,omitempty"`
	RevealOmTer  TerrainList   `json:"reveal_om_ter,omitempty"`
	UpdateMapgen UpdateList    `json:"update_mapgen,omitempty"`
}

func (s *ScriptSpec) Validate() error {
	el := errors.NewErrorList()
	for i, e := range s.Effects {
		if e == nil {
			el.Add(fmt.Errorf("effect %d must not be null", i))
			continue
		}
		el.Add(e.Validate())
	}
	if s.AssignTarget != nil {
		el.Add(s.AssignTarget.Validate())
	}
	for i, u := range s.UpdateMapgen {
		if u.ID == "" {
			el.Add(fmt.Errorf("map update %d must name an update", i))
		}
	}
	return el.Err()
}

// TerrainList unmarshals from either a single terrain string or a list.
type TerrainList []string

func (l *TerrainList) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*l = TerrainList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*l = TerrainList(many)
	return nil
}

// TargetSpec is the wire form of TargetParams.
type TargetSpec struct {
	OmTerrain        string `json:"om_terrain"`
	OmSpecial        string `json:"om_special,omitempty"`
	OmTerrainReplace string `json:"om_terrain_replace,omitempty"`
	RevealRadius     *int   `json:"reveal_radius,omitempty"`
	MustSee          bool   `json:"must_see,omitempty"`
	Random           bool   `json:"random,omitempty"`
	SearchRange      *int   `json:"search_range,omitempty"`
	Z                *int   `json:"z,omitempty"`
}

func (t *TargetSpec) Validate() error {
	el := errors.NewErrorList()
	if t.OmTerrain == "" {
		el.Add(fmt.Errorf("om_terrain must be set"))
	}
	if t.OmSpecial != "" && t.OmTerrainReplace != "" {
		el.Add(fmt.Errorf("om_special and om_terrain_replace are mutually exclusive"))
	}
	return el.Err()
}

// params converts the wire form to search parameters, clamping the numeric
// knobs so a zero or negative value in data cannot disable a stage.
func (t *TargetSpec) params(ctx *Context) TargetParams {
	p := TargetParams{
		OterType:          t.OmTerrain,
		Special:           t.OmSpecial,
		ReplaceTer:        t.OmTerrainReplace,
		MustSee:           t.MustSee,
		Random:            t.Random,
		CreateIfNecessary: t.OmSpecial != "" || t.OmTerrainReplace != "",
	}
	if t.RevealRadius != nil {
		r := max(1, *t.RevealRadius)
		p.RevealRadius = &r
	}
	if t.SearchRange != nil {
		p.SearchRange = max(1, *t.SearchRange)
	}
	if t.Z != nil {
		origin := ctx.Player.Pos.WithZ(*t.Z)
		p.SearchOrigin = &origin
	}
	return p
}

// EffectSpec is one dialogue effect. Exactly one field must be set.
type EffectSpec struct {
	// UAddItem gives the player one of the named item.
	UAddItem string `json:"u_add_item,omitempty"`

	// NPCAttitude changes the offering NPC's attitude.
	NPCAttitude string `json:"npc_attitude,omitempty"`

	// Message writes a templated line to the player's log. The template sees
	// .Player and .NPC.
	Message string `json:"message,omitempty"`
}

func (e *EffectSpec) Validate() error {
	n := 0
	for _, v := range []string{e.UAddItem, e.NPCAttitude, e.Message} {
		if v != "" {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf("effect must set exactly one of u_add_item, npc_attitude, message")
	}
	if e.NPCAttitude != "" {
		switch e.NPCAttitude {
		case game.AttitudeNeutral, game.AttitudeFollow, game.AttitudeTalk, game.AttitudeHostile:
		default:
			return fmt.Errorf("unknown npc attitude %q", e.NPCAttitude)
		}
	}
	return nil
}

// UpdateList unmarshals from a single update reference or a list of them.
type UpdateList []UpdateRef

// UpdateRef names a registered map update. When both OmSpecial and OmTerrain
// are set the update runs at a freshly revealed chunk of that terrain rather
// than at the mission's bound target.
type UpdateRef struct {
	ID        string `json:"update_mapgen_id"`
	OmTerrain string `json:"om_terrain,omitempty"`
	OmSpecial string `json:"om_special,omitempty"`
}

func (l *UpdateList) UnmarshalJSON(b []byte) error {
	var one UpdateRef
	if err := json.Unmarshal(b, &one); err == nil && one.ID != "" {
		*l = UpdateList{one}
		return nil
	}
	var many []UpdateRef
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*l = UpdateList(many)
	return nil
}

// Compile turns a validated script into a runnable start procedure. It fails
// with ErrDeferred when the script references an update absent from the
// registry, so loaders can retry once the rest of the catalog is in.
func Compile(s *ScriptSpec, updates UpdateRegistry) (StartFunc, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	ups := make([]siteUpdate, 0, len(s.UpdateMapgen))
	for _, ref := range s.UpdateMapgen {
		fn, ok := updates[ref.ID]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrDeferred, ref.ID)
		}
		ups = append(ups, siteUpdate{fn: fn, ref: ref})
	}

	spec := *s
	return func(ctx *Context, m *Mission) {
		for _, e := range spec.Effects {
			runEffect(ctx, m, e)
		}

		if spec.AssignTarget != nil {
			if _, ok := AssignTarget(ctx, spec.AssignTarget.params(ctx), m); !ok {
				return
			}
		}

		RevealAnyTarget(ctx, m, spec.RevealOmTer)

		if len(ups) > 0 {
			applyUpdates(ctx, m, ups)
		}
	}, nil
}

// runEffect applies one dialogue effect. When the mission's NPC is gone a
// nameless stand-in absorbs NPC-directed effects so the rest still run.
func runEffect(ctx *Context, m *Mission, e *EffectSpec) {
	p := ctx.NPCs.Find(m.NPCID)
	if p == nil {
		p = &game.NPC{Name: "someone"}
	}

	switch {
	case e.UAddItem != "":
		ctx.Player.AddItem(e.UAddItem)
		ctx.Log.Addf("%s gave you a %s.", p.Name, e.UAddItem)
	case e.NPCAttitude != "":
		p.SetAttitude(e.NPCAttitude)
	case e.Message != "":
		out, err := game.ExpandTemplate(e.Message, map[string]any{
			"Player": ctx.Player,
			"NPC":    p,
		})
		if err != nil {
			slog.Warn("expanding effect message", "error", err)
			return
		}
		ctx.Log.Addf("%s", out)
	}
}

// siteUpdate pairs a compiled update with the reference that locates it.
type siteUpdate struct {
	fn  UpdateFunc
	ref UpdateRef
}

// applyUpdates runs each compiled update at its own site.
func applyUpdates(ctx *Context, m *Mission, ups []siteUpdate) {
	for _, u := range ups {
		site, ok := updateSite(ctx, m, u.ref)
		if !ok {
			continue
		}

		sess, err := tinymap.Open(ctx.Tiles, site)
		if err != nil {
			slog.Warn("opening local area", "loc", site, "error", err)
			continue
		}
		u.fn(sess)
		closeSession(sess)
	}
}

// updateSite locates where an update applies. References naming a special and
// a terrain resolve to the nearest chunk of that terrain and reveal it; the
// rest use the mission's bound target.
func updateSite(ctx *Context, m *Mission, ref UpdateRef) (coords.Overmap, bool) {
	if ref.OmSpecial != "" && ref.OmTerrain != "" {
		pos, found := ctx.World.FindClosest(overmap.Query{Origin: ctx.Player.Pos, Type: ref.OmTerrain})
		if !found {
			slog.Warn("unable to find terrain for map update", "terrain", ref.OmTerrain, "update", ref.ID)
			return coords.Overmap{}, false
		}
		ctx.World.Reveal(pos, 1)
		return pos, true
	}

	target, ok := m.Target()
	if !ok {
		slog.Warn("map update without a mission target", "update", ref.ID)
	}
	return target, ok
}

// TypeSpec describes a mission type asset: its display text and how the
// mission starts. Start is either the name of a built-in procedure or an
// inline script.
type TypeSpec struct {
	Name   string     `json:"name"`
	Goal   string     `json:"goal,omitempty"`
	Start  *StartSpec `json:"start,omitempty"`
	Origin string     `json:"origin,omitempty"`
}

func (t *TypeSpec) Validate() error {
	el := errors.NewErrorList()
	if t.Name == "" {
		el.Add(fmt.Errorf("name must be set"))
	}
	if t.Start != nil {
		el.Add(t.Start.Validate())
	}
	return el.Err()
}

// Resolve compiles the type's start definition against the given registries.
func (t *TypeSpec) Resolve(builtins Registry, updates UpdateRegistry) (StartFunc, error) {
	if t.Start == nil {
		return func(*Context, *Mission) {}, nil
	}
	return t.Start.resolve(builtins, updates)
}

// StartSpec unmarshals from either a builtin name or an inline script object.
type StartSpec struct {
	builtin string
	script  *ScriptSpec
}

func (s *StartSpec) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		s.builtin = name
		return nil
	}
	s.script = &ScriptSpec{}
	return json.Unmarshal(b, s.script)
}

func (s StartSpec) MarshalJSON() ([]byte, error) {
	if s.script != nil {
		return json.Marshal(s.script)
	}
	return json.Marshal(s.builtin)
}

func (s *StartSpec) Validate() error {
	if s.script != nil {
		return s.script.Validate()
	}
	if s.builtin == "" {
		return fmt.Errorf("start must name a builtin or be a script")
	}
	return nil
}

func (s *StartSpec) resolve(builtins Registry, updates UpdateRegistry) (StartFunc, error) {
	if s.script != nil {
		return Compile(s.script, updates)
	}
	fn, ok := builtins.Get(s.builtin)
	if !ok {
		return nil, fmt.Errorf("unknown mission start %q", s.builtin)
	}
	return fn, nil
}
