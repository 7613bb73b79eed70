package game

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-rogue/internal/coords"
	"github.com/pixil98/go-rogue/internal/storage"
)

// NPC attitudes toward the player.
const (
	AttitudeNeutral = "neutral"
	AttitudeFollow  = "follow"
	AttitudeTalk    = "talk"
	AttitudeHostile = "hostile"
)

// NPC character classes recognized by mission logic.
const (
	ClassNone      = ""
	ClassHacker    = "hacker"
	ClassDoctor    = "doctor"
	ClassScientist = "scientist"
	ClassCowboy    = "cowboy"
)

// NPC is a non-player character known to the roster.
type NPC struct {
	ID       string
	Name     string
	Class    string
	Attitude string
	Job      string
	Pos      coords.Overmap

	// Guarding pins the NPC to its current position.
	Guarding bool

	// Aggression and Owed shape how the NPC treats the player in dialogue.
	Aggression int
	Owed       int

	Items    []string
	Effects  []string
	Missions []string
}

// SetAttitude changes the NPC's attitude toward the player.
func (n *NPC) SetAttitude(a string) {
	n.Attitude = a
}

// AddEffect applies a named persistent effect to the NPC.
func (n *NPC) AddEffect(effect string) {
	for _, e := range n.Effects {
		if e == effect {
			return
		}
	}
	n.Effects = append(n.Effects, effect)
}

// RemoveItemsWith drops every carried item the predicate accepts.
func (n *NPC) RemoveItemsWith(pred func(string) bool) {
	kept := n.Items[:0]
	for _, it := range n.Items {
		if !pred(it) {
			kept = append(kept, it)
		}
	}
	n.Items = kept
}

// GuardCurrentPos makes the NPC stay where it is.
func (n *NPC) GuardCurrentPos() {
	n.Guarding = true
}

// AddMission queues a mission the NPC can offer the player.
func (n *NPC) AddMission(missionType string) {
	n.Missions = append(n.Missions, missionType)
}

// Roster tracks every live NPC by id.
type Roster struct {
	npcs map[string]*NPC
}

func NewRoster() *Roster {
	return &Roster{npcs: make(map[string]*NPC)}
}

// Find returns the NPC with the given id, or nil.
func (r *Roster) Find(id string) *NPC {
	return r.npcs[id]
}

// Insert adds an NPC to the roster, replacing any NPC with the same id.
func (r *Roster) Insert(n *NPC) {
	r.npcs[n.ID] = n
}

// NPCTemplate is an asset spec describing how to build a secondary NPC.
type NPCTemplate struct {
	Name       string `json:"name"`
	Class      string `json:"class,omitempty"`
	Attitude   string `json:"attitude,omitempty"`
	Job        string `json:"job,omitempty"`
	Aggression int    `json:"aggression,omitempty"`
	Owed       int    `json:"owed,omitempty"`

	// StartingItems references an item group rolled for the NPC's inventory.
	StartingItems storage.SmartIdentifier[*ItemGroup] `json:"starting_items,omitempty"`

	// Missions are offered by the NPC once spawned.
	Missions []string `json:"missions,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
func (t *NPCTemplate) Validate() error {
	el := errors.NewErrorList()

	if t.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	switch t.Attitude {
	case "", AttitudeNeutral, AttitudeFollow, AttitudeTalk, AttitudeHostile:
	default:
		el.Add(fmt.Errorf("invalid attitude: %s", t.Attitude))
	}

	return el.Err()
}

// Resolve resolves the template's item group reference against the catalog.
func (t *NPCTemplate) Resolve(groups storage.Storer[*ItemGroup]) error {
	if t.StartingItems.Key() == "" {
		return nil
	}
	return t.StartingItems.Resolve(groups)
}

// Build creates a live NPC from the template.
func (t *NPCTemplate) Build(id string, pos coords.Overmap) *NPC {
	attitude := t.Attitude
	if attitude == "" {
		attitude = AttitudeNeutral
	}
	return &NPC{
		ID:         id,
		Name:       t.Name,
		Class:      t.Class,
		Attitude:   attitude,
		Job:        t.Job,
		Pos:        pos,
		Aggression: t.Aggression,
		Owed:       t.Owed,
		Missions:   append([]string(nil), t.Missions...),
	}
}
