package mission

import (
	"github.com/google/uuid"
	"github.com/pixil98/go-rogue/internal/coords"
)

// Mission is the persistent record of one accepted objective. Mission-start
// procedures mutate it: they bind the target coordinate and may set the item,
// recruit class and follow-up fields. UID tags spawned creatures and consoles
// so later game logic can attribute them to this mission.
type Mission struct {
	UID   string
	Type  string
	NPCID string

	ItemID       string
	RecruitClass string
	FollowUp     string

	target    coords.Overmap
	hasTarget bool
}

// New creates a mission record of the given type, offered by the given NPC.
func New(missionType, npcID string) *Mission {
	return &Mission{
		UID:   uuid.New().String(),
		Type:  missionType,
		NPCID: npcID,
	}
}

// SetTarget binds the mission's target coordinate. Binding is idempotent:
// the last write wins and rebinding the same coordinate is a no-op.
func (m *Mission) SetTarget(c coords.Overmap) {
	m.target = c
	m.hasTarget = true
}

// Target returns the bound target coordinate, if any.
func (m *Mission) Target() (coords.Overmap, bool) {
	return m.target, m.hasTarget
}
