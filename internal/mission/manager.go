package mission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-rogue/internal/coords"
	"github.com/pixil98/go-rogue/internal/storage"
)

// Event subjects published by the manager.
const (
	SubjectAccepted = "mission.accepted"
	SubjectStarted  = "mission.started"
	SubjectFailed   = "mission.failed"
)

// Event is the wire form of a mission lifecycle notification.
type Event struct {
	Mission string          `json:"mission"`
	Type    string          `json:"type"`
	NPC     string          `json:"npc,omitempty"`
	Target  *coords.Overmap `json:"target,omitempty"`
	Reason  string          `json:"reason,omitempty"`
}

// Publisher delivers mission events to whoever is listening.
type Publisher interface {
	PublishEvent(subject string, event any) error
}

// Manager owns the accepted-mission queue. Acceptance only enqueues; the
// start procedure runs on the next tick, on the single goroutine that owns
// the world. Start failures are terminal for that mission but never for the
// tick.
type Manager struct {
	ctx    *Context
	starts map[storage.Identifier]StartFunc
	types  storage.Storer[*TypeSpec]
	pub    Publisher

	queue []*Mission
}

// NewManager compiles every mission type's start definition up front so bad
// assets fail the boot, not a tick. Scripts whose map updates are still
// missing after all types load are reported, not retried forever.
func NewManager(ctx *Context, types storage.Storer[*TypeSpec], builtins Registry, updates UpdateRegistry, pub Publisher) (*Manager, error) {
	starts := make(map[storage.Identifier]StartFunc)
	deferred := make(map[storage.Identifier]*TypeSpec)
	for id, t := range types.GetAll() {
		fn, err := t.Resolve(builtins, updates)
		if err != nil {
			if errors.Is(err, ErrDeferred) {
				deferred[id] = t
				continue
			}
			return nil, fmt.Errorf("resolving mission type %q: %w", id, err)
		}
		starts[id] = fn
	}

	// A deferred type may have been waiting on an update registered while the
	// rest of the catalog loaded. One more pass settles it either way.
	for id, t := range deferred {
		fn, err := t.Resolve(builtins, updates)
		if err != nil {
			return nil, fmt.Errorf("resolving mission type %q: %w", id, err)
		}
		starts[id] = fn
	}

	return &Manager{
		ctx:    ctx,
		starts: starts,
		types:  types,
		pub:    pub,
	}, nil
}

// Accept creates a mission of the given type offered by the given NPC and
// queues it for its start procedure.
func (mg *Manager) Accept(missionType storage.Identifier, npcID string) (*Mission, error) {
	if mg.types.Get(missionType) == nil {
		return nil, fmt.Errorf("unknown mission type %q", missionType)
	}

	m := New(missionType.String(), npcID)
	mg.queue = append(mg.queue, m)

	mg.publish(SubjectAccepted, m, "")
	return m, nil
}

// Tick drains the queue, running each pending mission's start procedure.
// Not every mission binds a target; the started event carries one only when
// the procedure resolved one. The tick itself always succeeds.
func (mg *Manager) Tick(ctx context.Context) error {
	pending := mg.queue
	mg.queue = nil

	for _, m := range pending {
		fn, ok := mg.starts[storage.Identifier(m.Type)]
		if !ok {
			slog.Warn("mission type has no start procedure", "type", m.Type)
			mg.publish(SubjectFailed, m, "no start procedure")
			continue
		}

		fn(mg.ctx, m)
		mg.publish(SubjectStarted, m, "")
	}

	return nil
}

// Pending reports how many accepted missions have not started yet.
func (mg *Manager) Pending() int {
	return len(mg.queue)
}

func (mg *Manager) publish(subject string, m *Mission, reason string) {
	if mg.pub == nil {
		return
	}

	ev := Event{
		Mission: m.UID,
		Type:    m.Type,
		NPC:     m.NPCID,
		Reason:  reason,
	}
	if target, ok := m.Target(); ok {
		ev.Target = &target
	}

	if err := mg.pub.PublishEvent(subject, ev); err != nil {
		slog.Warn("publishing mission event", "subject", subject, "error", err)
	}
}
