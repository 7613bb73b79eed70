package mission

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pixil98/go-rogue/internal/coords"
	"github.com/pixil98/go-rogue/internal/storage"
	"github.com/pixil98/go-testutil"
)

type capturedEvent struct {
	subject string
	event   Event
}

// capturePublisher records published events for assertions.
type capturePublisher struct {
	events []capturedEvent
}

func (p *capturePublisher) PublishEvent(subject string, event any) error {
	p.events = append(p.events, capturedEvent{subject: subject, event: event.(Event)})
	return nil
}

func mustTypeSpec(t *testing.T, raw string) *TypeSpec {
	t.Helper()
	spec := &TypeSpec{}
	if err := json.Unmarshal([]byte(raw), spec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := spec.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return spec
}

func TestManagerLifecycle(t *testing.T) {
	ctx := newTestContext(nil)
	site := coords.Overmap{X: 3, Y: 0, Z: 0}
	ctx.World.SetTer(site, "evac_center_18")

	types := storage.MapStore[*TypeSpec]{
		"find_center": mustTypeSpec(t, `{
			"name": "Find the center",
			"start": {"assign_mission_target": {"om_terrain": "evac_center_18"}}
		}`),
		"talk": mustTypeSpec(t, `{"name": "Just talk", "start": "standard"}`),
	}

	pub := &capturePublisher{}
	mgr, err := NewManager(ctx, types, Builtins(), UpdateRegistry{}, pub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = mgr.Accept("no_such_type", "npc-1")
	if err == nil {
		t.Error("expected error for unknown mission type")
	}

	m, err := mgr.Accept("find_center", "npc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "pending", mgr.Pending(), 1)
	testutil.AssertEqual(t, "accepted subject", pub.events[0].subject, SubjectAccepted)
	testutil.AssertEqual(t, "accepted mission", pub.events[0].event.Mission, m.UID)

	if err := mgr.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "drained", mgr.Pending(), 0)

	last := pub.events[len(pub.events)-1]
	testutil.AssertEqual(t, "started subject", last.subject, SubjectStarted)
	if last.event.Target == nil {
		t.Fatal("expected a target on the started event")
	}
	testutil.AssertEqual(t, "event target", *last.event.Target, site)

	bound, ok := m.Target()
	testutil.AssertEqual(t, "bound", ok, true)
	testutil.AssertEqual(t, "target", bound, site)
}

func TestManagerStartWithoutTarget(t *testing.T) {
	ctx := newTestContext(nil)
	types := storage.MapStore[*TypeSpec]{
		"talk": mustTypeSpec(t, `{"name": "Just talk", "start": "standard"}`),
	}

	pub := &capturePublisher{}
	mgr, err := NewManager(ctx, types, Builtins(), UpdateRegistry{}, pub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := mgr.Accept("talk", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mgr.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	last := pub.events[len(pub.events)-1]
	testutil.AssertEqual(t, "started subject", last.subject, SubjectStarted)
	testutil.AssertEqual(t, "no target", last.event.Target == nil, true)
}

func TestManagerRejectsBrokenTypes(t *testing.T) {
	ctx := newTestContext(nil)
	types := storage.MapStore[*TypeSpec]{
		"broken": {Name: "Broken", Start: &StartSpec{builtin: "no_such_start"}},
	}

	_, err := NewManager(ctx, types, Builtins(), UpdateRegistry{}, nil)
	if err == nil {
		t.Error("expected error for unresolvable start")
	}
}
