package driver

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

type countingManager struct {
	ticks int
	err   error
}

func (m *countingManager) Tick(ctx context.Context) error {
	m.ticks++
	return m.err
}

func TestTickAdvancesAllManagers(t *testing.T) {
	a := &countingManager{}
	b := &countingManager{}
	d := NewTurnDriver([]Manager{a, b})

	if err := d.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "first", a.ticks, 1)
	testutil.AssertEqual(t, "second", b.ticks, 1)
}

func TestTickStopsOnError(t *testing.T) {
	a := &countingManager{err: fmt.Errorf("boom")}
	b := &countingManager{}
	d := NewTurnDriver([]Manager{a, b})

	if err := d.Tick(context.Background()); err == nil {
		t.Error("expected error")
	}
	testutil.AssertEqual(t, "skipped", b.ticks, 0)
}

func TestStartStopsOnCancel(t *testing.T) {
	m := &countingManager{}
	d := NewTurnDriver([]Manager{m}, WithTickLength(time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "ticked", m.ticks > 0, true)
}
