package driver

import (
	"context"
	"time"
)

const (
	DefaultTickLength = time.Second
)

// Manager is a subsystem advanced once per game turn.
type Manager interface {
	Tick(context.Context) error
}

// TurnDriver advances its managers on a fixed cadence until the context is
// canceled.
type TurnDriver struct {
	tickLength time.Duration
	managers   []Manager
}

func NewTurnDriver(managers []Manager, opts ...TurnDriverOpt) *TurnDriver {
	d := &TurnDriver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *TurnDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
		}
	}
}

// Tick advances every manager once, in registration order.
func (d *TurnDriver) Tick(ctx context.Context) error {
	for _, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}
