package driver

import "time"

type TurnDriverOpt func(*TurnDriver)

func WithTickLength(tickLength time.Duration) TurnDriverOpt {
	return func(d *TurnDriver) {
		d.tickLength = tickLength
	}
}
