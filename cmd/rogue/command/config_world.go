package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

type WorldConfig struct {
	// Seed drives all terrain generation. The same seed always produces the
	// same world.
	Seed int64 `json:"seed"`

	// SavePath is the world snapshot database. Empty disables persistence.
	SavePath string `json:"save_path"`

	// AutosaveTicks is how many game ticks pass between snapshots.
	AutosaveTicks int `json:"autosave_ticks"`
}

func (c *WorldConfig) Validate() error {
	el := errors.NewErrorList()

	if c.AutosaveTicks < 0 {
		el.Add(fmt.Errorf("autosave_ticks must not be negative"))
	}
	if c.AutosaveTicks > 0 && c.SavePath == "" {
		el.Add(fmt.Errorf("autosave_ticks requires save_path"))
	}

	return el.Err()
}
