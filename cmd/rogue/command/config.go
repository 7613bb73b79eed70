package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

type Config struct {
	TickInterval string        `json:"tick_interval"`
	World        WorldConfig   `json:"world"`
	Storage      StorageConfig `json:"storage"`
	Nats         NatsConfig    `json:"nats"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.TickInterval != "" {
		_, err := time.ParseDuration(c.TickInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing tick_interval: %w", err))
		}
	}

	el.Add(c.World.Validate())
	el.Add(c.Storage.Validate())
	el.Add(c.Nats.Validate())

	return el.Err()
}
