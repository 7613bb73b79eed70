package command

import (
	"fmt"
	"os"
	"time"

	"github.com/pixil98/go-rogue/internal/driver"
	"github.com/pixil98/go-rogue/internal/game"
	"github.com/pixil98/go-rogue/internal/messaging"
	"github.com/pixil98/go-rogue/internal/mission"
	"github.com/pixil98/go-rogue/internal/overmap"
	service "github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	catalog, err := cfg.Storage.BuildCatalog()
	if err != nil {
		return nil, fmt.Errorf("loading assets: %w", err)
	}

	natsServer, err := cfg.Nats.BuildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	// Assemble the world and the mission context around it.
	world := overmap.New(cfg.World.Seed, catalog.Specials)
	if cfg.World.SavePath != "" {
		if _, err := os.Stat(cfg.World.SavePath); err == nil {
			if err := world.LoadFrom(cfg.World.SavePath); err != nil {
				return nil, fmt.Errorf("loading world snapshot: %w", err)
			}
		}
	}

	player := &game.Player{Name: "player"}
	ctx := mission.NewContext(world, player, cfg.World.Seed)
	ctx.NPCTemplates = catalog.NPCTemplates
	ctx.ItemGroups = catalog.ItemGroups

	manager, err := mission.NewManager(ctx, catalog.Missions, mission.Builtins(),
		mission.BuiltinUpdates(), messaging.NewEventPublisher(natsServer))
	if err != nil {
		return nil, fmt.Errorf("creating mission manager: %w", err)
	}

	managers := []driver.Manager{manager}
	if cfg.World.SavePath != "" && cfg.World.AutosaveTicks > 0 {
		managers = append(managers, overmap.NewSaver(world, cfg.World.SavePath, cfg.World.AutosaveTicks))
	}

	var opts []driver.TurnDriverOpt
	if cfg.TickInterval != "" {
		d, err := time.ParseDuration(cfg.TickInterval)
		if err != nil {
			return nil, fmt.Errorf("parsing tick_interval: %w", err)
		}
		opts = append(opts, driver.WithTickLength(d))
	}

	return service.WorkerList{
		"nats":   natsServer,
		"driver": driver.NewTurnDriver(managers, opts...),
	}, nil
}
