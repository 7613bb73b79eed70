package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-rogue/internal/game"
	"github.com/pixil98/go-rogue/internal/mission"
	"github.com/pixil98/go-rogue/internal/overmap"
	"github.com/pixil98/go-rogue/internal/storage"
)

type StorageConfig struct {
	Missions     AssetConfig[*mission.TypeSpec] `json:"missions"`
	Specials     AssetConfig[*overmap.Special]  `json:"specials"`
	NPCTemplates AssetConfig[*game.NPCTemplate] `json:"npc_templates"`
	ItemGroups   AssetConfig[*game.ItemGroup]   `json:"item_groups"`
}

// Catalog is the full set of loaded asset stores.
type Catalog struct {
	Missions     storage.Storer[*mission.TypeSpec]
	Specials     storage.Storer[*overmap.Special]
	NPCTemplates storage.Storer[*game.NPCTemplate]
	ItemGroups   storage.Storer[*game.ItemGroup]
}

func (c *StorageConfig) BuildCatalog() (*Catalog, error) {
	missions, err := c.Missions.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating mission store: %w", err)
	}
	specials, err := c.Specials.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating special store: %w", err)
	}
	templates, err := c.NPCTemplates.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating npc template store: %w", err)
	}
	groups, err := c.ItemGroups.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating item group store: %w", err)
	}

	// Item group references on templates resolve once all catalogs exist.
	for id, t := range templates.GetAll() {
		if err := t.Resolve(groups); err != nil {
			return nil, fmt.Errorf("resolving npc template %q: %w", id, err)
		}
	}

	return &Catalog{
		Missions:     missions,
		Specials:     specials,
		NPCTemplates: templates,
		ItemGroups:   groups,
	}, nil
}

func (c *StorageConfig) Validate() error {
	el := errors.NewErrorList()
	el.Add(c.Missions.Validate("missions"))
	el.Add(c.Specials.Validate("specials"))
	el.Add(c.NPCTemplates.Validate("npc_templates"))
	el.Add(c.ItemGroups.Validate("item_groups"))
	return el.Err()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
