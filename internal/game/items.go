package game

import (
	"fmt"
	"math/rand"

	"github.com/pixil98/go-errors"
)

// GroupItem is one weighted entry of an item group.
type GroupItem struct {
	ID     string `json:"id"`
	Weight int    `json:"weight"`
}

// ItemGroup is an asset spec naming a weighted pool of item types, used by
// loot placement.
type ItemGroup struct {
	Items []GroupItem `json:"items"`
}

// Validate satisfies storage.ValidatingSpec.
func (g *ItemGroup) Validate() error {
	el := errors.NewErrorList()

	if len(g.Items) == 0 {
		el.Add(fmt.Errorf("item group must have at least one item"))
	}
	for i, it := range g.Items {
		if it.ID == "" {
			el.Add(fmt.Errorf("item %d: id is required", i))
		}
		if it.Weight < 1 {
			el.Add(fmt.Errorf("item %d: weight must be positive", i))
		}
	}

	return el.Err()
}

// Pick draws one item id from the group, weighted.
func (g *ItemGroup) Pick(rng *rand.Rand) string {
	total := 0
	for _, it := range g.Items {
		total += it.Weight
	}
	roll := rng.Intn(total)
	for _, it := range g.Items {
		roll -= it.Weight
		if roll < 0 {
			return it.ID
		}
	}
	return g.Items[len(g.Items)-1].ID
}
