package creature

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/carrion/internal/game/dice"
)

// ItemDrop defines a single item entry in a loot table with a drop chance.
type ItemDrop struct {
	ItemID string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
	MinQty int     `yaml:"min_qty"`
	MaxQty int     `yaml:"max_qty"`
}

// LootTable defines what a species may leave besides its corpse.
type LootTable struct {
	Items []ItemDrop `yaml:"items"`
}

// Validate checks that the loot table satisfies its invariants.
//
// Precondition: lt must not be nil.
// Postcondition: Returns nil iff all item constraints hold; an empty table is valid.
func (lt *LootTable) Validate() error {
	for i, item := range lt.Items {
		if item.ItemID == "" {
			return fmt.Errorf("loot table: item[%d] must have a non-empty item id", i)
		}
		if item.Chance <= 0 || item.Chance > 1.0 {
			return fmt.Errorf("loot table: item[%d] chance must be in (0, 1.0], got %f", i, item.Chance)
		}
		if item.MinQty < 1 {
			return fmt.Errorf("loot table: item[%d] min_qty must be >= 1, got %d", i, item.MinQty)
		}
		if item.MinQty > item.MaxQty {
			return fmt.Errorf("loot table: item[%d] min_qty (%d) must be <= max_qty (%d)", i, item.MinQty, item.MaxQty)
		}
	}
	return nil
}

// LootItem is one generated item instance.
type LootItem struct {
	ItemDefID  string
	InstanceID string
	Quantity   int
}

// GenerateLoot rolls every entry of lt against src.
//
// Precondition: lt must have passed Validate(); src must be non-nil.
// Postcondition: each returned item's Quantity is in [MinQty, MaxQty] and its
// InstanceID is unique.
func GenerateLoot(lt LootTable, src dice.Source) []LootItem {
	var out []LootItem
	for _, item := range lt.Items {
		if dice.Unit(src) >= item.Chance {
			continue
		}
		out = append(out, LootItem{
			ItemDefID:  item.ItemID,
			InstanceID: uuid.New().String(),
			Quantity:   dice.Rng(src, item.MinQty, item.MaxQty),
		})
	}
	return out
}
