package loot

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RareTableKey is the reserved item key that routes a drop table into the
// shared rare drop table.
const RareTableKey = "rare_drop_table"

// Rarity tags a drop for display and statistics.
type Rarity string

const (
	RarityAlways   Rarity = "always"
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
)

// DropEntry is one possible award in a drop table. In regular tables
// Chance is an independent Bernoulli probability in (0, 1]; in the rare
// table it is a relative weight consumed by a single weighted pick.
// MinQty == MaxQty means a fixed quantity with no extra roll.
type DropEntry struct {
	Item   string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
	MinQty int     `yaml:"min_qty"`
	MaxQty int     `yaml:"max_qty"`
	Rarity Rarity  `yaml:"rarity"`
}

// Tables bundles everything loot generation needs: per-enemy drop tables,
// the shared rare drop table, and static item prices.
type Tables struct {
	Drops  map[string][]DropEntry `yaml:"tables"`
	Rare   []DropEntry            `yaml:"rare"`
	Prices map[string]int         `yaml:"prices"`
}

// Validate checks every table invariant: regular chances in (0, 1], rare
// weights positive, quantities at least 1 with min <= max. A violation
// means the data is corrupt, not a normal game condition.
func (t *Tables) Validate() error {
	for key, entries := range t.Drops {
		for i, e := range entries {
			if e.Item == "" {
				return fmt.Errorf("table %q entry %d: empty item", key, i)
			}
			if e.Chance <= 0 || e.Chance > 1 {
				return fmt.Errorf("table %q entry %q: chance must be in (0,1], got %v", key, e.Item, e.Chance)
			}
			if e.Item == RareTableKey {
				continue
			}
			if err := validQuantity(e); err != nil {
				return fmt.Errorf("table %q entry %q: %w", key, e.Item, err)
			}
		}
	}
	for i, e := range t.Rare {
		if e.Item == "" {
			return fmt.Errorf("rare table entry %d: empty item", i)
		}
		if e.Chance <= 0 {
			return fmt.Errorf("rare table entry %q: weight must be positive, got %v", e.Item, e.Chance)
		}
		if err := validQuantity(e); err != nil {
			return fmt.Errorf("rare table entry %q: %w", e.Item, err)
		}
	}
	return nil
}

func validQuantity(e DropEntry) error {
	if e.MinQty < 1 {
		return fmt.Errorf("min quantity must be >= 1, got %d", e.MinQty)
	}
	if e.MinQty > e.MaxQty {
		return fmt.Errorf("min quantity %d exceeds max %d", e.MinQty, e.MaxQty)
	}
	return nil
}

// LoadTables reads and validates a YAML table file.
func LoadTables(path string) (*Tables, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read drop tables: %w", err)
	}
	var t Tables
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parse drop tables: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// DefaultTables returns the built-in Lumbridge drop data, used when no
// YAML file is configured.
func DefaultTables() *Tables {
	return &Tables{
		Drops: map[string][]DropEntry{
			"chicken": {
				{Item: "bones", Chance: 1.0, MinQty: 1, MaxQty: 1, Rarity: RarityAlways},
				{Item: "raw_chicken", Chance: 1.0, MinQty: 1, MaxQty: 1, Rarity: RarityAlways},
				{Item: "feather", Chance: 0.75, MinQty: 5, MaxQty: 15, Rarity: RarityCommon},
				{Item: RareTableKey, Chance: 0.002},
			},
			"goblin": {
				{Item: "bones", Chance: 1.0, MinQty: 1, MaxQty: 1, Rarity: RarityAlways},
				{Item: "coins", Chance: 0.5, MinQty: 1, MaxQty: 24, Rarity: RarityCommon},
				{Item: "bronze_spear", Chance: 0.04, MinQty: 1, MaxQty: 1, Rarity: RarityUncommon},
				{Item: "goblin_mail", Chance: 0.03, MinQty: 1, MaxQty: 1, Rarity: RarityUncommon},
				{Item: RareTableKey, Chance: 0.005},
			},
			"cow": {
				{Item: "bones", Chance: 1.0, MinQty: 1, MaxQty: 1, Rarity: RarityAlways},
				{Item: "cowhide", Chance: 1.0, MinQty: 1, MaxQty: 1, Rarity: RarityAlways},
				{Item: "raw_beef", Chance: 1.0, MinQty: 1, MaxQty: 1, Rarity: RarityAlways},
				{Item: RareTableKey, Chance: 0.002},
			},
			"giant_rat": {
				{Item: "bones", Chance: 1.0, MinQty: 1, MaxQty: 1, Rarity: RarityAlways},
				{Item: "raw_rat_meat", Chance: 1.0, MinQty: 1, MaxQty: 1, Rarity: RarityAlways},
				{Item: RareTableKey, Chance: 0.002},
			},
		},
		Rare: []DropEntry{
			{Item: "uncut_sapphire", Chance: 32, MinQty: 1, MaxQty: 1, Rarity: RarityRare},
			{Item: "uncut_emerald", Chance: 16, MinQty: 1, MaxQty: 1, Rarity: RarityRare},
			{Item: "uncut_ruby", Chance: 8, MinQty: 1, MaxQty: 1, Rarity: RarityRare},
			{Item: "uncut_diamond", Chance: 2, MinQty: 1, MaxQty: 1, Rarity: RarityRare},
			{Item: "loop_half_of_key", Chance: 20, MinQty: 1, MaxQty: 1, Rarity: RarityRare},
			{Item: "tooth_half_of_key", Chance: 20, MinQty: 1, MaxQty: 1, Rarity: RarityRare},
			{Item: "rune_javelin", Chance: 5, MinQty: 5, MaxQty: 5, Rarity: RarityRare},
		},
		Prices: map[string]int{
			"coins":             1,
			"bones":             30,
			"feather":           2,
			"raw_chicken":       8,
			"raw_beef":          20,
			"raw_rat_meat":      5,
			"cowhide":           100,
			"bronze_spear":      28,
			"goblin_mail":       18,
			"uncut_sapphire":    250,
			"uncut_emerald":     500,
			"uncut_ruby":        1000,
			"uncut_diamond":     2000,
			"loop_half_of_key":  10000,
			"tooth_half_of_key": 10000,
			"rune_javelin":      180,
			"logs":              25,
			"oak_logs":          50,
			"copper_ore":        40,
			"tin_ore":           40,
			"raw_shrimps":       15,
		},
	}
}
