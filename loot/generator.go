// Package loot resolves named drop tables into awarded items. Regular
// entries are independent Bernoulli trials so a single kill can stack
// several drops; the shared rare drop table is a mutually-exclusive
// weighted pick gated behind its own trial.
package loot

import (
	"time"

	"lumbridge-realm/server/rng"
)

// Record is a finalized loot award, immutable once produced.
type Record struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
	Rarity   Rarity `json:"rarity"`
	Rare     bool   `json:"rare,omitempty"`
}

// Kill is one entry in the append-only loot history.
type Kill struct {
	Enemy     string    `json:"enemy"`
	Loot      []Record  `json:"loot"`
	Timestamp time.Time `json:"timestamp"`
}

// RareEvent records a rare-table hit for statistics.
type RareEvent struct {
	Enemy     string    `json:"enemy"`
	Item      string    `json:"item"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats aggregates the loot history, optionally filtered to one enemy key.
type Stats struct {
	Kills        int            `json:"kills"`
	TotalValue   int            `json:"total_value"`
	AverageValue float64        `json:"average_value"`
	Items        map[string]int `json:"items"`
	RareDrops    []RareEvent    `json:"rare_drops"`
}

// Generator rolls drop tables against an injected randomness source.
type Generator struct {
	src    rng.Source
	tables *Tables
	now    func() time.Time

	history []Kill
}

// NewGenerator returns a generator over the given tables. A nil tables
// argument falls back to the built-in defaults.
func NewGenerator(src rng.Source, tables *Tables) *Generator {
	if tables == nil {
		tables = DefaultTables()
	}
	return &Generator{
		src:    src,
		tables: tables,
		now:    time.Now,
	}
}

// SetClock overrides the timestamp source, for tests.
func (g *Generator) SetClock(now func() time.Time) {
	g.now = now
}

// Generate resolves the drop table for an enemy key into awarded loot and
// appends the kill to the history. An unknown key yields no loot and no
// history entry.
func (g *Generator) Generate(enemyKey string) []Record {
	entries, ok := g.tables.Drops[enemyKey]
	if !ok {
		return nil
	}

	var loot []Record
	for _, e := range entries {
		if e.Item == RareTableKey {
			// The gate is its own trial; the pick inside is weighted,
			// so at most one rare item drops per kill.
			if rng.Chance(g.src, e.Chance) {
				if rec := g.RollRareTable(); rec != nil {
					loot = append(loot, *rec)
				}
			}
			continue
		}
		if !rng.Chance(g.src, e.Chance) {
			continue
		}
		loot = append(loot, Record{
			Item:     e.Item,
			Quantity: g.quantity(e),
			Rarity:   e.Rarity,
		})
	}

	g.history = append(g.history, Kill{Enemy: enemyKey, Loot: loot, Timestamp: g.now()})
	return loot
}

// RollRareTable performs one weighted pick over the rare drop table. It is
// exported standalone so other drop sources can route into the same table.
// Returns nil when the table is empty or weightless.
func (g *Generator) RollRareTable() *Record {
	total := 0.0
	for _, e := range g.tables.Rare {
		total += e.Chance
	}
	if total <= 0 {
		return nil
	}

	roll := g.src.Float64() * total
	pick := g.tables.Rare[len(g.tables.Rare)-1]
	for _, e := range g.tables.Rare {
		roll -= e.Chance
		if roll <= 0 {
			pick = e
			break
		}
	}

	return &Record{
		Item:     pick.Item,
		Quantity: g.quantity(pick),
		Rarity:   pick.Rarity,
		Rare:     true,
	}
}

func (g *Generator) quantity(e DropEntry) int {
	if e.MaxQty > e.MinQty {
		return rng.IntBetween(g.src, e.MinQty, e.MaxQty)
	}
	return e.MinQty
}

// Value sums quantity times static item price over a loot list. Items
// without a listed price contribute nothing.
func (g *Generator) Value(records []Record) int {
	total := 0
	for _, r := range records {
		total += r.Quantity * g.tables.Prices[r.Item]
	}
	return total
}

// History returns a copy of the kill history.
func (g *Generator) History() []Kill {
	out := make([]Kill, len(g.history))
	copy(out, g.history)
	return out
}

// Statistics aggregates the history. An empty enemy key aggregates every
// kill; otherwise only kills of that enemy count.
func (g *Generator) Statistics(enemyKey string) Stats {
	stats := Stats{Items: map[string]int{}}
	for _, kill := range g.history {
		if enemyKey != "" && kill.Enemy != enemyKey {
			continue
		}
		stats.Kills++
		stats.TotalValue += g.Value(kill.Loot)
		for _, r := range kill.Loot {
			stats.Items[r.Item] += r.Quantity
			if r.Rare {
				stats.RareDrops = append(stats.RareDrops, RareEvent{
					Enemy:     kill.Enemy,
					Item:      r.Item,
					Quantity:  r.Quantity,
					Timestamp: kill.Timestamp,
				})
			}
		}
	}
	if stats.Kills > 0 {
		stats.AverageValue = float64(stats.TotalValue) / float64(stats.Kills)
	}
	return stats
}
