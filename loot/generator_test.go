package loot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumbridge-realm/server/rng"
)

// seqSource replays a fixed sequence of rolls, wrapping when exhausted.
type seqSource struct {
	vals []float64
	i    int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func items(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Item
	}
	return out
}

func TestGenerate_AlwaysDropsLand(t *testing.T) {
	// 0.99 fails every trial except chance-1.0 entries.
	g := NewGenerator(&seqSource{vals: []float64{0.99}}, nil)

	records := g.Generate("chicken")
	assert.Equal(t, []string{"bones", "raw_chicken"}, items(records))
	for _, r := range records {
		assert.Equal(t, 1, r.Quantity)
		assert.Equal(t, RarityAlways, r.Rarity)
		assert.False(t, r.Rare)
	}
}

func TestGenerate_QuantityRange(t *testing.T) {
	// Rolls: bones, raw_chicken, feather trial, feather quantity, rare gate.
	g := NewGenerator(&seqSource{vals: []float64{0.5, 0.5, 0.5, 0.0, 0.99}}, nil)
	records := g.Generate("chicken")
	require.Equal(t, []string{"bones", "raw_chicken", "feather"}, items(records))
	assert.Equal(t, 5, records[2].Quantity, "minimum of the 5-15 range")

	g = NewGenerator(&seqSource{vals: []float64{0.5, 0.5, 0.5, 0.9999, 0.99}}, nil)
	records = g.Generate("chicken")
	require.Len(t, records, 3)
	assert.Equal(t, 15, records[2].Quantity, "maximum of the 5-15 range")
}

func TestGenerate_UnknownEnemy(t *testing.T) {
	g := NewGenerator(&seqSource{vals: []float64{0.5}}, nil)
	assert.Nil(t, g.Generate("dragon"))
	assert.Empty(t, g.History(), "an unknown key leaves no trace")
}

func TestGenerate_RareGate(t *testing.T) {
	// The fourth roll opens the 0.002 gate, the wrapped fifth roll picks
	// the heaviest rare entry.
	g := NewGenerator(&seqSource{vals: []float64{0.0, 0.99, 0.99, 0.0}}, nil)

	records := g.Generate("chicken")
	require.Equal(t, []string{"bones", "raw_chicken", "uncut_sapphire"}, items(records))
	rare := records[2]
	assert.True(t, rare.Rare)
	assert.Equal(t, RarityRare, rare.Rarity)
	assert.Equal(t, 1, rare.Quantity)
}

func TestGenerate_AtMostOneRarePerKill(t *testing.T) {
	// Every trial succeeds; the rare table must still yield a single pick.
	g := NewGenerator(&seqSource{vals: []float64{0.0}}, nil)
	records := g.Generate("goblin")

	rares := 0
	for _, r := range records {
		if r.Rare {
			rares++
		}
	}
	assert.Equal(t, 1, rares)
}

func TestRollRareTable_WeightedPick(t *testing.T) {
	// Total weight is 103. A roll just under the top lands past every
	// subtraction except the final entry.
	g := NewGenerator(&seqSource{vals: []float64{0.9999}}, nil)
	rec := g.RollRareTable()
	require.NotNil(t, rec)
	assert.Equal(t, "rune_javelin", rec.Item)
	assert.Equal(t, 5, rec.Quantity, "fixed 5x stack")

	g = NewGenerator(&seqSource{vals: []float64{0.0}}, nil)
	rec = g.RollRareTable()
	require.NotNil(t, rec)
	assert.Equal(t, "uncut_sapphire", rec.Item)
}

func TestRollRareTable_EmptyTable(t *testing.T) {
	g := NewGenerator(&seqSource{vals: []float64{0.5}}, &Tables{})
	assert.Nil(t, g.RollRareTable())
}

func TestRollRareTable_Distribution(t *testing.T) {
	g := NewGenerator(rng.New(11), nil)

	counts := map[string]int{}
	for i := 0; i < 10000; i++ {
		rec := g.RollRareTable()
		require.NotNil(t, rec)
		counts[rec.Item]++
	}

	// uncut_sapphire carries 32/103 of the weight, uncut_diamond 2/103.
	assert.InDelta(t, 32.0/103, float64(counts["uncut_sapphire"])/10000, 0.03)
	assert.InDelta(t, 2.0/103, float64(counts["uncut_diamond"])/10000, 0.01)
	assert.Greater(t, counts["uncut_sapphire"], counts["uncut_diamond"])
}

func TestGenerate_BernoulliFrequency(t *testing.T) {
	g := NewGenerator(rng.New(3), nil)

	kills := 500
	for i := 0; i < kills; i++ {
		g.Generate("goblin")
	}

	stats := g.Statistics("goblin")
	assert.Equal(t, kills, stats.Kills)
	assert.Equal(t, kills, stats.Items["bones"], "chance 1.0 drops every kill")

	// Coins drop half the time; allow generous slack.
	coins := 0
	for _, kill := range g.History() {
		for _, r := range kill.Loot {
			if r.Item == "coins" {
				coins++
			}
		}
	}
	assert.InDelta(t, 0.5, float64(coins)/float64(kills), 0.08)
}

func TestValue(t *testing.T) {
	g := NewGenerator(&seqSource{vals: []float64{0.99}}, nil)
	records := g.Generate("cow")
	// bones 30 + cowhide 100 + raw_beef 20.
	assert.Equal(t, 150, g.Value(records))
	assert.Equal(t, 0, g.Value(nil))
	assert.Equal(t, 0, g.Value([]Record{{Item: "unpriced_thing", Quantity: 3}}))
}

func TestStatistics(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(&seqSource{vals: []float64{0.99}}, nil)
	g.SetClock(func() time.Time { return fixed })

	g.Generate("cow")
	g.Generate("cow")
	g.Generate("chicken")

	all := g.Statistics("")
	assert.Equal(t, 3, all.Kills)
	assert.Equal(t, 3, all.Items["bones"])
	assert.Equal(t, 2, all.Items["cowhide"])
	assert.Equal(t, 150*2+38, all.TotalValue)
	assert.InDelta(t, float64(all.TotalValue)/3, all.AverageValue, 1e-9)

	cows := g.Statistics("cow")
	assert.Equal(t, 2, cows.Kills)
	assert.Equal(t, 2, cows.Items["cowhide"])
	assert.Zero(t, cows.Items["raw_chicken"])

	none := g.Statistics("dragon")
	assert.Zero(t, none.Kills)
	assert.Zero(t, none.AverageValue)
}

func TestStatistics_RecordsRareDrops(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(&seqSource{vals: []float64{0.0, 0.99, 0.99, 0.0}}, nil)
	g.SetClock(func() time.Time { return fixed })

	g.Generate("chicken")

	stats := g.Statistics("")
	require.Len(t, stats.RareDrops, 1)
	assert.Equal(t, "chicken", stats.RareDrops[0].Enemy)
	assert.Equal(t, "uncut_sapphire", stats.RareDrops[0].Item)
	assert.Equal(t, fixed, stats.RareDrops[0].Timestamp)
}

func TestHistory_ReturnsCopy(t *testing.T) {
	g := NewGenerator(&seqSource{vals: []float64{0.99}}, nil)
	g.Generate("cow")

	h := g.History()
	require.Len(t, h, 1)
	h[0].Enemy = "tampered"
	assert.Equal(t, "cow", g.History()[0].Enemy)
}
