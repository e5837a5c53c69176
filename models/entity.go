package models

import (
	"time"

	"lumbridge-realm/server/progression"
)

// Message channels used by the UI sink.
const (
	ChannelGame   = "game"
	ChannelCombat = "combat"
	ChannelSkill  = "skill"
	ChannelLoot   = "loot"
)

// Position is a tile coordinate in the world.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Distance returns the chebyshev distance between two tiles, the metric
// used for melee range and interaction checks.
func Distance(a, b Position) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// EquipmentBonuses are the aggregate attack/strength/defence bonuses from
// worn equipment. Combat reads them but never mutates them.
type EquipmentBonuses struct {
	Attack   int `json:"attack"`
	Strength int `json:"strength"`
	Defence  int `json:"defence"`
}

// Player is a connected adventurer.
type Player struct {
	ID        string           `json:"id"`
	Username  string           `json:"username"`
	Pos       Position         `json:"position"`
	Skills    SkillSet         `json:"skills"`
	Equipment EquipmentBonuses `json:"equipment"`
	CurrentHP int              `json:"current_hp"`
	MaxHP     int              `json:"max_hp"`
	Gold      int              `json:"gold"`
	Inventory *Inventory       `json:"inventory"`
	InCombat  bool             `json:"-"`
	Dead      bool             `json:"-"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// SyncHitpoints raises MaxHP to match the hitpoints level, healing the
// difference so a level-up never leaves the player proportionally hurt.
func (p *Player) SyncHitpoints() {
	lvl := p.Skills.Level(progression.SkillHitpoints)
	if lvl > p.MaxHP {
		p.CurrentHP += lvl - p.MaxHP
		p.MaxHP = lvl
	}
}

// MonsterKind identifies a spawnable monster template.
type MonsterKind string

const (
	KindChicken  MonsterKind = "chicken"
	KindGoblin   MonsterKind = "goblin"
	KindCow      MonsterKind = "cow"
	KindGiantRat MonsterKind = "giant_rat"
)

// Monster is an attackable NPC. Spawn coordinates anchor wandering and
// respawning; combat mutates only HP and the derived flags.
type Monster struct {
	ID            string      `json:"id"`
	Kind          MonsterKind `json:"kind"`
	Name          string      `json:"name"`
	Pos           Position    `json:"position"`
	Spawn         Position    `json:"-"`
	AttackLevel   int         `json:"-"`
	StrengthLevel int         `json:"-"`
	DefenceLevel  int         `json:"-"`
	DefenceBonus  int         `json:"-"`
	CurrentHP     int         `json:"current_hp"`
	MaxHP         int         `json:"max_hp"`
	XPReward      int         `json:"-"`
	DropTable     string      `json:"-"`
	InCombat      bool        `json:"-"`
	Dead          bool        `json:"dead"`
	RespawnTimer  float64     `json:"-"`
	RespawnDelay  float64     `json:"-"`
	WanderTimer   float64     `json:"-"`
}

// ApplyDamage reduces the monster's HP, flooring at zero and marking it
// dead when it runs out.
func (m *Monster) ApplyDamage(amount int) {
	if amount <= 0 {
		return
	}
	m.CurrentHP -= amount
	if m.CurrentHP <= 0 {
		m.CurrentHP = 0
		m.Dead = true
	}
}

// Respawn restores a dead monster at its spawn point.
func (m *Monster) Respawn() {
	m.CurrentHP = m.MaxHP
	m.Dead = false
	m.InCombat = false
	m.RespawnTimer = 0
	m.Pos = m.Spawn
}
