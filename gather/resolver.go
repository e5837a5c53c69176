// Package gather resolves level-gated resource extraction: trees, rocks
// and fishing spots that deplete and respawn on a delta-driven countdown.
package gather

import (
	"fmt"

	"github.com/rs/zerolog"

	"lumbridge-realm/server/models"
	"lumbridge-realm/server/progression"
	"lumbridge-realm/server/rng"
)

const (
	baseChance     = 0.1
	chancePerLevel = 0.05
	maxChance      = 0.9
)

// Messenger is the UI sink for gathering feedback.
type Messenger interface {
	AddMessage(p *models.Player, text, channel string)
	UpdateStats(p *models.Player)
	UpdateInventory(p *models.Player)
}

// action describes how one resource type is gathered. Node types map to
// skills and items through this fixed table, so an unknown type is a
// programming error rather than a silent miss.
type action struct {
	Skill   progression.SkillName
	Item    string
	Attempt string
	Success string
}

var actions = map[models.ResourceType]action{
	models.ResourceTree: {
		Skill:   progression.SkillWoodcutting,
		Item:    "logs",
		Attempt: "You swing your axe at the tree.",
		Success: "You get some logs.",
	},
	models.ResourceOakTree: {
		Skill:   progression.SkillWoodcutting,
		Item:    "oak_logs",
		Attempt: "You swing your axe at the oak.",
		Success: "You get some oak logs.",
	},
	models.ResourceCopperRock: {
		Skill:   progression.SkillMining,
		Item:    "copper_ore",
		Attempt: "You swing your pickaxe at the rock.",
		Success: "You manage to mine some copper.",
	},
	models.ResourceTinRock: {
		Skill:   progression.SkillMining,
		Item:    "tin_ore",
		Attempt: "You swing your pickaxe at the rock.",
		Success: "You manage to mine some tin.",
	},
	models.ResourceFishingSpot: {
		Skill:   progression.SkillFishing,
		Item:    "raw_shrimps",
		Attempt: "You attempt to catch some shrimp.",
		Success: "You catch some shrimp.",
	},
}

// Resolver drives gathering attempts and node respawns.
type Resolver struct {
	src rng.Source
	msg Messenger
	log zerolog.Logger

	nodes []*models.ResourceNode
}

// NewResolver creates a gathering resolver. The messenger may be nil.
func NewResolver(src rng.Source, msg Messenger, log zerolog.Logger) *Resolver {
	return &Resolver{src: src, msg: msg, log: log}
}

// Track registers nodes for respawn handling in Update.
func (r *Resolver) Track(nodes ...*models.ResourceNode) {
	r.nodes = append(r.nodes, nodes...)
}

// Gather attempts one extraction from a node. Nil and depleted nodes are
// guarded no-ops; an insufficient level is a soft failure reported through
// the messenger. On success the node loses one HP, the item is deposited
// (a full inventory still awards the xp) and the node depletes at zero HP.
func (r *Resolver) Gather(p *models.Player, node *models.ResourceNode) {
	if p == nil || node == nil || node.Depleted {
		return
	}
	act, ok := actions[node.Type]
	if !ok {
		r.log.Error().Str("type", string(node.Type)).Msg("resource type has no gather action")
		return
	}

	level := p.Skills.Level(act.Skill)
	if level < node.LevelRequired {
		r.send(p, fmt.Sprintf("You need a %s level of %d to do that.", act.Skill, node.LevelRequired))
		return
	}

	chance := baseChance + chancePerLevel*float64(level-node.LevelRequired)
	if chance > maxChance {
		chance = maxChance
	}
	if chance < baseChance {
		chance = baseChance
	}

	if !rng.Chance(r.src, chance) {
		r.send(p, act.Attempt)
		return
	}

	node.HP--
	if p.Inventory.AddItem(act.Item, 1) {
		r.send(p, act.Success)
		if r.msg != nil {
			r.msg.UpdateInventory(p)
		}
	} else {
		r.send(p, "Your inventory is too full to hold any more items.")
	}

	leveled, err := p.Skills.AddXP(act.Skill, node.XPReward)
	if err != nil {
		r.log.Error().Err(err).Str("player", p.Username).Msg("xp award rejected")
	} else {
		if leveled && r.msg != nil {
			r.msg.AddMessage(p,
				fmt.Sprintf("Congratulations, you just advanced a %s level! You are now level %d.",
					act.Skill, p.Skills.Level(act.Skill)),
				models.ChannelSkill)
		}
		if r.msg != nil {
			r.msg.UpdateStats(p)
		}
	}

	if node.HP <= 0 {
		node.Deplete()
	}
}

// Update counts down respawn timers on depleted tracked nodes and respawns
// those that reach zero.
func (r *Resolver) Update(delta float64) {
	for _, node := range r.nodes {
		if !node.Depleted {
			continue
		}
		node.RespawnTimer -= delta
		if node.RespawnTimer <= 0 {
			node.Respawn()
		}
	}
}

func (r *Resolver) send(p *models.Player, text string) {
	if r.msg != nil {
		r.msg.AddMessage(p, text, models.ChannelSkill)
	}
}
