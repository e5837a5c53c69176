// Package combat resolves turn-timed melee combat between players and
// monsters. The resolver owns one session per player, holding the
// target and a swing timer for each side; timers are plain countdowns
// advanced by the host tick's delta, so pausing the host pauses combat
// with no drift.
package combat

import (
	"fmt"

	"github.com/rs/zerolog"

	"lumbridge-realm/server/loot"
	"lumbridge-realm/server/models"
	"lumbridge-realm/server/progression"
	"lumbridge-realm/server/rng"
)

const (
	// AttackSpeed is the cooldown in seconds between attack attempts.
	AttackSpeed = 2.4
	// MeleeRange is the maximum chebyshev distance for a melee swing.
	MeleeRange = 1
)

// Messenger is the UI sink for combat feedback. Notifications are
// fire-and-forget; no return value is consumed.
type Messenger interface {
	AddMessage(p *models.Player, text, channel string)
	UpdateStats(p *models.Player)
	UpdateInventory(p *models.Player)
}

// Mover is asked to walk a player toward an out-of-range target.
type Mover interface {
	RequestMove(p *models.Player, to models.Position)
}

// SplashFunc shows a damage splash at a position. Advisory only: absence
// or failure never affects combat correctness.
type SplashFunc func(pos models.Position, amount int)

type session struct {
	player   *models.Player
	target   *models.Monster
	cooldown float64
	// targetCooldown times the monster's return swings. It starts at a
	// full beat so the player always lands the opening hit.
	targetCooldown float64
}

// Resolver drives combat for every engaged player.
type Resolver struct {
	src    rng.Source
	loot   *loot.Generator
	msg    Messenger
	mover  Mover
	splash SplashFunc
	log    zerolog.Logger

	sessions map[string]*session
}

// NewResolver creates a combat resolver. The messenger may be nil when no
// UI is attached.
func NewResolver(src rng.Source, gen *loot.Generator, msg Messenger, log zerolog.Logger) *Resolver {
	return &Resolver{
		src:      src,
		loot:     gen,
		msg:      msg,
		log:      log,
		sessions: make(map[string]*session),
	}
}

// SetMover attaches the movement collaborator.
func (r *Resolver) SetMover(m Mover) { r.mover = m }

// SetSplash attaches the damage splash hook.
func (r *Resolver) SetSplash(fn SplashFunc) { r.splash = fn }

// AttackTarget engages a player on a monster. A nil or dead target is a
// guarded no-op. An existing target is silently replaced; an in-progress
// cooldown is not reset, so retargeting cannot speed up attacks.
func (r *Resolver) AttackTarget(p *models.Player, m *models.Monster) {
	if p == nil || m == nil || m.Dead {
		return
	}
	s := r.sessions[p.ID]
	if s == nil {
		s = &session{player: p, targetCooldown: AttackSpeed}
		r.sessions[p.ID] = s
	}
	old := s.target
	s.target = m
	if old != nil && old != m {
		r.releaseTarget(old)
	}
	p.InCombat = true
	m.InCombat = true
}

// releaseTarget clears a monster's combat flag unless another session is
// still engaged on it. Two players on one monster must not free it when
// only one of them walks away.
func (r *Resolver) releaseTarget(m *models.Monster) {
	for _, s := range r.sessions {
		if s.target == m {
			return
		}
	}
	m.InCombat = false
}

// StopCombat disengages a player, clearing both sides' combat state.
// Idempotent: safe to call in any state.
func (r *Resolver) StopCombat(p *models.Player) {
	if p == nil {
		return
	}
	p.InCombat = false
	s := r.sessions[p.ID]
	if s == nil {
		return
	}
	delete(r.sessions, p.ID)
	if s.target != nil {
		r.releaseTarget(s.target)
	}
}

// Target returns the player's current target, or nil when idle.
func (r *Resolver) Target(p *models.Player) *models.Monster {
	if s := r.sessions[p.ID]; s != nil {
		return s.target
	}
	return nil
}

// Cooldown returns the seconds remaining until the player's next attack.
func (r *Resolver) Cooldown(p *models.Player) float64 {
	if s := r.sessions[p.ID]; s != nil {
		return s.cooldown
	}
	return 0
}

// Update advances every session's swing timers by delta: the player's
// attack on expiry, then the monster's return swing.
func (r *Resolver) Update(delta float64) {
	for _, s := range r.sessions {
		if !s.player.InCombat || s.target == nil {
			continue
		}
		s.cooldown -= delta
		if s.cooldown <= 0 {
			s.cooldown = 0
			r.attemptAttack(s)
		}
		if r.sessions[s.player.ID] != s {
			// The attack ended this session (kill or invalid target).
			continue
		}
		s.targetCooldown -= delta
		if s.targetCooldown <= 0 {
			s.targetCooldown = 0
			r.attemptRetaliation(s)
		}
	}
}

func (r *Resolver) attemptAttack(s *session) {
	p, m := s.player, s.target
	if m == nil || m.Dead {
		r.StopCombat(p)
		return
	}

	// Out of reach: walk toward the target instead. The cooldown stays
	// expired so the swing lands as soon as the player closes in.
	if models.Distance(p.Pos, m.Pos) > MeleeRange {
		if r.mover != nil {
			r.mover.RequestMove(p, m.Pos)
		}
		return
	}

	acc := progression.Accuracy(
		p.Skills.Level(progression.SkillAttack), p.Equipment.Attack,
		m.DefenceLevel, m.DefenceBonus,
	)

	damage := 0
	if r.src.Float64() <= acc {
		max := progression.MaxHit(p.Skills.Level(progression.SkillStrength), p.Equipment.Strength)
		damage = int(r.src.Float64() * float64(max+1))
	}

	if r.splash != nil {
		r.splash(m.Pos, damage)
	}
	if r.msg != nil {
		if damage > 0 {
			r.msg.AddMessage(p, fmt.Sprintf("You hit the %s for %d damage.", m.Name, damage), models.ChannelCombat)
		} else {
			r.msg.AddMessage(p, fmt.Sprintf("You miss the %s.", m.Name), models.ChannelCombat)
		}
	}

	m.ApplyDamage(damage)
	if m.Dead {
		r.handleKill(p, m)
		r.StopCombat(p)
		return
	}
	s.cooldown = AttackSpeed
}

// attemptRetaliation swings the monster back at its attacker. An
// out-of-reach player keeps the swing armed until they close in.
func (r *Resolver) attemptRetaliation(s *session) {
	p, m := s.player, s.target
	if m == nil || m.Dead {
		return
	}
	if models.Distance(p.Pos, m.Pos) > MeleeRange {
		return
	}

	acc := progression.Accuracy(
		m.AttackLevel, 0,
		p.Skills.Level(progression.SkillDefence), p.Equipment.Defence,
	)

	damage := 0
	if r.src.Float64() <= acc {
		max := progression.MaxHit(m.StrengthLevel, 0)
		damage = int(r.src.Float64() * float64(max+1))
	}

	if r.splash != nil {
		r.splash(p.Pos, damage)
	}
	if r.msg != nil {
		if damage > 0 {
			r.msg.AddMessage(p, fmt.Sprintf("The %s hits you for %d damage.", m.Name, damage), models.ChannelCombat)
		} else {
			r.msg.AddMessage(p, fmt.Sprintf("The %s misses you.", m.Name), models.ChannelCombat)
		}
	}

	if damage > 0 {
		p.CurrentHP -= damage
		if p.CurrentHP <= 0 {
			p.CurrentHP = 0
			p.Dead = true
			if r.msg != nil {
				r.msg.AddMessage(p, "Oh dear, you are dead!", models.ChannelGame)
			}
		}
		if r.msg != nil {
			r.msg.UpdateStats(p)
		}
		if p.Dead {
			r.StopCombat(p)
		}
	}
	s.targetCooldown = AttackSpeed
}

// handleKill awards xp and loot for a defeated monster. The xp reward is
// floor-split across attack, strength and defence, with a further third of
// the share going to hitpoints.
func (r *Resolver) handleKill(p *models.Player, m *models.Monster) {
	m.RespawnTimer = m.RespawnDelay

	share := m.XPReward / 3
	r.award(p, progression.SkillAttack, share)
	r.award(p, progression.SkillStrength, share)
	r.award(p, progression.SkillDefence, share)
	r.award(p, progression.SkillHitpoints, share/3)
	p.SyncHitpoints()

	if r.msg != nil {
		r.msg.AddMessage(p, fmt.Sprintf("You have defeated the %s.", m.Name), models.ChannelCombat)
		r.msg.UpdateStats(p)
	}

	if r.loot != nil {
		records := r.loot.Generate(m.DropTable)
		deposited := false
		for _, rec := range records {
			if rec.Item == "coins" {
				p.Gold += rec.Quantity
				if r.msg != nil {
					r.msg.AddMessage(p, fmt.Sprintf("The %s drops %d coins.", m.Name, rec.Quantity), models.ChannelLoot)
				}
				continue
			}
			if !p.Inventory.AddItem(rec.Item, rec.Quantity) {
				// Items already deposited are kept; only this one is lost.
				if r.msg != nil {
					r.msg.AddMessage(p, "Your inventory is too full to hold any more items.", models.ChannelGame)
				}
				continue
			}
			deposited = true
			if r.msg != nil {
				text := fmt.Sprintf("The %s drops %d x %s.", m.Name, rec.Quantity, rec.Item)
				if rec.Rare {
					text = fmt.Sprintf("The %s drops something rare: %d x %s!", m.Name, rec.Quantity, rec.Item)
				}
				r.msg.AddMessage(p, text, models.ChannelLoot)
			}
		}
		if deposited && r.msg != nil {
			r.msg.UpdateInventory(p)
		}
	}

	r.log.Debug().
		Str("player", p.Username).
		Str("monster", m.Name).
		Int("xp_reward", m.XPReward).
		Msg("monster killed")
}

func (r *Resolver) award(p *models.Player, skill progression.SkillName, amount int) {
	leveled, err := p.Skills.AddXP(skill, amount)
	if err != nil {
		r.log.Error().Err(err).Str("player", p.Username).Msg("xp award rejected")
		return
	}
	if leveled && r.msg != nil {
		r.msg.AddMessage(p,
			fmt.Sprintf("Congratulations, you just advanced a %s level! You are now level %d.",
				skill, p.Skills.Level(skill)),
			models.ChannelSkill)
	}
}
