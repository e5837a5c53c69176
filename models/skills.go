package models

import (
	"fmt"

	"lumbridge-realm/server/progression"
)

// Skill stores cumulative experience and the level derived from it.
// XP is the source of truth; Level must only ever be recomputed from XP,
// which Normalize enforces after deserialization.
type Skill struct {
	Level int `json:"level"`
	XP    int `json:"xp"`
}

// SkillSet maps skill names to their current state.
type SkillSet map[progression.SkillName]*Skill

// NewSkillSet returns a fresh character's skills: everything at level 1
// except hitpoints, which starts at level 10.
func NewSkillSet() SkillSet {
	set := SkillSet{}
	for _, name := range []progression.SkillName{
		progression.SkillAttack,
		progression.SkillStrength,
		progression.SkillDefence,
		progression.SkillPrayer,
		progression.SkillRanged,
		progression.SkillMagic,
		progression.SkillMining,
		progression.SkillWoodcutting,
		progression.SkillFishing,
	} {
		set[name] = &Skill{Level: 1, XP: 0}
	}
	hpXP := progression.XPForLevel(10)
	set[progression.SkillHitpoints] = &Skill{Level: 10, XP: hpXP}
	return set
}

// Level returns the current level for a skill, defaulting to 1 when the
// skill is missing from the set.
func (s SkillSet) Level(name progression.SkillName) int {
	if sk, ok := s[name]; ok {
		return sk.Level
	}
	return 1
}

// XP returns the cumulative experience for a skill, or 0 when missing.
func (s SkillSet) XP(name progression.SkillName) int {
	if sk, ok := s[name]; ok {
		return sk.XP
	}
	return 0
}

// AddXP awards experience to a skill and recomputes its level. It reports
// whether the award crossed a level threshold. Negative amounts indicate a
// corrupted caller and are rejected.
func (s SkillSet) AddXP(name progression.SkillName, amount int) (leveled bool, err error) {
	if amount < 0 {
		return false, fmt.Errorf("negative xp award for %s: %d", name, amount)
	}
	sk, ok := s[name]
	if !ok {
		sk = &Skill{Level: 1}
		s[name] = sk
	}
	before := sk.Level
	sk.XP += amount
	sk.Level = progression.LevelFromXP(sk.XP)
	return sk.Level > before, nil
}

// Normalize recomputes every level from its cumulative experience. Called
// after loading a character so persisted levels can never drift from XP.
func (s SkillSet) Normalize() {
	for _, sk := range s {
		sk.Level = progression.LevelFromXP(sk.XP)
	}
}

// Levels returns a plain name-to-level view, the shape the progression
// formulas consume.
func (s SkillSet) Levels() map[progression.SkillName]int {
	levels := make(map[progression.SkillName]int, len(s))
	for name, sk := range s {
		levels[name] = sk.Level
	}
	return levels
}

// CombatLevel aggregates the set's combat skills into a combat level.
func (s SkillSet) CombatLevel() int {
	return progression.CombatLevel(s.Levels())
}
