package progression

import "math"

// MaxLevel is the level cap for every skill.
const MaxLevel = 99

// SkillName identifies a trainable skill.
type SkillName string

const (
	SkillAttack      SkillName = "attack"
	SkillStrength    SkillName = "strength"
	SkillDefence     SkillName = "defence"
	SkillHitpoints   SkillName = "hitpoints"
	SkillRanged      SkillName = "ranged"
	SkillMagic       SkillName = "magic"
	SkillPrayer      SkillName = "prayer"
	SkillMining      SkillName = "mining"
	SkillWoodcutting SkillName = "woodcutting"
	SkillFishing     SkillName = "fishing"
)

// xpTable[L] holds the cumulative experience required to reach level L.
// Built once from the classic curve: threshold(L) = floor((1/4) * sum for
// n in [1, L-1] of floor(n + 300 * 2^(n/7))).
var xpTable [MaxLevel + 1]int

func init() {
	total := 0
	for n := 1; n < MaxLevel; n++ {
		total += n + int(300*math.Pow(2, float64(n)/7))
		xpTable[n+1] = total / 4
	}
}

// XPForLevel returns the cumulative experience threshold for reaching the
// given level. Levels at or below 1 map to 0 and levels above MaxLevel
// clamp to the level-99 threshold.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return xpTable[level]
}

// LevelFromXP returns the greatest level whose threshold is at or below the
// given cumulative experience. The result is always within [1, MaxLevel],
// even for negative or absurdly large inputs.
func LevelFromXP(xp int) int {
	for level := MaxLevel; level > 1; level-- {
		if xpTable[level] <= xp {
			return level
		}
	}
	return 1
}

// XPToNextLevel returns how much experience is missing until the next
// level, or 0 once the cap is reached.
func XPToNextLevel(xp int) int {
	level := LevelFromXP(xp)
	if level >= MaxLevel {
		return 0
	}
	return xpTable[level+1] - xp
}

// ProgressToNextLevel returns the fraction in [0, 1] of progress through
// the current level band. It is 0 exactly at a threshold and clamps to 1
// at or above the level-99 threshold.
func ProgressToNextLevel(xp int) float64 {
	level := LevelFromXP(xp)
	if level >= MaxLevel {
		return 1
	}
	cur := xpTable[level]
	next := xpTable[level+1]
	frac := float64(xp-cur) / float64(next-cur)
	if frac < 0 {
		return 0
	}
	if frac > 1 {
		return 1
	}
	return frac
}

// CombatLevel aggregates a set of skill levels into a single combat level.
// Skills absent from the map contribute their level-1 default, so a pure
// melee actor still resolves correctly.
func CombatLevel(levels map[SkillName]int) int {
	get := func(name SkillName) int {
		if lvl, ok := levels[name]; ok {
			return lvl
		}
		return 1
	}

	base := 0.25 * float64(get(SkillDefence)+get(SkillHitpoints)+get(SkillPrayer)/2)
	melee := 0.325 * float64(get(SkillAttack)+get(SkillStrength))
	ranged := 0.325 * math.Floor(1.5*float64(get(SkillRanged)))
	magic := 0.325 * math.Floor(1.5*float64(get(SkillMagic)))

	best := melee
	if ranged > best {
		best = ranged
	}
	if magic > best {
		best = magic
	}
	return int(math.Floor(base + best))
}

// Accuracy returns the probability in [0, 1] that an attack lands, using
// opposed attack and defence rolls. It rises with attacker level/bonus and
// falls with defender level/bonus.
func Accuracy(attackLevel, attackBonus, defenceLevel, defenceBonus int) float64 {
	attackRoll := float64((attackLevel + 8) * (attackBonus + 64))
	defenceRoll := float64((defenceLevel + 8) * (defenceBonus + 64))

	var acc float64
	if attackRoll < defenceRoll {
		acc = attackRoll / (2 * defenceRoll)
	} else {
		acc = 1 - (defenceRoll+2)/(2*(attackRoll+1))
	}

	if acc < 0 {
		return 0
	}
	if acc > 1 {
		return 1
	}
	return acc
}

// MaxHit returns the inclusive upper bound of a damage roll for the given
// strength level and equipment bonus.
func MaxHit(strengthLevel, strengthBonus int) int {
	effective := float64(strengthLevel + 8)
	hit := int(math.Floor(0.5 + effective*float64(strengthBonus+64)/640))
	if hit < 0 {
		return 0
	}
	return hit
}
