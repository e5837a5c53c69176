package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumbridge-realm/server/progression"
)

func TestNewSkillSet(t *testing.T) {
	set := NewSkillSet()

	assert.Equal(t, 10, set.Level(progression.SkillHitpoints))
	assert.Equal(t, progression.XPForLevel(10), set.XP(progression.SkillHitpoints))

	for _, name := range []progression.SkillName{
		progression.SkillAttack,
		progression.SkillStrength,
		progression.SkillDefence,
		progression.SkillMining,
		progression.SkillWoodcutting,
		progression.SkillFishing,
	} {
		assert.Equal(t, 1, set.Level(name), "%s starts at level 1", name)
		assert.Equal(t, 0, set.XP(name))
	}
}

func TestSkillSet_MissingSkillDefaults(t *testing.T) {
	set := SkillSet{}
	assert.Equal(t, 1, set.Level(progression.SkillAttack))
	assert.Equal(t, 0, set.XP(progression.SkillAttack))
}

func TestSkillSet_AddXP(t *testing.T) {
	set := NewSkillSet()

	leveled, err := set.AddXP(progression.SkillAttack, 50)
	require.NoError(t, err)
	assert.False(t, leveled)
	assert.Equal(t, 1, set.Level(progression.SkillAttack))

	leveled, err = set.AddXP(progression.SkillAttack, 33)
	require.NoError(t, err)
	assert.True(t, leveled, "crossing the 83 xp threshold levels up")
	assert.Equal(t, 2, set.Level(progression.SkillAttack))
	assert.Equal(t, 83, set.XP(progression.SkillAttack))
}

func TestSkillSet_AddXP_MultipleLevels(t *testing.T) {
	set := NewSkillSet()

	leveled, err := set.AddXP(progression.SkillStrength, progression.XPForLevel(10))
	require.NoError(t, err)
	assert.True(t, leveled)
	assert.Equal(t, 10, set.Level(progression.SkillStrength))
}

func TestSkillSet_AddXP_RejectsNegative(t *testing.T) {
	set := NewSkillSet()

	leveled, err := set.AddXP(progression.SkillAttack, -10)
	require.Error(t, err)
	assert.False(t, leveled)
	assert.Equal(t, 0, set.XP(progression.SkillAttack), "a rejected award must not mutate")
}

func TestSkillSet_AddXP_UnknownSkillCreated(t *testing.T) {
	set := SkillSet{}
	leveled, err := set.AddXP(progression.SkillPrayer, 100)
	require.NoError(t, err)
	assert.True(t, leveled)
	assert.Equal(t, 2, set.Level(progression.SkillPrayer))
}

func TestSkillSet_Normalize(t *testing.T) {
	set := SkillSet{
		progression.SkillAttack: {Level: 40, XP: 83},
		progression.SkillMining: {Level: 1, XP: progression.XPForLevel(50)},
	}
	set.Normalize()
	assert.Equal(t, 2, set.Level(progression.SkillAttack), "inflated level repaired from xp")
	assert.Equal(t, 50, set.Level(progression.SkillMining), "deflated level repaired from xp")
}

func TestSkillSet_CombatLevel(t *testing.T) {
	assert.Equal(t, 3, NewSkillSet().CombatLevel())
}
