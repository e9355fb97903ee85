package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/gusheet/internal/game/rules"
)

func TestModifier_KnownScores(t *testing.T) {
	cases := map[int]int{3: -4, 7: -2, 8: -1, 9: -1, 10: 0, 11: 0, 15: 2, 20: 5}
	for score, want := range cases {
		assert.Equal(t, want, rules.Modifier(score), "score %d", score)
	}
}

func TestModifier_FloorLaw(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.IntRange(-100, 100).Draw(rt, "score")
		m := rules.Modifier(s)
		// m is the greatest integer with 2m <= s-10.
		assert.LessOrEqual(rt, 2*m, s-10)
		assert.Greater(rt, 2*(m+1), s-10)
	})
}

func TestProficiencyBonus_Steps(t *testing.T) {
	want := map[int]int{1: 2, 4: 2, 5: 3, 8: 3, 9: 4, 12: 4, 13: 5, 16: 5, 17: 6, 20: 6}
	for level, pb := range want {
		assert.Equal(t, pb, rules.ProficiencyBonus(level), "level %d", level)
	}
}

func TestAttributes_GetWithPlus(t *testing.T) {
	a := rules.Uniform(8)
	for _, attr := range rules.AllAttributes {
		assert.Equal(t, 8, a.Get(attr))
	}
	b := a.With(rules.Wisdom, 12)
	assert.Equal(t, 12, b.Wisdom)
	assert.Equal(t, 8, a.Wisdom, "With must not mutate the receiver")

	c := a.Plus(map[rules.Attribute]int{rules.Charisma: 4, rules.Constitution: -1})
	assert.Equal(t, 12, c.Charisma)
	assert.Equal(t, 7, c.Constitution)
	assert.Equal(t, 0, a.Get("luck"))
}

func TestAttributeNames(t *testing.T) {
	assert.Equal(t, "Сила", rules.AttributeName(rules.Strength))
	assert.Equal(t, "Спасбросок Телосложения", rules.SaveName(rules.Constitution))
	assert.Equal(t, "luck", rules.AttributeName("luck"))
}

func TestRules_DefaultIsValid(t *testing.T) {
	r := rules.Default()
	assert.NoError(t, r.Validate())
	cost, ok := r.BuyCost(14)
	assert.True(t, ok)
	assert.Equal(t, 7, cost)
	_, ok = r.BuyCost(16)
	assert.False(t, ok)
	_, ok = r.BuyCost(7)
	assert.False(t, ok)
	assert.True(t, r.ValidHitDie(12))
	assert.False(t, r.ValidHitDie(7))
}

func TestRules_ValidateCollectsViolations(t *testing.T) {
	r := rules.Default()
	r.PointBuyCost = []int{1, 0}
	r.DefaultHitDie = 7
	err := r.Validate()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	assert.Contains(t, err.Error(), "PointBuyCost must have 8 entries")
	assert.Contains(t, err.Error(), "DefaultHitDie d7")
}

func TestFormatGameTime(t *testing.T) {
	assert.Equal(t, "День 1, 08:00", rules.FormatGameTime(8))
	assert.Equal(t, "День 2, 00:00", rules.FormatGameTime(24))
	assert.Equal(t, "День 3, 17:00", rules.FormatGameTime(65))
}
