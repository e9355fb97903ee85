package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/gusheet/internal/game/rules"
)

func intp(v int) *int { return &v }

func TestFeat_Satisfied(t *testing.T) {
	slayer := &rules.Feat{ID: "feat_mage_slayer", Name: "Убийца магов", Requirements: []rules.Requirement{
		{Attribute: rules.Intelligence, Min: intp(13)},
		{Attribute: rules.Dexterity, Min: intp(13)},
	}}
	a := rules.Uniform(10)
	assert.False(t, slayer.Satisfied(a))
	assert.False(t, slayer.Satisfied(a.With(rules.Intelligence, 13)))
	assert.True(t, slayer.Satisfied(a.With(rules.Intelligence, 13).With(rules.Dexterity, 14)))
}

func TestFeat_MaxBound(t *testing.T) {
	feeble := &rules.Feat{ID: "feat_flaw_feeble", Name: "Хилое Тело", IsFlaw: true,
		Requirements: []rules.Requirement{{Attribute: rules.Constitution, Max: intp(9)}}}
	assert.True(t, feeble.Satisfied(rules.Uniform(9)))
	assert.False(t, feeble.Satisfied(rules.Uniform(10)))
	assert.False(t, feeble.Manual())
}

func TestFeat_NoRequirementsNeverSatisfied(t *testing.T) {
	coward := &rules.Feat{ID: "feat_flaw_cowardly_manual", Name: "Трусливый", IsFlaw: true, Adjustment: 1}
	assert.False(t, coward.Satisfied(rules.Uniform(20)))
	assert.True(t, coward.Manual())
	assert.NoError(t, coward.Validate())
}

func TestFeat_ValidateRejectsOpenRequirement(t *testing.T) {
	f := &rules.Feat{ID: "x", Name: "X", Requirements: []rules.Requirement{{Attribute: rules.Strength}}}
	if err := f.Validate(); err == nil {
		t.Fatal("expected error for requirement without bounds, got nil")
	}
}

func TestFeat_ValidateRejectsBeneficialWithoutRequirements(t *testing.T) {
	f := &rules.Feat{ID: "x", Name: "X"}
	if err := f.Validate(); err == nil {
		t.Fatal("expected error for beneficial feat without requirements, got nil")
	}
}

func TestRace_ValidateRejectsUnknownAttribute(t *testing.T) {
	r := &rules.Race{ID: "x", Name: "X", AttributeModifiers: map[rules.Attribute]int{"luck": 1}}
	if err := r.Validate(); err == nil {
		t.Fatal("expected error for unknown attribute, got nil")
	}
}

func TestMadness_ValidateRejectsUnknownKind(t *testing.T) {
	m := &rules.MadnessEffect{ID: "x", Name: "X", Kind: "forever"}
	if err := m.Validate(); err == nil {
		t.Fatal("expected error for unknown kind, got nil")
	}
}
