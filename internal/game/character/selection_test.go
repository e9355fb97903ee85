package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/gusheet/internal/game/character"
	"github.com/cory-johannsen/gusheet/internal/game/inventory"
	"github.com/cory-johannsen/gusheet/internal/game/rules"
)

func TestToggleTrait_CostsModificationPoints(t *testing.T) {
	e := newEngine(t)
	s := must(t)(e.ToggleTrait(e.New(), rules.TraitTough))
	assert.True(t, s.HasTrait(rules.TraitTough))
	assert.Equal(t, -2, s.Derived.ModificationPoints)
	assert.Equal(t, 9, s.Derived.MaxHP, "tough adds 2 hit points")

	s = must(t)(e.ToggleTrait(s, rules.TraitTough))
	assert.Empty(t, s.TraitIDs)
	assert.Equal(t, 7, s.Derived.MaxHP)

	_, err := e.ToggleTrait(s, "trait_nonexistent")
	assert.ErrorIs(t, err, character.ErrValidation)
}

func TestToggleTrait_ResilientConGrantsSaveProficiency(t *testing.T) {
	e := newEngine(t)
	s := must(t)(e.ToggleTrait(e.New(), rules.TraitResilientCon))
	assert.True(t, s.Derived.ConSaveProficient)
}

func TestToggleSkill_CapAndEligibility(t *testing.T) {
	e := newEngine(t)
	s := e.New()
	for _, id := range []string{"skill_history", "skill_arcana", "skill_nature"} {
		s = must(t)(e.ToggleSkill(s, id))
	}
	_, err := e.ToggleSkill(s, "skill_stealth")
	assert.ErrorIs(t, err, character.ErrValidation, "the cap is three")

	s = must(t)(e.ToggleSkill(s, "skill_arcana"))
	assert.Equal(t, []string{"skill_history", "skill_nature"}, s.SkillIDs)

	_, err = e.ToggleSkill(s, "skill_unknown")
	assert.ErrorIs(t, err, character.ErrValidation)
}

func TestToggleSkill_EligibilityChangeClearsSkills(t *testing.T) {
	e := newEngine(t)
	s := must(t)(e.ToggleSkill(e.New(), "skill_history"))

	s = must(t)(e.IncreaseAttribute(s, rules.Strength))
	assert.Equal(t, []string{"skill_history"}, s.SkillIDs, "every attribute still ties for second place")

	s = must(t)(e.IncreaseAttribute(s, rules.Dexterity))
	assert.Empty(t, s.SkillIDs)
	assert.ElementsMatch(t, []rules.Attribute{rules.Strength, rules.Dexterity}, s.EligibleAttributes)

	_, err := e.ToggleSkill(s, "skill_history")
	assert.ErrorIs(t, err, character.ErrValidation)

	s = must(t)(e.ToggleSkill(s, "skill_athletics"))
	s = must(t)(e.ToggleSkill(s, "skill_stealth"))
	s = must(t)(e.ToggleSkill(s, "skill_history"))
	assert.Len(t, s.SkillIDs, 3, "the third pick is unrestricted")
}

func TestToggleFlaw_OnlyManualFlaws(t *testing.T) {
	e := newEngine(t)
	s := must(t)(e.ToggleFlaw(e.New(), "feat_flaw_cowardly_manual"))
	assert.Equal(t, 1, s.Derived.ModificationPoints)
	assert.Contains(t, e.EffectiveFeatIDs(s), "feat_flaw_cowardly_manual")

	_, err := e.ToggleFlaw(s, "feat_flaw_feeble")
	assert.ErrorIs(t, err, character.ErrValidation)
	_, err = e.ToggleFlaw(s, "feat_mobile")
	assert.ErrorIs(t, err, character.ErrValidation)
}

func TestSetMadness(t *testing.T) {
	e := newEngine(t)
	s := must(t)(e.SetMadness(e.New(), "mad_long_1"))
	assert.Equal(t, 2, s.Derived.ModificationPoints)

	s = must(t)(e.SetMadness(s, ""))
	assert.Equal(t, 0, s.Derived.ModificationPoints)

	_, err := e.SetMadness(s, "mad_unknown")
	assert.ErrorIs(t, err, character.ErrValidation)
}

func TestToggleItem_SyncsInventory(t *testing.T) {
	e := newEngine(t)
	s := must(t)(e.ToggleItem(e.New(), "item_dagger"))
	assert.Equal(t, []string{"item_dagger"}, s.ItemIDs)
	require.Len(t, s.Inventory.Backpack, 1)
	assert.Equal(t, "item_dagger", s.Inventory.Backpack[0].ItemDefID)
	assert.Equal(t, -1, s.Derived.ModificationPoints)

	id := s.Inventory.Backpack[0].InstanceID
	s = must(t)(e.MoveItem(s, id, inventory.SlotMainHand))
	assert.Empty(t, s.Inventory.Backpack)

	s = must(t)(e.ToggleItem(s, "item_dagger"))
	assert.Empty(t, s.ItemIDs)
	assert.Empty(t, s.Inventory.All(), "deselection removes equipped instances too")

	_, err := e.ToggleItem(s, "custom-abc")
	assert.ErrorIs(t, err, character.ErrValidation)
}

func TestSetRace_FollowsHitDieAndClampsHP(t *testing.T) {
	e := newEngine(t)
	s := must(t)(e.SetRace(e.New(), "eggman"))
	assert.Equal(t, 6, s.Resources.HitDieType)
	assert.Equal(t, 7, s.Derived.Final.Constitution)
	assert.Equal(t, 4, s.Derived.MaxHP)
	assert.Equal(t, 4, s.Resources.CurrentHP)

	s = must(t)(e.SetRace(s, "human"))
	assert.Equal(t, 8, s.Resources.HitDieType)
	assert.Equal(t, 4, s.Resources.CurrentHP, "a higher maximum never raises current hit points")

	_, err := e.SetRace(s, "dragon")
	assert.ErrorIs(t, err, character.ErrValidation)
}

func TestSetRace_NoFeetVacatesFeetSlot(t *testing.T) {
	e := newEngine(t)
	s := must(t)(e.ToggleItem(e.New(), "item_sturdy_boots"))
	boots := s.Inventory.Backpack[0].InstanceID
	s = must(t)(e.MoveItem(s, boots, inventory.SlotFeet))
	_, worn := s.Inventory.Equipped(inventory.SlotFeet)
	require.True(t, worn)

	s = must(t)(e.SetRace(s, "merman"))
	_, worn = s.Inventory.Equipped(inventory.SlotFeet)
	assert.False(t, worn)
	assert.Len(t, s.Inventory.Backpack, 1)

	_, err := e.MoveItem(s, boots, inventory.SlotFeet)
	assert.ErrorIs(t, err, character.ErrValidation)
	assert.ErrorIs(t, err, inventory.ErrSlotForbidden)
}

func TestSetLevel(t *testing.T) {
	e := newEngine(t)
	s := e.SetLevel(e.New(), 3)
	assert.Equal(t, 15, s.Derived.MaxHP, "7 + 2 * (4 + 1 - 1)")
	assert.Equal(t, 7, s.Resources.CurrentHP)
	assert.Equal(t, 3, s.Derived.MaxHitDice)
	assert.Equal(t, 1, s.Resources.CurrentHitDice)

	assert.Equal(t, 1, e.SetLevel(s, -4).Level)
}

func TestSetHitDieType(t *testing.T) {
	e := newEngine(t)
	s := must(t)(e.SetHitDieType(e.New(), 12))
	assert.Equal(t, 11, s.Derived.MaxHP)

	_, err := e.SetHitDieType(s, 7)
	assert.ErrorIs(t, err, character.ErrValidation)
}

func TestManualModifiers(t *testing.T) {
	e := newEngine(t)
	s := e.SetManualMaxHPModifier(e.New(), 5)
	assert.Equal(t, 12, s.Derived.MaxHP)

	s = e.SetManualACModifier(s, 2)
	assert.Equal(t, 2, s.Resources.ManualACModifier)
}

func TestSetSleepArmor(t *testing.T) {
	e := newEngine(t)
	s := must(t)(e.SetSleepArmor(e.New(), character.SleepArmorHeavy))
	assert.Equal(t, character.SleepArmorHeavy, s.Resources.SleepArmor)
	assert.True(t, s.Resources.SleepArmor.Hinders())
	assert.False(t, character.SleepArmorLight.Hinders())

	_, err := e.SetSleepArmor(s, "plate")
	assert.ErrorIs(t, err, character.ErrValidation)
}

func TestDescriptiveFields(t *testing.T) {
	e := newEngine(t)
	s := e.SetName(e.New(), "Бай Нин Бин")
	s = e.SetAppearance(s, character.Appearance{Age: "17", EyeColor: "голубые"})
	s = e.SetBackstory(s, "первая")
	s = e.SetBackstory(s, "вторая")

	assert.Equal(t, "Бай Нин Бин", s.Name)
	assert.Equal(t, "голубые", s.Appearance.EyeColor)
	assert.Equal(t, "вторая", s.Backstory)
}

func TestDeleteItem(t *testing.T) {
	e := newEngine(t)
	s := must(t)(e.ToggleItem(e.New(), "item_rope"))
	id := s.Inventory.Backpack[0].InstanceID

	s = must(t)(e.DeleteItem(s, id))
	assert.Empty(t, s.ItemIDs)
	assert.Empty(t, s.Inventory.All())
	assert.Equal(t, 0, s.Derived.ModificationPoints)

	_, err := e.DeleteItem(s, id)
	assert.ErrorIs(t, err, character.ErrValidation)
}

func TestAddCustomItem(t *testing.T) {
	e := newEngine(t)
	w := 2.5
	s, def, err := e.AddCustomItem(e.New(), inventory.ItemDef{
		Name:            "Фамильный нож",
		Cost:            5,
		Weight:          &w,
		CompatibleSlots: []inventory.SlotID{inventory.SlotMainHand},
		DamageDice:      "1d4",
	})
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.True(t, inventory.IsCustomID(def.ID))
	assert.Equal(t, 0, def.Cost)
	assert.Equal(t, 0, s.Derived.ModificationPoints)
	require.Len(t, s.Inventory.Backpack, 1)

	inst := s.Inventory.Backpack[0]
	assert.Equal(t, def.ID, inst.ItemDefID)
	s = must(t)(e.MoveItem(s, inst.InstanceID, inventory.SlotMainHand))

	s = must(t)(e.DeleteItem(s, inst.InstanceID))
	assert.Empty(t, s.CustomItems)

	_, _, err = e.AddCustomItem(s, inventory.ItemDef{})
	assert.ErrorIs(t, err, character.ErrValidation)
}
