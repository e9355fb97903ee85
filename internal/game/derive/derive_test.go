package derive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/gusheet/internal/game/derive"
	"github.com/cory-johannsen/gusheet/internal/game/inventory"
	"github.com/cory-johannsen/gusheet/internal/game/rules"
)

func weight(v float64) *float64 { return &v }

func items(t testing.TB) *inventory.Registry {
	t.Helper()
	r := inventory.NewRegistry()
	defs := []*inventory.ItemDef{
		{ID: "dagger", Name: "Кинжал", CompatibleSlots: []inventory.SlotID{inventory.SlotMainHand, inventory.SlotOffHand},
			DamageDice: "1d4", DamageType: "колющий", Weight: weight(1),
			Properties: inventory.PropertySet{
				inventory.Flag{Of: inventory.PropFinesse},
				inventory.Flag{Of: inventory.PropLight},
				inventory.Range{Of: inventory.PropThrown, Normal: 20, Max: 60},
			}},
		{ID: "bow", Name: "Лук", CompatibleSlots: []inventory.SlotID{inventory.SlotMainHand},
			DamageDice: "1d6", DamageType: "не указан",
			Properties: inventory.PropertySet{
				inventory.Range{Of: inventory.PropAmmunition, Normal: 80, Max: 320},
				inventory.Flag{Of: inventory.PropTwoHanded},
			}},
		{ID: "staff", Name: "Посох", CompatibleSlots: []inventory.SlotID{inventory.SlotMainHand},
			DamageDice: "1d6", DamageType: "дробящий",
			Properties: inventory.PropertySet{inventory.Versatile{Dice: "1d8"}}},
		{ID: "anvil", Name: "Наковальня", Weight: weight(100.5)},
		{ID: inventory.LeatherArmorID, Name: "Кожаная броня", CompatibleSlots: []inventory.SlotID{inventory.SlotArmor}, Weight: weight(10)},
	}
	for _, d := range defs {
		require.NoError(t, r.RegisterItem(d))
	}
	return r
}

func baseInput(t *testing.T) derive.Input {
	return derive.Input{
		Final:            rules.Uniform(10),
		ProficiencyBonus: 2,
		CurrentHP:        8,
		MaxHP:            10,
		CurrentHitDice:   1,
		MaxHitDice:       1,
		HitDieType:       8,
		BaseArmorClass:   10,
		Items:            items(t),
	}
}

func inst(id, def string) inventory.ItemInstance {
	return inventory.ItemInstance{InstanceID: id, ItemDefID: def}
}

func TestCompute_BaselineLines(t *testing.T) {
	lines := derive.Lines(derive.Compute(baseInput(t)))
	assert.Equal(t, []string{
		"Хитпоинты: 8 / 10",
		"Кости Хитов: 1 / 1 (d8)",
		"Уровень Истощения: 0",
		"Грузоподъемность: 0 / 150 фунтов",
		"Бонус Умения: +2",
		"Класс Брони (КБ): 10",
		"Спасбросок Силы: +0",
		"Спасбросок Ловкости: +0",
		"Спасбросок Телосложения: +0",
		"Спасбросок Интеллекта: +0",
		"Спасбросок Мудрости: +0",
		"Спасбросок Харизмы: +0",
		"Концептуальная Инициатива: +0",
		"Пассивная Внимательность (концепт): 10",
		"Скорость (концепт): 30 футов",
		"Известные языки (концепт): 1",
	}, lines)
}

func TestCompute_TraitsAndProficiencies(t *testing.T) {
	in := baseInput(t)
	in.Final = in.Final.With(rules.Wisdom, 14).With(rules.Intelligence, 16).With(rules.Constitution, 12)
	in.TraitIDs = []string{rules.TraitAlert, rules.TraitObservant, rules.TraitLinguist}
	in.SkillIDs = []string{rules.SkillPerception}
	in.EffectiveFeatIDs = []string{rules.FeatMobile}
	in.ConSaveProficient = true

	lines := derive.Lines(derive.Compute(in))
	assert.Contains(t, lines, "Спасбросок Телосложения: +3 (Умение)")
	assert.Contains(t, lines, "Концептуальная Инициатива: +2")
	assert.Contains(t, lines, "Пассивная Внимательность (концепт): 19")
	assert.Contains(t, lines, "Скорость (концепт): 40 футов")
	assert.Contains(t, lines, "Известные языки (концепт): 7")
}

func TestCompute_Encumbrance(t *testing.T) {
	in := baseInput(t)
	in.Final = in.Final.With(rules.Strength, 10)
	in.Inventory = inventory.Inventory{Backpack: []inventory.ItemInstance{inst("a", "anvil")}}

	lines := derive.Lines(derive.Compute(in))
	assert.Contains(t, lines, "Грузоподъемность: 100.5 / 150 фунтов")
	assert.Contains(t, lines, "Состояние: Сильно перегружен (Скорость -20, помеха на Силу/Ловкость/Телосложение)")
	assert.Contains(t, lines, "Скорость (концепт): 10 футов")

	in.Final = in.Final.With(rules.Strength, 15)
	lines = derive.Lines(derive.Compute(in))
	assert.Contains(t, lines, "Состояние: Перегружен (Скорость -10)")
	assert.Contains(t, lines, "Скорость (концепт): 20 футов")
}

func TestLoadFor_Thresholds(t *testing.T) {
	assert.Equal(t, derive.Unencumbered, derive.LoadFor(50, 10))
	assert.Equal(t, derive.Encumbered, derive.LoadFor(50.01, 10))
	assert.Equal(t, derive.Encumbered, derive.LoadFor(100, 10))
	assert.Equal(t, derive.HeavilyEncumbered, derive.LoadFor(100.01, 10))
}

func TestCompute_WeaponLines(t *testing.T) {
	in := baseInput(t)
	in.Final = in.Final.With(rules.Dexterity, 16).With(rules.Strength, 12)
	in.Inventory = inventory.Inventory{Equipment: inventory.Equipment{
		inventory.SlotMainHand: inst("s", "staff"),
		inventory.SlotOffHand:  inst("d", "dagger"),
	}}

	lines := derive.Lines(derive.Compute(in))
	want := []string{
		"Атака (Рукопашная, Осн. рука): 1d20 +1 (Сила)",
		"Урон (Посох, Осн. рука): 1d6 дробящий",
		"Свойства (Осн. рука): Универсальное (1d8)",
		"Атака (Рукопашная, Втор. рука): 1d20 +3 (Ловкость)",
		"Атака (Метание, Втор. рука): 1d20 +3 (Ловкость)",
		"Урон (Кинжал, Втор. рука): 1d4 колющий",
		"Свойства (Втор. рука): Фехтовальное, Легкое, Метательное (20/60 фт.)",
	}
	assert.Equal(t, want, lines[len(lines)-len(want):])
}

func TestCompute_RangedWeaponOmitsUnknownDamageType(t *testing.T) {
	in := baseInput(t)
	in.Final = in.Final.With(rules.Dexterity, 8)
	in.Inventory = inventory.Inventory{Equipment: inventory.Equipment{inventory.SlotMainHand: inst("b", "bow")}}

	lines := derive.Lines(derive.Compute(in))
	assert.Contains(t, lines, "Атака (Дальнобойная, Осн. рука): 1d20 -1 (Ловкость)")
	assert.Contains(t, lines, "Урон (Лук, Осн. рука): 1d6")
	assert.Contains(t, lines, "Свойства (Осн. рука): Боеприпасы (80/320 фт.), Двуручное")
}

func TestCompute_LeatherArmorAndManualAC(t *testing.T) {
	in := baseInput(t)
	in.Final = in.Final.With(rules.Dexterity, 14)
	in.ManualACModifier = 1
	in.Inventory = inventory.Inventory{Equipment: inventory.Equipment{inventory.SlotArmor: inst("l", inventory.LeatherArmorID)}}
	assert.Contains(t, derive.Lines(derive.Compute(in)), "Класс Брони (КБ): 14")
}

func TestCompute_RaceEffectsAndSkills(t *testing.T) {
	in := baseInput(t)
	in.Final = in.Final.With(rules.Dexterity, 14).With(rules.Strength, 6)
	in.Race = &rules.Race{
		ID:             "r",
		Name:           "Раса",
		SkillModifiers: map[string]int{"skill_athletics": 1},
		TextualEffects: []string{"Видит в темноте."},
	}
	in.Skills = []*rules.Skill{
		{ID: "skill_athletics", Name: "Атлетика", Attribute: rules.Strength},
		{ID: "skill_stealth", Name: "Скрытность", Attribute: rules.Dexterity},
		{ID: "skill_history", Name: "История", Attribute: rules.Intelligence},
	}
	in.SkillIDs = []string{"skill_stealth"}

	lines := derive.Lines(derive.Compute(in))
	assert.Contains(t, lines, "Видит в темноте.")
	assert.Equal(t, []string{"Навык: Атлетика: -1", "Навык: Скрытность: +4"}, lines[len(lines)-2:])
}

func TestFormatMod(t *testing.T) {
	assert.Equal(t, "+0", derive.FormatMod(0))
	assert.Equal(t, "+3", derive.FormatMod(3))
	assert.Equal(t, "-2", derive.FormatMod(-2))
}

func TestFormatWeight_Shortest(t *testing.T) {
	assert.Equal(t, "13.13", derive.FormatWeight(13.13))
	assert.Equal(t, "10", derive.FormatWeight(10))
	assert.Equal(t, "0.5", derive.FormatWeight(0.5))
}

// TestCompute_FixedPrefix verifies that the resource and defense block
// always precedes optional lines regardless of inputs.
func TestCompute_FixedPrefix(t *testing.T) {
	base := baseInput(t)
	rapid.Check(t, func(rt *rapid.T) {
		in := base
		for _, a := range rules.AllAttributes {
			in.Final = in.Final.With(a, rapid.IntRange(1, 24).Draw(rt, string(a)))
		}
		stats := derive.Compute(in)
		require.GreaterOrEqual(rt, len(stats), 16)
		assert.Equal(rt, derive.KindHitPoints, stats[0].Kind)
		assert.Equal(rt, derive.KindHitDice, stats[1].Kind)
		assert.Equal(rt, derive.KindExhaustion, stats[2].Kind)
		assert.Equal(rt, derive.KindCarrying, stats[3].Kind)
		saves := 0
		for _, s := range stats {
			if s.Kind == derive.KindSave {
				saves++
			}
		}
		assert.Equal(rt, 6, saves)
	})
}
