package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/gusheet/internal/game/inventory"
)

func TestArmorClass_NoArmor(t *testing.T) {
	assert.Equal(t, 12, inventory.ArmorClass(nil, 10, 2, 0))
}

func TestArmorClass_BareLeatherArmor(t *testing.T) {
	leather := &inventory.ItemDef{ID: inventory.LeatherArmorID, Name: "Кожаная броня"}
	assert.Equal(t, 14, inventory.ArmorClass(leather, 10, 3, 0))
}

func TestArmorClass_ExplicitArmorTypes(t *testing.T) {
	cases := []struct {
		name string
		typ  inventory.ArmorType
		base int
		dex  int
		want int
	}{
		{"light", inventory.ArmorLight, 12, 4, 16},
		{"medium caps dex", inventory.ArmorMedium, 14, 4, 16},
		{"medium negative dex", inventory.ArmorMedium, 14, -1, 13},
		{"heavy ignores dex", inventory.ArmorHeavy, 18, 3, 18},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			armor := &inventory.ItemDef{ID: "custom-a", Name: "A", ArmorType: tc.typ, BaseArmorClass: tc.base}
			assert.Equal(t, tc.want, inventory.ArmorClass(armor, 10, tc.dex, 0))
		})
	}
}

func TestArmorClass_ArmorWithoutDataFallsBackToBase(t *testing.T) {
	shirt := &inventory.ItemDef{ID: "item_simple_shirt", Name: "Рубаха"}
	assert.Equal(t, 11, inventory.ArmorClass(shirt, 10, 1, 0))
}

func TestArmorClass_ManualModifierAddedLast(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dex := rapid.IntRange(-5, 5).Draw(rt, "dex")
		manual := rapid.IntRange(-10, 10).Draw(rt, "manual")
		base := inventory.ArmorClass(nil, 10, dex, 0)
		assert.Equal(rt, base+manual, inventory.ArmorClass(nil, 10, dex, manual))
	})
}
