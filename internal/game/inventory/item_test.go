package inventory_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/gusheet/internal/game/inventory"
)

func weight(w float64) *float64 { return &w }

func TestItemDef_Validate_RejectsEmptyID(t *testing.T) {
	d := &inventory.ItemDef{Name: "Кинжал"}
	if err := d.Validate(); err == nil {
		t.Fatal("expected error for empty ID, got nil")
	}
}

func TestItemDef_Validate_RejectsUnknownSlot(t *testing.T) {
	d := &inventory.ItemDef{ID: "x", Name: "X", CompatibleSlots: []inventory.SlotID{"tail"}}
	if err := d.Validate(); err == nil {
		t.Fatal("expected error for unknown slot, got nil")
	}
}

func TestItemDef_Validate_RejectsBadDamageDice(t *testing.T) {
	d := &inventory.ItemDef{ID: "x", Name: "X", DamageDice: "banana"}
	if err := d.Validate(); err == nil {
		t.Fatal("expected error for malformed damage dice, got nil")
	}
}

func TestItemDef_Validate_RejectsNegativeWeight(t *testing.T) {
	d := &inventory.ItemDef{ID: "x", Name: "X", Weight: weight(-1)}
	if err := d.Validate(); err == nil {
		t.Fatal("expected error for negative Weight, got nil")
	}
}

func TestItemDef_Validate_RejectsUnknownArmorType(t *testing.T) {
	d := &inventory.ItemDef{ID: "x", Name: "X", ArmorType: "paper"}
	if err := d.Validate(); err == nil {
		t.Fatal("expected error for unknown armor type, got nil")
	}
}

func TestItemDef_Validate_AcceptsWeapon(t *testing.T) {
	d := &inventory.ItemDef{
		ID:              "item_spear",
		Name:            "Копьё",
		CompatibleSlots: []inventory.SlotID{inventory.SlotMainHand},
		DamageDice:      "1d6",
		Properties: inventory.PropertySet{
			inventory.Range{Of: inventory.PropThrown, Normal: 20, Max: 60},
			inventory.Versatile{Dice: "1d8"},
		},
	}
	assert.NoError(t, d.Validate())
}

func TestPropertySet_UnmarshalYAML_BuildsVariants(t *testing.T) {
	var d inventory.ItemDef
	src := `
id: item_javelin
name: Дротик
damage_dice: 1d6
properties:
  versatile: 1d8
  thrown: {normal: 30, max: 120}
  finesse: true
  heavy: false
`
	require.NoError(t, yaml.Unmarshal([]byte(src), &d))
	require.Len(t, d.Properties, 3)
	assert.Equal(t, inventory.Flag{Of: inventory.PropFinesse}, d.Properties[0])
	assert.Equal(t, inventory.Range{Of: inventory.PropThrown, Normal: 30, Max: 120}, d.Properties[1])
	assert.Equal(t, inventory.Versatile{Dice: "1d8"}, d.Properties[2])
	assert.False(t, d.Properties.Has(inventory.PropHeavy), "false flags must be dropped")
}

func TestPropertySet_UnmarshalYAML_RejectsUnknownKind(t *testing.T) {
	var d inventory.ItemDef
	err := yaml.Unmarshal([]byte("id: x\nname: X\nproperties:\n  glowing: true\n"), &d)
	assert.Error(t, err)
}

func TestPropertySet_JSON_MappingForm(t *testing.T) {
	var set inventory.PropertySet
	require.NoError(t, json.Unmarshal([]byte(`{"twoHanded":true,"ammunition":{"normal":80,"max":320},"versatile":null}`), &set))
	require.Len(t, set, 2)
	assert.Equal(t, inventory.Range{Of: inventory.PropAmmunition, Normal: 80, Max: 320}, set[0])
	assert.Equal(t, inventory.Flag{Of: inventory.PropTwoHanded}, set[1])

	out, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(t, `{"twoHanded":true,"ammunition":{"normal":80,"max":320}}`, string(out))
}

func TestPropertyName_FallsBackToKind(t *testing.T) {
	assert.Equal(t, "Фехтовальное", inventory.PropertyName(inventory.PropFinesse))
	assert.Equal(t, "mystery", inventory.PropertyName("mystery"))
}

func TestLoadItems_ReadsListInOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
items:
  - id: item_rope
    name: Верёвка
    cost: 1
  - id: item_dagger
    name: Кинжал
    cost: 1
    weight: 1
    compatible_slots: [mainHand, offHand]
    damage_dice: 1d4
    properties: {finesse: true, light: true}
`), 0o644))

	items, err := inventory.LoadItems(path)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "item_rope", items[0].ID)
	assert.Nil(t, items[0].Weight)
	assert.Equal(t, 1.0, *items[1].Weight)
	assert.True(t, items[1].FitsSlot(inventory.SlotOffHand))
	assert.False(t, items[1].FitsSlot(inventory.SlotHead))
}

func TestLoadItems_RejectsReservedCustomPrefix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items:\n  - id: custom-1\n    name: X\n"), 0o644))
	_, err := inventory.LoadItems(path)
	assert.Error(t, err)
}

func TestLoadItems_MissingFile(t *testing.T) {
	_, err := inventory.LoadItems(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
