package inventory

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/gusheet/internal/game/dice"
)

// CustomIDPrefix marks item definitions created by the player at runtime.
const CustomIDPrefix = "custom-"

// IsCustomID reports whether id names a player-created item definition.
func IsCustomID(id string) bool {
	return strings.HasPrefix(id, CustomIDPrefix)
}

// ItemDef defines the static properties of an item. Starting items are loaded
// from YAML; custom items are created by the player and persisted in the save.
// Weight is nil when the item has no known weight; such items are ignored by
// carrying-weight totals.
type ItemDef struct {
	ID              string      `yaml:"id"`
	Name            string      `yaml:"name"`
	Description     string      `yaml:"description"`
	Cost            int         `yaml:"cost"`
	CompatibleSlots []SlotID    `yaml:"compatible_slots"`
	Weight          *float64    `yaml:"weight"`
	Rarity          string      `yaml:"rarity"`
	DamageDice      string      `yaml:"damage_dice"`
	DamageType      string      `yaml:"damage_type"`
	Properties      PropertySet `yaml:"properties"`
	ArmorType       ArmorType   `yaml:"armor_type"`
	BaseArmorClass  int         `yaml:"base_armor_class"`
}

// IsWeapon reports whether the item defines damage dice.
func (d *ItemDef) IsWeapon() bool {
	return d.DamageDice != ""
}

// IsTwoHanded reports whether the item carries the two-handed property.
func (d *ItemDef) IsTwoHanded() bool {
	return d.Properties.Has(PropTwoHanded)
}

// FitsSlot reports whether the item may be equipped in slot.
//
// Postcondition: returns false for every slot when CompatibleSlots is empty.
func (d *ItemDef) FitsSlot(slot SlotID) bool {
	for _, s := range d.CompatibleSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// Validate checks that the ItemDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if d.Cost < 0 {
		errs = append(errs, fmt.Errorf("Cost must be >= 0, got %d", d.Cost))
	}
	if d.Weight != nil && *d.Weight < 0 {
		errs = append(errs, errors.New("Weight must be >= 0"))
	}
	for _, s := range d.CompatibleSlots {
		if !ValidSlot(s) {
			errs = append(errs, fmt.Errorf("unknown compatible slot %q", s))
		}
	}
	if d.DamageDice != "" {
		if _, err := dice.Parse(d.DamageDice); err != nil {
			errs = append(errs, fmt.Errorf("DamageDice: %w", err))
		}
	}
	if d.ArmorType != "" && !ValidArmorType(d.ArmorType) {
		errs = append(errs, fmt.Errorf("ArmorType must be one of light, medium, heavy; got %q", d.ArmorType))
	}
	if d.BaseArmorClass < 0 {
		errs = append(errs, errors.New("BaseArmorClass must be >= 0"))
	}
	if err := d.Properties.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}

// itemFile is the on-disk layout of an item content file.
type itemFile struct {
	Items []*ItemDef `yaml:"items"`
}

// LoadItems reads the item content file at path, validates every entry, and
// returns them in file order.
//
// Precondition: path names a readable YAML file.
// Postcondition: returns all valid ItemDefs or the first encountered error.
func LoadItems(path string) ([]*ItemDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadItems: cannot read file %q: %w", path, err)
	}
	var f itemFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("LoadItems: cannot parse file %q: %w", path, err)
	}
	for _, d := range f.Items {
		if IsCustomID(d.ID) {
			return nil, fmt.Errorf("LoadItems: item %q in %q uses the reserved %q prefix", d.ID, path, CustomIDPrefix)
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("LoadItems: invalid item %q in %q: %w", d.ID, path, err)
		}
	}
	return f.Items, nil
}
