package savefile

import (
	"github.com/cory-johannsen/gusheet/internal/game/inventory"
	"github.com/cory-johannsen/gusheet/internal/game/rules"
)

type attributesRecord struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

func toAttributesRecord(a rules.Attributes) attributesRecord {
	return attributesRecord{
		Strength:     a.Strength,
		Dexterity:    a.Dexterity,
		Constitution: a.Constitution,
		Intelligence: a.Intelligence,
		Wisdom:       a.Wisdom,
		Charisma:     a.Charisma,
	}
}

func (r attributesRecord) attributes() rules.Attributes {
	return rules.Attributes{
		Strength:     r.Strength,
		Dexterity:    r.Dexterity,
		Constitution: r.Constitution,
		Intelligence: r.Intelligence,
		Wisdom:       r.Wisdom,
		Charisma:     r.Charisma,
	}
}

type instanceRecord struct {
	InstanceID string `json:"instanceId"`
	ItemID     string `json:"itemId"`
}

// customItemRecord keeps the original starting-item keys and adds the
// weapon and armor fields as optional extras.
type customItemRecord struct {
	ID                    string                `json:"id"`
	Name                  string                `json:"name"`
	Description           string                `json:"description"`
	ModificationPointCost int                   `json:"modificationPointCost"`
	CompatibleSlots       []inventory.SlotID    `json:"compatibleSlots,omitempty"`
	Weight                *float64              `json:"weight,omitempty"`
	DamageDice            string                `json:"damageDice,omitempty"`
	DamageType            string                `json:"damageType,omitempty"`
	Properties            inventory.PropertySet `json:"properties,omitempty"`
	ArmorType             inventory.ArmorType   `json:"armorType,omitempty"`
	BaseArmorClass        int                   `json:"baseArmorClass,omitempty"`
}

func toCustomItemRecord(d *inventory.ItemDef) customItemRecord {
	return customItemRecord{
		ID:                    d.ID,
		Name:                  d.Name,
		Description:           d.Description,
		ModificationPointCost: d.Cost,
		CompatibleSlots:       d.CompatibleSlots,
		Weight:                d.Weight,
		DamageDice:            d.DamageDice,
		DamageType:            d.DamageType,
		Properties:            d.Properties,
		ArmorType:             d.ArmorType,
		BaseArmorClass:        d.BaseArmorClass,
	}
}

func (r customItemRecord) def() *inventory.ItemDef {
	return &inventory.ItemDef{
		ID:              r.ID,
		Name:            r.Name,
		Description:     r.Description,
		Cost:            r.ModificationPointCost,
		CompatibleSlots: r.CompatibleSlots,
		Weight:          r.Weight,
		DamageDice:      r.DamageDice,
		DamageType:      r.DamageType,
		Properties:      r.Properties,
		ArmorType:       r.ArmorType,
		BaseArmorClass:  r.BaseArmorClass,
	}
}

// record is the persisted character. Pointer fields distinguish a missing
// key from a zero value.
type record struct {
	Name                     string                     `json:"name"`
	Level                    int                        `json:"level"`
	BaseAttributes           *attributesRecord          `json:"baseAttributes"`
	AttributeBuyPoints       int                        `json:"attributeBuyPoints"`
	ModificationPoints       int                        `json:"modificationPoints"`
	SelectedRaceID           string                     `json:"selectedRaceId,omitempty"`
	Height                   string                     `json:"height,omitempty"`
	Weight                   string                     `json:"weight,omitempty"`
	EyeColor                 string                     `json:"eyeColor,omitempty"`
	HairColor                string                     `json:"hairColor,omitempty"`
	Age                      string                     `json:"age,omitempty"`
	ManualBackstory          string                     `json:"manualBackstory,omitempty"`
	SelectedTraitIDs         *[]string                  `json:"selectedTraitIds"`
	SelectedItemIDs          []string                   `json:"selectedItemIds"`
	SelectedSkillIDs         []string                   `json:"selectedSkillIds"`
	SelectedFlawFeatIDs      []string                   `json:"selectedFlawFeatIds"`
	MadnessEffectID          string                     `json:"madnessEffectId,omitempty"`
	Backstory                string                     `json:"backstory,omitempty"`
	ApertureGradeID          string                     `json:"apertureGradeId,omitempty"`
	CharacterRankID          string                     `json:"characterRankId,omitempty"`
	SelectedEssenceStageID   string                     `json:"selectedEssenceStageId,omitempty"`
	CurrentEssencePercentage *float64                   `json:"currentEssencePercentage,omitempty"`
	SpecificMaxEssence       *float64                   `json:"specificMaxEssence,omitempty"`
	CurrentHP                int                        `json:"currentHp"`
	HitDieType               int                        `json:"hitDieType"`
	CurrentHitDice           int                        `json:"currentHitDice"`
	GameTimeHours            int                        `json:"gameTimeHours"`
	LastLongRestEndTime      int                        `json:"lastLongRestEndTime"`
	LastExhaustionCheckTime  int                        `json:"lastExhaustionCheckTime"`
	ExhaustionLevel          int                        `json:"exhaustionLevel"`
	ArmorTypeWornForSleep    string                     `json:"armorTypeWornForSleep"`
	ManualMaxHPModifier      int                        `json:"manualMaxHpModifier"`
	ManualACModifier         int                        `json:"manualAcModifier"`
	Equipment                map[string]*instanceRecord `json:"equipment"`
	Backpack                 []instanceRecord           `json:"backpack"`
	CustomItems              []customItemRecord         `json:"customItems"`
}

func toInstanceRecord(it inventory.ItemInstance) instanceRecord {
	return instanceRecord{InstanceID: it.InstanceID, ItemID: it.ItemDefID}
}

func (r instanceRecord) instance() inventory.ItemInstance {
	return inventory.ItemInstance{InstanceID: r.InstanceID, ItemDefID: r.ItemID}
}
