// Package character holds the character sheet state and the pure reducers
// that evolve it: point-buy editing, selections, hit points and hit dice,
// time and rest, aperture essence and inventory moves.
//
// State is treated as an immutable value. Every Engine operation returns a
// new State and leaves its input untouched.
package character

import (
	"slices"

	"github.com/cory-johannsen/gusheet/internal/game/inventory"
	"github.com/cory-johannsen/gusheet/internal/game/rules"
)

// SleepArmor is the kind of armor worn during a long rest.
type SleepArmor string

const (
	SleepArmorNone   SleepArmor = "none"
	SleepArmorLight  SleepArmor = "light"
	SleepArmorMedium SleepArmor = "medium"
	SleepArmorHeavy  SleepArmor = "heavy"
)

var sleepArmorNames = map[SleepArmor]string{
	SleepArmorNone:   "Без доспехов / Одежда",
	SleepArmorLight:  "Легкие доспехи",
	SleepArmorMedium: "Средние доспехи",
	SleepArmorHeavy:  "Тяжелые доспехи",
}

// ValidSleepArmor reports whether a is a known sleep armor kind.
func ValidSleepArmor(a SleepArmor) bool {
	_, ok := sleepArmorNames[a]
	return ok
}

// Name returns the display name of a.
func (a SleepArmor) Name() string {
	if n, ok := sleepArmorNames[a]; ok {
		return n
	}
	return string(a)
}

// Hinders reports whether sleeping in a slows hit-dice recovery and blocks
// exhaustion relief.
func (a SleepArmor) Hinders() bool {
	return a == SleepArmorMedium || a == SleepArmorHeavy
}

// Appearance holds free-text descriptive fields.
type Appearance struct {
	Age             string
	Height          string
	Weight          string
	EyeColor        string
	HairColor       string
	ManualBackstory string
}

// Aperture tracks the essence pool. SpecificMaxEssence lies within the
// grade's range and Essence within [0, SpecificMaxEssence].
type Aperture struct {
	GradeID            string
	RankID             string
	StageID            rules.StageID
	SpecificMaxEssence float64
	Essence            float64
}

// Resources is the mutable resource track: hit points, hit dice, the game
// clock and rest bookkeeping.
type Resources struct {
	CurrentHP           int
	HitDieType          int
	CurrentHitDice      int
	GameTimeHours       int
	LastLongRestEnd     int
	LastExhaustionCheck int
	ExhaustionLevel     int
	SleepArmor          SleepArmor
	ManualMaxHPModifier int
	ManualACModifier    int
}

// Derived caches values computed from the inputs. Only Engine.Recompute writes it.
type Derived struct {
	Final              rules.Attributes
	ActiveFeatIDs      []string
	ModificationPoints int
	MaxHP              int
	MaxHitDice         int
	ConSaveProficient  bool
}

// State is one character sheet.
//
// EligibleAttributes is the attribute set that gated the first two skill
// picks; it is an input as well as a derived value, since a change of the
// set clears the skill selection.
type State struct {
	Name        string
	Level       int
	Base        rules.Attributes
	BuyPoints   int
	RaceID      string
	Appearance  Appearance
	TraitIDs    []string
	ItemIDs     []string
	SkillIDs    []string
	FlawIDs     []string
	MadnessID   string
	Backstory   string
	Aperture    Aperture
	Resources   Resources
	Inventory   inventory.Inventory
	CustomItems []*inventory.ItemDef

	EligibleAttributes []rules.Attribute
	Derived            Derived
}

// Clone returns a deep copy of s. Item definitions are shared since they are
// never mutated.
func (s State) Clone() State {
	out := s
	out.TraitIDs = slices.Clone(s.TraitIDs)
	out.ItemIDs = slices.Clone(s.ItemIDs)
	out.SkillIDs = slices.Clone(s.SkillIDs)
	out.FlawIDs = slices.Clone(s.FlawIDs)
	out.CustomItems = slices.Clone(s.CustomItems)
	out.EligibleAttributes = slices.Clone(s.EligibleAttributes)
	out.Derived.ActiveFeatIDs = slices.Clone(s.Derived.ActiveFeatIDs)
	out.Inventory = s.Inventory.Clone()
	return out
}

// ProficiencyBonus returns the bonus for the current level.
func (s State) ProficiencyBonus() int {
	return rules.ProficiencyBonus(s.Level)
}

// HasTrait reports whether trait id is selected.
func (s State) HasTrait(id string) bool { return slices.Contains(s.TraitIDs, id) }

// HasSkill reports whether skill id is selected.
func (s State) HasSkill(id string) bool { return slices.Contains(s.SkillIDs, id) }

// toggle returns ids without id when present, or with id appended otherwise.
func toggle(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(slices.Clone(ids), i, i+1)
	}
	return append(slices.Clone(ids), id)
}
