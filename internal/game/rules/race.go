package rules

import (
	"errors"
	"fmt"
)

// Race is a playable race.
//
// HitDie of 0 means the ruleset default applies. NoFeet marks races that
// cannot wear anything in the feet slot.
type Race struct {
	ID                 string            `yaml:"id"`
	Name               string            `yaml:"name"`
	Description        string            `yaml:"description"`
	AttributeModifiers map[Attribute]int `yaml:"attribute_modifiers"`
	SkillModifiers     map[string]int    `yaml:"skill_modifiers"`
	SpecialAbilities   []string          `yaml:"special_abilities"`
	TextualEffects     []string          `yaml:"textual_effects"`
	HitDie             int               `yaml:"hit_die"`
	NoFeet             bool              `yaml:"no_feet"`
}

// SkillModifier returns the racial modifier for skillID (0 when absent).
func (r *Race) SkillModifier(skillID string) int {
	if r == nil {
		return 0
	}
	return r.SkillModifiers[skillID]
}

// Validate checks the Race in isolation; skill ids are cross-checked by the Catalog.
func (r *Race) Validate() error {
	var errs []error
	if r.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if r.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	for a := range r.AttributeModifiers {
		if !ValidAttribute(a) {
			errs = append(errs, fmt.Errorf("unknown attribute %q in attribute_modifiers", a))
		}
	}
	if r.HitDie < 0 {
		errs = append(errs, fmt.Errorf("HitDie must be >= 0, got %d", r.HitDie))
	}
	if len(errs) > 0 {
		return fmt.Errorf("race validation failed: %v", errs)
	}
	return nil
}

func (r *Race) key() string { return r.ID }
