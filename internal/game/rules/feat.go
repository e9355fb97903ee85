package rules

import (
	"errors"
	"fmt"
)

// Requirement bounds one final attribute score. Nil bounds are open.
type Requirement struct {
	Attribute Attribute `yaml:"attribute"`
	Min       *int      `yaml:"min"`
	Max       *int      `yaml:"max"`
}

// Satisfied reports whether the score of r.Attribute in final lies within the bounds.
func (r Requirement) Satisfied(final Attributes) bool {
	v := final.Get(r.Attribute)
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// Feat is a beneficial feat or a flaw.
//
// Feats with requirements activate automatically when every requirement is
// met. Flaws without requirements are opted into manually and grant
// Adjustment modification points.
type Feat struct {
	ID           string        `yaml:"id"`
	Name         string        `yaml:"name"`
	Description  string        `yaml:"description"`
	Requirements []Requirement `yaml:"requirements"`
	Adjustment   int           `yaml:"adjustment"`
	IsFlaw       bool          `yaml:"is_flaw"`
}

// Satisfied reports whether the feat has requirements and final meets all of them.
func (f *Feat) Satisfied(final Attributes) bool {
	if len(f.Requirements) == 0 {
		return false
	}
	for _, r := range f.Requirements {
		if !r.Satisfied(final) {
			return false
		}
	}
	return true
}

// Manual reports whether the feat is a flaw the player must opt into.
func (f *Feat) Manual() bool {
	return f.IsFlaw && len(f.Requirements) == 0
}

// Validate checks the Feat invariants.
func (f *Feat) Validate() error {
	var errs []error
	if f.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if f.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	for i, r := range f.Requirements {
		if !ValidAttribute(r.Attribute) {
			errs = append(errs, fmt.Errorf("requirement %d: unknown attribute %q", i, r.Attribute))
		}
		if r.Min == nil && r.Max == nil {
			errs = append(errs, fmt.Errorf("requirement %d: needs min or max", i))
		}
		if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			errs = append(errs, fmt.Errorf("requirement %d: min %d exceeds max %d", i, *r.Min, *r.Max))
		}
	}
	if !f.IsFlaw && len(f.Requirements) == 0 {
		errs = append(errs, errors.New("beneficial feats must declare requirements"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("feat validation failed: %v", errs)
	}
	return nil
}

func (f *Feat) key() string { return f.ID }
