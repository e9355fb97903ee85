package rules

import (
	"errors"
	"fmt"
)

// Skill is a trainable skill keyed off one attribute.
type Skill struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Attribute   Attribute `yaml:"attribute"`
}

// Validate checks the Skill invariants.
func (s *Skill) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if s.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !ValidAttribute(s.Attribute) {
		errs = append(errs, fmt.Errorf("unknown attribute %q", s.Attribute))
	}
	if len(errs) > 0 {
		return fmt.Errorf("skill validation failed: %v", errs)
	}
	return nil
}

func (s *Skill) key() string { return s.ID }
