package rules

import (
	"errors"
	"fmt"
)

// Trait is a purchasable advantage paid for with modification points.
type Trait struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Cost        int    `yaml:"cost"`
}

// Validate checks the Trait invariants.
func (t *Trait) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if t.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("trait validation failed: %v", errs)
	}
	return nil
}

func (t *Trait) key() string { return t.ID }

// MadnessKind classifies how long a madness effect lasts.
type MadnessKind string

const (
	MadnessShortTerm  MadnessKind = "short-term"
	MadnessLongTerm   MadnessKind = "long-term"
	MadnessIndefinite MadnessKind = "indefinite"
)

// MadnessEffect is an optional affliction. Adjustment is subtracted from the
// modification-point pool, so a negative adjustment grants points.
type MadnessEffect struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Kind        MadnessKind `yaml:"kind"`
	Adjustment  int         `yaml:"adjustment"`
}

// Validate checks the MadnessEffect invariants.
func (m *MadnessEffect) Validate() error {
	var errs []error
	if m.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if m.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	switch m.Kind {
	case MadnessShortTerm, MadnessLongTerm, MadnessIndefinite:
	default:
		errs = append(errs, fmt.Errorf("Kind must be short-term, long-term or indefinite; got %q", m.Kind))
	}
	if len(errs) > 0 {
		return fmt.Errorf("madness validation failed: %v", errs)
	}
	return nil
}

func (m *MadnessEffect) key() string { return m.ID }
