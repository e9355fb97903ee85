package rules

import (
	"errors"
	"fmt"
)

// Rules carries the numeric constants of character creation.
//
// PointBuyCost[i] is the cumulative buy-point cost of score BaseScore+i, so
// PointBuyCost[0] must be 0 and the last entry prices MaxBuyScore.
type Rules struct {
	BaseScore                 int
	MinScore                  int
	MaxBuyScore               int
	BuyPoints                 int
	PointBuyCost              []int
	InitialModificationPoints int
	MaxSkillProficiencies     int
	BaseArmorClass            int
	DefaultHitDie             int
	HitDice                   []int
}

// Default returns the standard rule constants.
func Default() Rules {
	return Rules{
		BaseScore:                 8,
		MinScore:                  7,
		MaxBuyScore:               15,
		BuyPoints:                 27,
		PointBuyCost:              []int{0, 1, 2, 3, 4, 5, 7, 9},
		InitialModificationPoints: 0,
		MaxSkillProficiencies:     3,
		BaseArmorClass:            10,
		DefaultHitDie:             8,
		HitDice:                   []int{4, 6, 8, 10, 12},
	}
}

// BuyCost returns the cumulative point-buy cost of score.
//
// Postcondition: ok is false when score lies outside [BaseScore, MaxBuyScore].
func (r Rules) BuyCost(score int) (cost int, ok bool) {
	i := score - r.BaseScore
	if i < 0 || i >= len(r.PointBuyCost) {
		return 0, false
	}
	return r.PointBuyCost[i], true
}

// ValidHitDie reports whether faces is an allowed hit-die size.
func (r Rules) ValidHitDie(faces int) bool {
	for _, f := range r.HitDice {
		if f == faces {
			return true
		}
	}
	return false
}

// Validate checks the internal consistency of r.
//
// Postcondition: returns nil iff every constraint holds; otherwise all
// violations are joined in one error.
func (r Rules) Validate() error {
	var errs []error
	if r.MinScore > r.BaseScore {
		errs = append(errs, fmt.Errorf("MinScore %d must not exceed BaseScore %d", r.MinScore, r.BaseScore))
	}
	if r.MaxBuyScore < r.BaseScore {
		errs = append(errs, fmt.Errorf("MaxBuyScore %d must be >= BaseScore %d", r.MaxBuyScore, r.BaseScore))
	}
	if want := r.MaxBuyScore - r.BaseScore + 1; len(r.PointBuyCost) != want {
		errs = append(errs, fmt.Errorf("PointBuyCost must have %d entries, got %d", want, len(r.PointBuyCost)))
	}
	for i, c := range r.PointBuyCost {
		if i == 0 && c != 0 {
			errs = append(errs, errors.New("PointBuyCost[0] must be 0"))
		}
		if i > 0 && c < r.PointBuyCost[i-1] {
			errs = append(errs, fmt.Errorf("PointBuyCost must be non-decreasing at index %d", i))
		}
	}
	if r.BuyPoints < 0 {
		errs = append(errs, fmt.Errorf("BuyPoints must be >= 0, got %d", r.BuyPoints))
	}
	if r.MaxSkillProficiencies < 0 {
		errs = append(errs, fmt.Errorf("MaxSkillProficiencies must be >= 0, got %d", r.MaxSkillProficiencies))
	}
	if len(r.HitDice) == 0 {
		errs = append(errs, errors.New("HitDice must not be empty"))
	}
	for _, f := range r.HitDice {
		if f < 2 {
			errs = append(errs, fmt.Errorf("hit die d%d has fewer than 2 faces", f))
		}
	}
	if !r.ValidHitDie(r.DefaultHitDie) {
		errs = append(errs, fmt.Errorf("DefaultHitDie d%d is not among HitDice", r.DefaultHitDie))
	}
	if len(errs) > 0 {
		return fmt.Errorf("rules validation failed: %v", errs)
	}
	return nil
}
