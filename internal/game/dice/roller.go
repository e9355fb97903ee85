package dice

import (
	"slices"
)

// Roll evaluates expr with src.
//
// Precondition: expr came from Parse; src must be non-nil.
// Postcondition: len(result.Dice) is expr.KeepHighest when set, expr.Count
// otherwise; kept dice are listed highest first.
func Roll(expr Expression, src Source) (RollResult, error) {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}
	if expr.KeepHighest > 0 {
		slices.SortFunc(rolled, func(a, b int) int { return b - a })
		rolled = rolled[:expr.KeepHighest]
	}
	raw := expr.Raw
	if raw == "" {
		raw = expr.String()
	}
	return RollResult{Expression: raw, Dice: rolled, Modifier: expr.Modifier}, nil
}
