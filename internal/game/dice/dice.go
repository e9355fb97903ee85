// Package dice rolls the saving throws, hit dice and house-rule expressions
// of the character sheet through a pluggable randomness Source.
package dice

import (
	"fmt"
	"strings"
)

// RollResult records one evaluated roll.
//
// Invariant: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string
	Dice       []int
	Modifier   int
}

// Total returns the dice sum plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String renders the roll for reports, e.g. "2d6+3: 4 + 5 + 3 = 12".
//
// Precondition: Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String called without an expression")
	}
	terms := make([]string, len(r.Dice))
	for i, d := range r.Dice {
		terms[i] = fmt.Sprint(d)
	}
	sum := strings.Join(terms, " + ")
	if sum == "" {
		sum = "0"
	}
	switch {
	case r.Modifier > 0:
		sum += fmt.Sprintf(" + %d", r.Modifier)
	case r.Modifier < 0:
		sum += fmt.Sprintf(" - %d", -r.Modifier)
	}
	return fmt.Sprintf("%s: %s = %d", r.Expression, sum, r.Total())
}

// Source supplies uniform random integers.
//
// Implementations must be safe for concurrent use.
type Source interface {
	// Intn returns a value in [0, n). Precondition: n > 0.
	Intn(n int) int
}
