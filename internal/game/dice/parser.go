package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Expression is a parsed dice expression such as a weapon's damage dice.
//
// Invariant: Count >= 1, Sides >= 2 and 0 <= KeepHighest < Count.
type Expression struct {
	Raw         string // input as written
	Count       int
	Sides       int
	Modifier    int
	KeepHighest int // 0 keeps every die
}

// exprPattern matches [count]d<sides>[kh<n>][(+|-)<mod>], case-insensitively.
var exprPattern = regexp.MustCompile(`^(\d*)d(\d+)(?:kh(\d+))?([+-]\d+)?$`)

// Parse parses forms like "d20", "1d6", "2d6+3", "4d8-2" and "4d6kh3".
// Surrounding whitespace is ignored.
//
// Postcondition: Returns an Expression satisfying its invariant or a
// descriptive error.
func Parse(expr string) (Expression, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}
	m := exprPattern.FindStringSubmatch(s)
	if m == nil {
		return Expression{}, fmt.Errorf("dice: malformed expression %q", expr)
	}

	e := Expression{Raw: expr, Count: 1}
	var err error
	if m[1] != "" {
		if e.Count, err = strconv.Atoi(m[1]); err != nil || e.Count < 1 {
			return Expression{}, fmt.Errorf("dice: die count in %q must be >= 1", expr)
		}
	}
	if e.Sides, err = strconv.Atoi(m[2]); err != nil || e.Sides < 2 {
		return Expression{}, fmt.Errorf("dice: die sides in %q must be >= 2", expr)
	}
	if m[3] != "" {
		if e.KeepHighest, err = strconv.Atoi(m[3]); err != nil || e.KeepHighest < 1 || e.KeepHighest >= e.Count {
			return Expression{}, fmt.Errorf("dice: kh in %q must be between 1 and %d", expr, e.Count-1)
		}
	}
	if m[4] != "" {
		if e.Modifier, err = strconv.Atoi(m[4]); err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", expr, err)
		}
	}
	return e, nil
}

// String renders e in canonical form, e.g. "2d6+3".
func (e Expression) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dd%d", e.Count, e.Sides)
	if e.KeepHighest > 0 {
		fmt.Fprintf(&b, "kh%d", e.KeepHighest)
	}
	if e.Modifier != 0 {
		fmt.Fprintf(&b, "%+d", e.Modifier)
	}
	return b.String()
}

// Bounds returns the smallest and largest possible totals.
func (e Expression) Bounds() (lo, hi int) {
	kept := e.Count
	if e.KeepHighest > 0 {
		kept = e.KeepHighest
	}
	return kept + e.Modifier, kept*e.Sides + e.Modifier
}
