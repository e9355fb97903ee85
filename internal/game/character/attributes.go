package character

import (
	"slices"
	"sort"

	"go.uber.org/zap"

	"github.com/cory-johannsen/gusheet/internal/game/rules"
)

// FinalAttributes applies racial modifiers to the base scores.
//
// Precondition: race may be nil.
func FinalAttributes(base rules.Attributes, race *rules.Race) rules.Attributes {
	if race == nil {
		return base
	}
	return base.Plus(race.AttributeModifiers)
}

type scored struct {
	attr  rules.Attribute
	score int
}

// TopAttributesForSkillSelection returns the attributes eligible for the
// first two skill picks: every attribute scoring at least the second-highest
// score. When that yields exactly two attributes and one is constitution,
// constitution is replaced by walking the ranking without it; the result may
// then hold fewer than two attributes.
func TopAttributesForSkillSelection(final rules.Attributes) []rules.Attribute {
	ranked := make([]scored, len(rules.AllAttributes))
	for i, a := range rules.AllAttributes {
		ranked[i] = scored{attr: a, score: final.Get(a)}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	cutoff := ranked[min(1, len(ranked)-1)].score
	var top []rules.Attribute
	for _, r := range ranked {
		if r.score >= cutoff {
			top = append(top, r.attr)
		}
	}
	if len(top) != 2 || !slices.Contains(top, rules.Constitution) {
		return top
	}

	var out []rules.Attribute
	secondScore := 0
	for _, r := range ranked {
		if r.attr == rules.Constitution {
			continue
		}
		switch {
		case len(out) < 2:
			out = append(out, r.attr)
			secondScore = r.score
		case r.score == secondScore:
			out = append(out, r.attr)
		}
	}
	return out
}

// SameAttributeSet reports whether a and b hold the same attributes in any order.
func SameAttributeSet(a, b []rules.Attribute) bool {
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		if !slices.Contains(b, x) {
			return false
		}
	}
	for _, x := range b {
		if !slices.Contains(a, x) {
			return false
		}
	}
	return true
}

// OnAttributesChanged refreshes skill eligibility from the final attributes
// cached in s.Derived. A changed eligible set clears the selected skills.
func (e *Engine) OnAttributesChanged(s State) State {
	eligible := TopAttributesForSkillSelection(s.Derived.Final)
	if SameAttributeSet(eligible, s.EligibleAttributes) {
		return s
	}
	out := s.Clone()
	if len(out.SkillIDs) > 0 {
		e.Logger.Debug("skill eligibility changed; clearing skills",
			zap.Strings("skills", out.SkillIDs))
	}
	out.SkillIDs = nil
	out.EligibleAttributes = eligible
	return out
}

// IncreaseAttribute raises a base score by one. Below the baseline the step
// is free and costs a modification point; from the baseline up to the
// maximum it spends buy points at the point-buy price.
func (e *Engine) IncreaseAttribute(s State, attr rules.Attribute) (State, error) {
	const op = "IncreaseAttribute"
	if !rules.ValidAttribute(attr) {
		return e.refused(op, s, refuse("неизвестная характеристика %q", attr))
	}
	v := s.Base.Get(attr)
	out := s.Clone()
	if v < e.Rules.BaseScore {
		out.Base = out.Base.With(attr, v+1)
		return e.Recompute(out), nil
	}
	if v >= e.Rules.MaxBuyScore {
		return e.refused(op, s, refuse("%s уже на максимуме (%d).", rules.AttributeName(attr), e.Rules.MaxBuyScore))
	}
	cur, _ := e.Rules.BuyCost(v)
	next, _ := e.Rules.BuyCost(v + 1)
	step := next - cur
	if step > s.BuyPoints {
		return e.refused(op, s, refuse("Недостаточно очков характеристик: нужно %d, осталось %d.", step, s.BuyPoints))
	}
	out.BuyPoints -= step
	out.Base = out.Base.With(attr, v+1)
	e.Logger.Debug("attribute increased", zap.String("op", op), zap.String("attribute", string(attr)), zap.Int("score", v+1))
	return e.Recompute(out), nil
}

// DecreaseAttribute lowers a base score by one. Above the baseline it refunds
// the point-buy price of the step; at or below the baseline it grants a
// modification point, down to the minimum score.
func (e *Engine) DecreaseAttribute(s State, attr rules.Attribute) (State, error) {
	const op = "DecreaseAttribute"
	if !rules.ValidAttribute(attr) {
		return e.refused(op, s, refuse("неизвестная характеристика %q", attr))
	}
	v := s.Base.Get(attr)
	if v <= e.Rules.MinScore {
		return e.refused(op, s, refuse("%s уже на минимуме (%d).", rules.AttributeName(attr), e.Rules.MinScore))
	}
	out := s.Clone()
	if v > e.Rules.BaseScore {
		cur, _ := e.Rules.BuyCost(v)
		prev, _ := e.Rules.BuyCost(v - 1)
		out.BuyPoints += cur - prev
	}
	out.Base = out.Base.With(attr, v-1)
	e.Logger.Debug("attribute decreased", zap.String("op", op), zap.String("attribute", string(attr)), zap.Int("score", v-1))
	return e.Recompute(out), nil
}
