package character

import (
	"slices"

	"github.com/cory-johannsen/gusheet/internal/game/rules"
)

// ActiveFeats returns the feats whose requirements final satisfies:
// beneficial feats first, then flaws, each group in catalog order. Feats
// without requirements are never active on their own.
func ActiveFeats(final rules.Attributes, feats []*rules.Feat) []*rules.Feat {
	var beneficial, flaws []*rules.Feat
	for _, f := range feats {
		if !f.Satisfied(final) {
			continue
		}
		if f.IsFlaw {
			flaws = append(flaws, f)
		} else {
			beneficial = append(beneficial, f)
		}
	}
	return append(beneficial, flaws...)
}

// EffectiveFeats returns the active feats followed by the manually selected
// flaws, without duplicates.
func (e *Engine) EffectiveFeats(s State) []*rules.Feat {
	out := ActiveFeats(FinalAttributes(s.Base, e.race(s)), e.Catalog.Feats())
	for _, id := range s.FlawIDs {
		f, ok := e.Catalog.Feat(id)
		if !ok || slices.Contains(out, f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// ModificationPoints returns the modification-point balance: the initial
// grant, plus one per base point below the baseline and the bonus of each
// selected flaw, minus the cost of traits, starting items and madness.
//
// Postcondition: the result may be negative; that only blocks saving.
func (e *Engine) ModificationPoints(s State) int {
	mp := e.Rules.InitialModificationPoints
	for _, a := range rules.AllAttributes {
		mp += max(0, e.Rules.BaseScore-s.Base.Get(a))
	}
	for _, id := range s.TraitIDs {
		if t, ok := e.Catalog.Trait(id); ok {
			mp -= t.Cost
		}
	}
	for _, id := range s.ItemIDs {
		if it, ok := e.Catalog.Item(id); ok {
			mp -= it.Cost
		}
	}
	if m, ok := e.Catalog.Madness(s.MadnessID); ok {
		mp -= m.Adjustment
	}
	for _, id := range s.FlawIDs {
		if f, ok := e.Catalog.Feat(id); ok && f.Adjustment > 0 {
			mp += f.Adjustment
		}
	}
	return mp
}

// ConSaveProficient reports whether constitution saves add the proficiency bonus.
func ConSaveProficient(s State) bool {
	return s.HasTrait(rules.TraitResilientCon)
}
