package character

import (
	"slices"

	"go.uber.org/zap"

	"github.com/cory-johannsen/gusheet/internal/game/rules"
)

// Bonuses applied by specific traits and feats to maximum hit points.
const (
	toughTraitHP        = 2
	toughUpgradeHPLevel = 2
)

// HPInput carries everything MaxHP depends on.
type HPInput struct {
	Level        int
	HitDie       int
	Constitution int
	Tough        bool
	ToughUpgrade bool
	Manual       int
}

// MaxHP computes maximum hit points: the full hit die at level 1 and the
// rounded-up average at each later level, each adding the constitution
// modifier.
//
// Precondition: Level >= 1 and HitDie >= 2.
// Postcondition: result >= Level.
func MaxHP(in HPInput) int {
	conMod := rules.Modifier(in.Constitution)
	hp := max(1, in.HitDie+conMod)
	for l := 2; l <= in.Level; l++ {
		hp += in.HitDie/2 + 1 + conMod
	}
	if in.Tough {
		hp += toughTraitHP
	}
	if in.ToughUpgrade {
		hp += toughUpgradeHPLevel * in.Level
	}
	hp += in.Manual
	return max(in.Level, hp)
}

func (e *Engine) hpInput(s State) HPInput {
	return HPInput{
		Level:        s.Level,
		HitDie:       s.Resources.HitDieType,
		Constitution: FinalAttributes(s.Base, e.race(s)).Constitution,
		Tough:        s.HasTrait(rules.TraitTough),
		ToughUpgrade: slices.Contains(e.EffectiveFeatIDs(s), rules.FeatToughUpgrade),
		Manual:       s.Resources.ManualMaxHPModifier,
	}
}

// Damage lowers current hit points by n, not below 0. Non-positive n is a no-op.
func (e *Engine) Damage(s State, n int) State {
	if n <= 0 {
		return s
	}
	out := s.Clone()
	out.Resources.CurrentHP = max(0, out.Resources.CurrentHP-n)
	e.Logger.Debug("damage taken", zap.String("op", "Damage"), zap.Int("amount", n), zap.Int("hp", out.Resources.CurrentHP))
	return out
}

// Heal raises current hit points by n, not above the maximum. Non-positive n
// is a no-op.
func (e *Engine) Heal(s State, n int) State {
	if n <= 0 {
		return s
	}
	out := s.Clone()
	out.Resources.CurrentHP = min(out.Derived.MaxHP, out.Resources.CurrentHP+n)
	e.Logger.Debug("healed", zap.String("op", "Heal"), zap.Int("amount", n), zap.Int("hp", out.Resources.CurrentHP))
	return out
}
