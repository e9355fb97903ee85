package character

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/gusheet/internal/game/rules"
)

const (
	longRestHours        = 8
	shortRestHours       = 1
	longRestCooldown     = 16
	maxExhaustion        = 6
	exhaustionBaseDC     = 10
	exhaustionDCPerDay   = 5
	hitDiceRecoverNormal = 2
	hitDiceRecoverArmor  = 4
)

// ExhaustionSave records one constitution save against exhaustion.
type ExhaustionSave struct {
	Roll   int
	Bonus  int
	DC     int
	Failed bool
}

// Total returns the save result.
func (x ExhaustionSave) Total() int { return x.Roll + x.Bonus }

// TimeReport describes what happened while time passed.
type TimeReport struct {
	Hours         int
	EssenceGained float64
	// Save is nil when no exhaustion check was due.
	Save *ExhaustionSave
}

// HealReport describes hit dice spent for healing.
type HealReport struct {
	Rolls  []int
	Healed int
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PassTime advances the clock. Essence regenerates at specificMax/recovery
// per hour, capped at the specific maximum. When a day has passed since both
// the last exhaustion check and the last long rest, a constitution save is
// rolled against DC 10, plus 5 for every further day without rest; a failure
// adds one level of exhaustion.
//
// Precondition: hours > 0; otherwise the call is refused.
func (e *Engine) PassTime(s State, hours int) (State, TimeReport, error) {
	if hours <= 0 {
		st, err := e.refused("PassTime", s, refuse("количество часов должно быть положительным, получено %d", hours))
		return st, TimeReport{}, err
	}
	out := s.Clone()
	report := TimeReport{Hours: hours}
	res := &out.Resources
	next := res.GameTimeHours + hours

	if g, ok := e.Catalog.Grade(out.Aperture.GradeID); ok && g.RecoveryTimeHours > 0 && out.Aperture.SpecificMaxEssence > 0 {
		maxEss := out.Aperture.SpecificMaxEssence
		regen := maxEss / float64(g.RecoveryTimeHours) * float64(hours)
		before := out.Aperture.Essence
		out.Aperture.Essence = max(0, min(maxEss, round2(before+regen)))
		report.EssenceGained = round2(out.Aperture.Essence - before)
	}

	if next-res.LastExhaustionCheck >= rules.HoursPerDay && next-res.LastLongRestEnd >= rules.HoursPerDay {
		final := FinalAttributes(out.Base, e.race(out))
		save := ExhaustionSave{Bonus: rules.Modifier(final.Constitution)}
		if ConSaveProficient(out) {
			save.Bonus += out.ProficiencyBonus()
		}
		periods := (next - res.LastLongRestEnd) / rules.HoursPerDay
		save.DC = exhaustionBaseDC + exhaustionDCPerDay*max(0, periods-1)
		save.Roll = e.Roller.D20()
		if save.Total() < save.DC {
			save.Failed = true
			res.ExhaustionLevel = min(maxExhaustion, res.ExhaustionLevel+1)
		}
		res.LastExhaustionCheck = next
		report.Save = &save
		e.Logger.Debug("exhaustion save",
			zap.Int("roll", save.Roll),
			zap.Int("bonus", save.Bonus),
			zap.Int("dc", save.DC),
			zap.Bool("failed", save.Failed),
		)
	}
	res.GameTimeHours = next
	e.Logger.Debug("time passed", zap.String("op", "PassTime"), zap.Int("hours", hours), zap.Int("clock", next))
	return out, report, nil
}

// ShortRest passes one hour.
func (e *Engine) ShortRest(s State) (State, TimeReport, error) {
	return e.PassTime(s, shortRestHours)
}

// LongRest passes eight hours, then restores hit points to the maximum,
// recovers half the hit dice (a quarter when sleeping in medium or heavy
// armor, at least one) and removes one level of exhaustion unless the armor
// hindered sleep. Refused within 16 hours of the previous long rest's end
// and at 0 hit points.
func (e *Engine) LongRest(s State) (State, TimeReport, error) {
	const op = "LongRest"
	res := s.Resources
	if res.LastLongRestEnd != 0 && res.GameTimeHours < res.LastLongRestEnd+longRestCooldown {
		st, err := e.refused(op, s, refuse("Вы не можете получить преимущества от еще одного продолжительного отдыха так скоро."))
		return st, TimeReport{}, err
	}
	if res.CurrentHP < 1 {
		st, err := e.refused(op, s, refuse("У персонажа должен быть хотя бы 1 хит для получения преимуществ от продолжительного отдыха."))
		return st, TimeReport{}, err
	}

	out, report, err := e.PassTime(s, longRestHours)
	if err != nil {
		return s, TimeReport{}, err
	}
	r := &out.Resources
	r.CurrentHP = out.Derived.MaxHP

	divisor := hitDiceRecoverNormal
	if r.SleepArmor.Hinders() {
		divisor = hitDiceRecoverArmor
	}
	recovered := max(1, out.Derived.MaxHitDice/divisor)
	r.CurrentHitDice = min(out.Derived.MaxHitDice, r.CurrentHitDice+recovered)
	if !r.SleepArmor.Hinders() {
		r.ExhaustionLevel = max(0, r.ExhaustionLevel-1)
	}
	r.LastLongRestEnd = res.GameTimeHours + longRestHours
	r.LastExhaustionCheck = res.GameTimeHours + longRestHours
	e.Logger.Debug("long rest", zap.String("op", op), zap.Int("hit_dice", r.CurrentHitDice), zap.Int("exhaustion", r.ExhaustionLevel))
	return out, report, nil
}

// SpendHitDice rolls n hit dice and heals the total of each roll plus the
// constitution modifier, each die healing at least 0. It does nothing when n
// is not positive, exceeds the dice available, or hit points are already full.
func (e *Engine) SpendHitDice(s State, n int) (State, HealReport) {
	res := s.Resources
	if n <= 0 || n > res.CurrentHitDice || res.CurrentHP >= s.Derived.MaxHP {
		return s, HealReport{}
	}
	conMod := rules.Modifier(FinalAttributes(s.Base, e.race(s)).Constitution)
	roll := e.Roller.RollDice(n, res.HitDieType)

	report := HealReport{Rolls: roll.Dice}
	for _, d := range roll.Dice {
		report.Healed += max(0, d+conMod)
	}
	out := s.Clone()
	out.Resources.CurrentHP = min(out.Derived.MaxHP, res.CurrentHP+report.Healed)
	out.Resources.CurrentHitDice -= n
	e.Logger.Debug("hit dice spent", zap.String("op", "SpendHitDice"), zap.Int("dice", n), zap.Int("healed", report.Healed))
	return out, report
}
