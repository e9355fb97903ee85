package character

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/gusheet/internal/game/dice"
	"github.com/cory-johannsen/gusheet/internal/game/inventory"
	"github.com/cory-johannsen/gusheet/internal/game/rules"
	"github.com/cory-johannsen/gusheet/internal/scripting"
)

// StartingClock is the game time of a fresh character: 08:00 on day 1.
const StartingClock = 8

// Hooks contributes extra derived-stat lines, typically from house-rule scripts.
type Hooks interface {
	ExtraStats(sheet scripting.SheetInfo) []string
}

// Engine groups the collaborators every character operation needs. Its
// methods never mutate their State argument.
type Engine struct {
	Catalog *rules.Catalog
	Rules   rules.Rules
	Roller  *dice.Roller
	Logger  *zap.Logger
	// Hooks is optional.
	Hooks Hooks
}

// NewEngine creates an Engine.
//
// Precondition: catalog and roller must be non-nil; a nil logger discards logs.
// Postcondition: Returns a non-nil Engine without hooks.
func NewEngine(catalog *rules.Catalog, r rules.Rules, roller *dice.Roller, logger *zap.Logger) *Engine {
	if catalog == nil {
		panic("character: NewEngine requires a non-nil catalog")
	}
	if roller == nil {
		panic("character: NewEngine requires a non-nil roller")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{Catalog: catalog, Rules: r, Roller: roller, Logger: logger}
}

// items resolves catalog items and the character's custom items.
func (e *Engine) items(s State) inventory.ItemLookup {
	return inventory.WithCustom(e.Catalog, s.CustomItems)
}

func (e *Engine) race(s State) *rules.Race {
	r, _ := e.Catalog.Race(s.RaceID)
	return r
}

// refused logs a refused operation and returns s unchanged with err.
func (e *Engine) refused(op string, s State, err error) (State, error) {
	e.Logger.Info("operation refused", zap.String("op", op), zap.Error(err))
	return s, err
}

// New returns a fresh character at level 1 with every attribute at the
// baseline, the default race and the default aperture, at full health.
func (e *Engine) New() State {
	s := State{
		Name:      rules.DefaultName,
		Level:     1,
		Base:      rules.Uniform(e.Rules.BaseScore),
		BuyPoints: e.Rules.BuyPoints,
		RaceID:    rules.DefaultRaceID,
		Aperture: Aperture{
			GradeID: rules.DefaultGradeID,
			RankID:  rules.DefaultRankID,
			StageID: rules.DefaultStageID,
		},
		Resources: Resources{
			GameTimeHours: StartingClock,
			SleepArmor:    SleepArmorNone,
		},
		Inventory: inventory.Inventory{Equipment: inventory.Equipment{}},
	}
	s.Resources.HitDieType = HitDieForRace(e.race(s), e.Rules)
	if g, ok := e.Catalog.Grade(s.Aperture.GradeID); ok {
		s.Aperture.SpecificMaxEssence = float64(g.MinMaxEssence)
		s.Aperture.Essence = float64(g.MinMaxEssence)
	}
	s.EligibleAttributes = TopAttributesForSkillSelection(FinalAttributes(s.Base, e.race(s)))
	s = e.Recompute(s)
	s.Resources.CurrentHP = s.Derived.MaxHP
	s.Resources.CurrentHitDice = s.Derived.MaxHitDice
	return s
}

// Recompute is the single derivation pass run after every input change. It
// refreshes final attributes, skill eligibility, active feats, modification
// points, maximum hit points and hit dice, and con-save proficiency. Current
// hit points and hit dice are clamped down to the new maxima, never raised.
//
// Postcondition: Recompute(Recompute(s)) equals Recompute(s).
func (e *Engine) Recompute(s State) State {
	out := s.Clone()
	race := e.race(out)
	out.Derived.Final = FinalAttributes(out.Base, race)
	out = e.OnAttributesChanged(out)

	active := ActiveFeats(out.Derived.Final, e.Catalog.Feats())
	ids := make([]string, len(active))
	for i, f := range active {
		ids[i] = f.ID
	}
	out.Derived.ActiveFeatIDs = ids
	out.Derived.ModificationPoints = e.ModificationPoints(out)
	out.Derived.ConSaveProficient = ConSaveProficient(out)

	out.Derived.MaxHP = MaxHP(e.hpInput(out))
	out.Resources.CurrentHP = min(out.Resources.CurrentHP, out.Derived.MaxHP)
	out.Derived.MaxHitDice = out.Level
	out.Resources.CurrentHitDice = min(out.Resources.CurrentHitDice, out.Derived.MaxHitDice)
	return out
}

// ValidateForSave reports every reason the character cannot be saved yet.
//
// Postcondition: returns nil iff the character is complete; otherwise the
// violations are joined and each wraps ErrValidation.
func (e *Engine) ValidateForSave(s State) error {
	var errs []error
	if _, ok := e.Catalog.Race(s.RaceID); !ok {
		errs = append(errs, refuse("Пожалуйста, выберите расу для вашего персонажа."))
	}
	switch {
	case s.BuyPoints > 0:
		errs = append(errs, refuse("У вас осталось %d очков для распределения характеристик.", s.BuyPoints))
	case s.BuyPoints < 0:
		errs = append(errs, refuse("Вы потратили слишком много очков характеристик! Скорректируйте значения."))
	}
	if mp := e.ModificationPoints(s); mp < 0 {
		errs = append(errs, refuse("У вас дефицит в %d Очков Модификации. Скорректируйте особенности, предметы, безумие или изъяны.", -mp))
	}
	if limit := e.Rules.MaxSkillProficiencies; limit > 0 && len(s.SkillIDs) != limit {
		errs = append(errs, refuse("Пожалуйста, выберите ровно %d владений навыками.", limit))
	}
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, refuse("Пожалуйста, введите имя персонажа."))
	}
	return errors.Join(errs...)
}

// SheetInfo builds the read-only snapshot handed to house-rule hooks.
func (e *Engine) SheetInfo(s State) scripting.SheetInfo {
	attrs := make(map[string]int, len(rules.AllAttributes))
	for _, a := range rules.AllAttributes {
		attrs[string(a)] = s.Derived.Final.Get(a)
	}
	return scripting.SheetInfo{
		Name:             s.Name,
		Level:            s.Level,
		RaceID:           s.RaceID,
		Attributes:       attrs,
		HP:               s.Resources.CurrentHP,
		MaxHP:            s.Derived.MaxHP,
		Exhaustion:       s.Resources.ExhaustionLevel,
		Clock:            s.Resources.GameTimeHours,
		ProficiencyBonus: s.ProficiencyBonus(),
	}
}

// EffectiveFeatIDs returns the ids of the feats currently in effect.
func (e *Engine) EffectiveFeatIDs(s State) []string {
	feats := e.EffectiveFeats(s)
	out := make([]string, len(feats))
	for i, f := range feats {
		out[i] = f.ID
	}
	return out
}
