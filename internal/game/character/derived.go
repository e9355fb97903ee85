package character

import (
	"sort"

	"go.uber.org/zap"

	"github.com/cory-johannsen/gusheet/internal/backstory"
	"github.com/cory-johannsen/gusheet/internal/game/derive"
	"github.com/cory-johannsen/gusheet/internal/game/rules"
)

// DerivedStats computes the display statistics of s, followed by any lines
// contributed by house-rule hooks.
func (e *Engine) DerivedStats(s State) []derive.Stat {
	stats := derive.Compute(derive.Input{
		Final:             s.Derived.Final,
		Race:              e.race(s),
		ProficiencyBonus:  s.ProficiencyBonus(),
		TraitIDs:          s.TraitIDs,
		SkillIDs:          s.SkillIDs,
		EffectiveFeatIDs:  e.EffectiveFeatIDs(s),
		ConSaveProficient: s.Derived.ConSaveProficient,
		CurrentHP:         s.Resources.CurrentHP,
		MaxHP:             s.Derived.MaxHP,
		CurrentHitDice:    s.Resources.CurrentHitDice,
		MaxHitDice:        s.Derived.MaxHitDice,
		HitDieType:        s.Resources.HitDieType,
		ExhaustionLevel:   s.Resources.ExhaustionLevel,
		BaseArmorClass:    e.Rules.BaseArmorClass,
		ManualACModifier:  s.Resources.ManualACModifier,
		Inventory:         s.Inventory,
		Items:             e.items(s),
		Skills:            e.Catalog.Skills(),
	})
	if e.Hooks == nil {
		return stats
	}
	extra := e.Hooks.ExtraStats(e.SheetInfo(s))
	e.Logger.Debug("house rule lines", zap.Int("count", len(extra)))
	for _, line := range extra {
		stats = append(stats, derive.Stat{Kind: derive.KindExtra, Value: line})
	}
	return stats
}

var madnessKindNames = map[rules.MadnessKind]string{
	rules.MadnessShortTerm:  "краткосрочное",
	rules.MadnessLongTerm:   "долгосрочное",
	rules.MadnessIndefinite: "бессрочное",
}

// Snapshot builds the read-only view used to prompt for a backstory.
func (e *Engine) Snapshot(s State) backstory.Snapshot {
	snap := backstory.Snapshot{
		Name:             s.Name,
		Level:            s.Level,
		ProficiencyBonus: s.ProficiencyBonus(),
		CurrentHP:        s.Resources.CurrentHP,
		MaxHP:            s.Derived.MaxHP,
		CurrentHitDice:   s.Resources.CurrentHitDice,
		MaxHitDice:       s.Derived.MaxHitDice,
		HitDieType:       s.Resources.HitDieType,
		Exhaustion:       s.Resources.ExhaustionLevel,
		GameTimeHours:    s.Resources.GameTimeHours,
		LastLongRestEnd:  s.Resources.LastLongRestEnd,
	}

	if r := e.race(s); r != nil {
		race := &backstory.Race{
			Name:             r.Name,
			SpecialAbilities: r.SpecialAbilities,
			TextualEffects:   r.TextualEffects,
		}
		ids := make([]string, 0, len(r.SkillModifiers))
		for id := range r.SkillModifiers {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			name := id
			if sk, ok := e.Catalog.Skill(id); ok {
				name = sk.Name
			}
			race.SkillModifiers = append(race.SkillModifiers, backstory.SkillModifier{Skill: name, Modifier: r.SkillModifiers[id]})
		}
		snap.Race = race
	}

	for _, a := range rules.AllAttributes {
		score := s.Derived.Final.Get(a)
		snap.Attributes = append(snap.Attributes, backstory.Attribute{
			Name: rules.AttributeName(a), Score: score, Modifier: rules.Modifier(score),
		})
	}
	for _, id := range s.SkillIDs {
		if sk, ok := e.Catalog.Skill(id); ok {
			snap.Skills = append(snap.Skills, sk.Name)
		}
	}
	for _, f := range e.EffectiveFeats(s) {
		snap.Feats = append(snap.Feats, backstory.Named{Name: f.Name, Flaw: f.IsFlaw})
	}
	for _, id := range s.TraitIDs {
		if t, ok := e.Catalog.Trait(id); ok {
			snap.Traits = append(snap.Traits, backstory.Named{Name: t.Name, Flaw: t.Cost < 0})
		}
	}
	items := e.items(s)
	for _, id := range s.ItemIDs {
		if it, ok := items.Item(id); ok {
			snap.Items = append(snap.Items, it.Name)
		}
	}
	if m, ok := e.Catalog.Madness(s.MadnessID); ok {
		snap.Madness = &backstory.Madness{Name: m.Name, Kind: madnessKindNames[m.Kind], Description: m.Description}
	}
	snap.Aperture = e.apertureSnapshot(s)
	return snap
}

// apertureSnapshot returns nil unless grade, rank and stage all resolve.
func (e *Engine) apertureSnapshot(s State) *backstory.Aperture {
	g, ok := e.Catalog.Grade(s.Aperture.GradeID)
	if !ok {
		return nil
	}
	r, ok := e.Catalog.Rank(s.Aperture.RankID)
	if !ok {
		return nil
	}
	stage, ok := r.Stage(s.Aperture.StageID)
	if !ok {
		return nil
	}
	a := &backstory.Aperture{
		GradeName:          g.Name,
		MinMaxEssence:      g.MinMaxEssence,
		MaxMaxEssence:      g.MaxMaxEssence,
		SpecificMaxEssence: s.Aperture.SpecificMaxEssence,
		RecoveryHours:      g.RecoveryTimeHours,
		RankName:           r.Name,
		RankColorGroup:     r.ColorGroup,
		StageName:          stage.Name,
		EssenceName:        stage.EssenceName,
		ColorName:          stage.ColorName,
		Condensation:       r.Condensation,
		Essence:            s.Aperture.Essence,
	}
	cmp := e.Condensation(s)
	if len(cmp) == 0 {
		return a
	}
	pick := cmp[0]
	for _, c := range cmp {
		if c.Factor > 1 && c.Factor < 100 {
			pick = c
			break
		}
	}
	a.ComparisonFactor = pick.Factor
	a.ComparisonTarget = pick.Target()
	return a
}
