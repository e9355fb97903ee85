package character

import (
	"slices"

	"go.uber.org/zap"

	"github.com/cory-johannsen/gusheet/internal/game/inventory"
	"github.com/cory-johannsen/gusheet/internal/game/rules"
)

// eligibleSkillPicks is the number of skill picks gated by the eligible
// attribute set; later picks are free.
const eligibleSkillPicks = 2

// ToggleTrait selects or deselects a trait.
func (e *Engine) ToggleTrait(s State, id string) (State, error) {
	if _, ok := e.Catalog.Trait(id); !ok {
		return e.refused("ToggleTrait", s, refuse("неизвестная особенность %q", id))
	}
	out := s.Clone()
	out.TraitIDs = toggle(out.TraitIDs, id)
	e.Logger.Debug("trait toggled", zap.String("op", "ToggleTrait"), zap.String("trait", id))
	return e.Recompute(out), nil
}

// ToggleItem selects or deselects a starting item and reconciles the
// inventory: a new instance goes to the backpack on selection, and every
// instance of the item leaves the inventory on deselection.
func (e *Engine) ToggleItem(s State, id string) (State, error) {
	if _, ok := e.Catalog.Item(id); !ok || inventory.IsCustomID(id) {
		return e.refused("ToggleItem", s, refuse("неизвестный предмет %q", id))
	}
	out := s.Clone()
	out.ItemIDs = toggle(out.ItemIDs, id)
	out.Inventory = out.Inventory.SyncSelected(out.ItemIDs, inventory.NewInstance)
	e.Logger.Debug("item toggled", zap.String("op", "ToggleItem"), zap.String("item", id))
	return e.Recompute(out), nil
}

// ToggleSkill selects or deselects a skill proficiency. Selection is refused
// once the cap is reached, and the first two picks must use an eligible
// attribute.
func (e *Engine) ToggleSkill(s State, id string) (State, error) {
	const op = "ToggleSkill"
	sk, ok := e.Catalog.Skill(id)
	if !ok {
		return e.refused(op, s, refuse("неизвестный навык %q", id))
	}
	out := s.Clone()
	if s.HasSkill(id) {
		out.SkillIDs = toggle(out.SkillIDs, id)
		return out, nil
	}
	if len(s.SkillIDs) >= e.Rules.MaxSkillProficiencies {
		return e.refused(op, s, refuse("Можно выбрать не более %d навыков.", e.Rules.MaxSkillProficiencies))
	}
	if len(s.SkillIDs) < eligibleSkillPicks && !slices.Contains(s.EligibleAttributes, sk.Attribute) {
		return e.refused(op, s, refuse("Навык %q не связан с вашими лучшими характеристиками.", sk.Name))
	}
	out.SkillIDs = append(out.SkillIDs, id)
	e.Logger.Debug("skill selected", zap.String("op", op), zap.String("skill", id))
	return out, nil
}

// ToggleFlaw selects or deselects a manual flaw. Flaws with requirements
// activate on their own and cannot be toggled.
func (e *Engine) ToggleFlaw(s State, id string) (State, error) {
	f, ok := e.Catalog.Feat(id)
	if !ok || !f.Manual() {
		return e.refused("ToggleFlaw", s, refuse("изъян %q нельзя выбрать вручную", id))
	}
	out := s.Clone()
	out.FlawIDs = toggle(out.FlawIDs, id)
	return e.Recompute(out), nil
}

// SetMadness selects a madness effect; an empty id clears it.
func (e *Engine) SetMadness(s State, id string) (State, error) {
	if _, ok := e.Catalog.Madness(id); id != "" && !ok {
		return e.refused("SetMadness", s, refuse("неизвестное безумие %q", id))
	}
	out := s.Clone()
	out.MadnessID = id
	return e.Recompute(out), nil
}

// HitDieForRace returns the race's hit die, or the default when the race has
// none or is nil.
func HitDieForRace(race *rules.Race, r rules.Rules) int {
	if race != nil && race.HitDie > 0 {
		return race.HitDie
	}
	return r.DefaultHitDie
}

// SetRace changes the race. The hit die follows the race, and a race without
// feet moves the feet slot occupant to the backpack. An empty id clears the
// race.
func (e *Engine) SetRace(s State, id string) (State, error) {
	race, ok := e.Catalog.Race(id)
	if id != "" && !ok {
		return e.refused("SetRace", s, refuse("неизвестная раса %q", id))
	}
	out := s.Clone()
	out.RaceID = id
	out.Resources.HitDieType = HitDieForRace(race, e.Rules)
	if race != nil && race.NoFeet {
		out.Inventory = out.Inventory.VacateSlot(inventory.SlotFeet)
	}
	e.Logger.Debug("race changed", zap.String("op", "SetRace"), zap.String("race", id))
	return e.Recompute(out), nil
}

// SetLevel changes the level, clamped to at least 1. Current hit points and
// hit dice are clamped down, never raised.
func (e *Engine) SetLevel(s State, level int) State {
	out := s.Clone()
	out.Level = max(1, level)
	return e.Recompute(out)
}

// SetHitDieType overrides the hit die.
func (e *Engine) SetHitDieType(s State, faces int) (State, error) {
	if !e.Rules.ValidHitDie(faces) {
		return e.refused("SetHitDieType", s, refuse("недопустимая кость хитов d%d", faces))
	}
	out := s.Clone()
	out.Resources.HitDieType = faces
	return e.Recompute(out), nil
}

// SetManualMaxHPModifier sets the flat bonus added to maximum hit points.
func (e *Engine) SetManualMaxHPModifier(s State, v int) State {
	out := s.Clone()
	out.Resources.ManualMaxHPModifier = v
	return e.Recompute(out)
}

// SetManualACModifier sets the flat bonus added to armor class.
func (e *Engine) SetManualACModifier(s State, v int) State {
	out := s.Clone()
	out.Resources.ManualACModifier = v
	return out
}

// SetSleepArmor records the armor worn during long rests.
func (e *Engine) SetSleepArmor(s State, a SleepArmor) (State, error) {
	if !ValidSleepArmor(a) {
		return e.refused("SetSleepArmor", s, refuse("неизвестный тип доспехов для сна %q", a))
	}
	out := s.Clone()
	out.Resources.SleepArmor = a
	return out, nil
}

// SetName renames the character. Blank names are accepted here and rejected
// by ValidateForSave.
func (e *Engine) SetName(s State, name string) State {
	out := s.Clone()
	out.Name = name
	return out
}

// SetAppearance replaces the descriptive fields.
func (e *Engine) SetAppearance(s State, a Appearance) State {
	out := s.Clone()
	out.Appearance = a
	return out
}

// SetBackstory stores a backstory. The last write wins.
func (e *Engine) SetBackstory(s State, text string) State {
	out := s.Clone()
	out.Backstory = text
	return out
}
