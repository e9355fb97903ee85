package character

import (
	"github.com/cory-johannsen/gusheet/internal/game/rules"
)

// SetApertureGrade changes the aperture grade, clamping the specific maximum
// into the grade's range and the current essence down to it.
func (e *Engine) SetApertureGrade(s State, id string) (State, error) {
	g, ok := e.Catalog.Grade(id)
	if !ok {
		return e.refused("SetApertureGrade", s, refuse("неизвестная степень апертуры %q", id))
	}
	out := s.Clone()
	out.Aperture.GradeID = id
	out.Aperture.SpecificMaxEssence = g.ClampMaxEssence(out.Aperture.SpecificMaxEssence)
	out.Aperture.Essence = min(out.Aperture.Essence, out.Aperture.SpecificMaxEssence)
	return out, nil
}

// SetSpecificMaxEssence sets the maximum essence within the grade's range.
func (e *Engine) SetSpecificMaxEssence(s State, v float64) (State, error) {
	g, ok := e.Catalog.Grade(s.Aperture.GradeID)
	if !ok {
		return e.refused("SetSpecificMaxEssence", s, refuse("неизвестная степень апертуры %q", s.Aperture.GradeID))
	}
	out := s.Clone()
	out.Aperture.SpecificMaxEssence = g.ClampMaxEssence(v)
	out.Aperture.Essence = min(out.Aperture.Essence, out.Aperture.SpecificMaxEssence)
	return out, nil
}

// SetEssence sets current essence, clamped to [0, specific maximum].
func (e *Engine) SetEssence(s State, v float64) State {
	out := s.Clone()
	out.Aperture.Essence = max(0, min(v, out.Aperture.SpecificMaxEssence))
	return out
}

// SetRank changes the cultivation rank.
func (e *Engine) SetRank(s State, id string) (State, error) {
	if _, ok := e.Catalog.Rank(id); !ok {
		return e.refused("SetRank", s, refuse("неизвестный ранг %q", id))
	}
	out := s.Clone()
	out.Aperture.RankID = id
	return out, nil
}

// SetEssenceStage changes the essence stage within the rank.
func (e *Engine) SetEssenceStage(s State, id rules.StageID) (State, error) {
	if !rules.ValidStage(id) {
		return e.refused("SetEssenceStage", s, refuse("неизвестная стадия %q", id))
	}
	out := s.Clone()
	out.Aperture.StageID = id
	return out, nil
}

// Condensation compares the character's essence density with other stages.
// It returns nil when the rank is unknown.
func (e *Engine) Condensation(s State) []rules.Comparison {
	r, ok := e.Catalog.Rank(s.Aperture.RankID)
	if !ok {
		return nil
	}
	return rules.CondensationDetails(r, s.Aperture.StageID)
}
