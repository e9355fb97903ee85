// Package backstory generates a character backstory with a language model.
// The generator only reads a Snapshot; writing the result back into the
// character is the caller's job.
package backstory

// Attribute is one final attribute score.
type Attribute struct {
	Name     string
	Score    int
	Modifier int
}

// Named is a named selection that may be a flaw.
type Named struct {
	Name string
	Flaw bool
}

// SkillModifier is a racial modifier to one skill.
type SkillModifier struct {
	Skill    string
	Modifier int
}

// Race describes the character's race.
type Race struct {
	Name             string
	SpecialAbilities []string
	TextualEffects   []string
	SkillModifiers   []SkillModifier
}

// Madness describes the starting madness.
type Madness struct {
	Name        string
	Kind        string
	Description string
}

// Aperture describes the essence aperture. Comparison is empty when no
// condensation comparison is available.
type Aperture struct {
	GradeName          string
	MinMaxEssence      int
	MaxMaxEssence      int
	SpecificMaxEssence float64
	RecoveryHours      int
	RankName           string
	RankColorGroup     string
	StageName          string
	EssenceName        string
	ColorName          string
	Condensation       string
	Essence            float64
	ComparisonFactor   float64
	ComparisonTarget   string
}

// Snapshot is a read-only view of a character for prompting.
type Snapshot struct {
	Name             string
	Level            int
	ProficiencyBonus int
	// Race is nil when no race is selected.
	Race       *Race
	Attributes []Attribute
	Skills     []string
	Feats      []Named
	Traits     []Named
	Items      []string
	// Madness is nil when the character is sane.
	Madness *Madness

	CurrentHP       int
	MaxHP           int
	CurrentHitDice  int
	MaxHitDice      int
	HitDieType      int
	Exhaustion      int
	GameTimeHours   int
	LastLongRestEnd int

	// Aperture is nil when the aperture data is incomplete.
	Aperture *Aperture
}
