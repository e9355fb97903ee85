// Package rules holds the static reference data of the character ruleset:
// attributes, races, traits, feats, skills, madness effects, items, aperture
// grades and cultivation ranks, together with the numeric rule constants.
//
// Everything in this package is immutable once loaded.
package rules

// Attribute names one of the six character attributes.
type Attribute string

const (
	Strength     Attribute = "strength"
	Dexterity    Attribute = "dexterity"
	Constitution Attribute = "constitution"
	Intelligence Attribute = "intelligence"
	Wisdom       Attribute = "wisdom"
	Charisma     Attribute = "charisma"
)

// AllAttributes lists the attributes in canonical order.
var AllAttributes = []Attribute{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}

var attributeNames = map[Attribute]string{
	Strength:     "Сила",
	Dexterity:    "Ловкость",
	Constitution: "Телосложение",
	Intelligence: "Интеллект",
	Wisdom:       "Мудрость",
	Charisma:     "Харизма",
}

var saveNames = map[Attribute]string{
	Strength:     "Спасбросок Силы",
	Dexterity:    "Спасбросок Ловкости",
	Constitution: "Спасбросок Телосложения",
	Intelligence: "Спасбросок Интеллекта",
	Wisdom:       "Спасбросок Мудрости",
	Charisma:     "Спасбросок Харизмы",
}

// ValidAttribute reports whether a is one of AllAttributes.
func ValidAttribute(a Attribute) bool {
	_, ok := attributeNames[a]
	return ok
}

// AttributeName returns the display name of a, or a itself when unknown.
func AttributeName(a Attribute) string {
	if n, ok := attributeNames[a]; ok {
		return n
	}
	return string(a)
}

// SaveName returns the display name of the saving throw keyed by a.
func SaveName(a Attribute) string {
	if n, ok := saveNames[a]; ok {
		return n
	}
	return string(a)
}

// Attributes holds one score per attribute.
type Attributes struct {
	Strength     int `json:"strength" yaml:"strength"`
	Dexterity    int `json:"dexterity" yaml:"dexterity"`
	Constitution int `json:"constitution" yaml:"constitution"`
	Intelligence int `json:"intelligence" yaml:"intelligence"`
	Wisdom       int `json:"wisdom" yaml:"wisdom"`
	Charisma     int `json:"charisma" yaml:"charisma"`
}

// Uniform returns Attributes with every score set to v.
func Uniform(v int) Attributes {
	return Attributes{v, v, v, v, v, v}
}

// Get returns the score for attr; unknown attributes score 0.
func (a Attributes) Get(attr Attribute) int {
	switch attr {
	case Strength:
		return a.Strength
	case Dexterity:
		return a.Dexterity
	case Constitution:
		return a.Constitution
	case Intelligence:
		return a.Intelligence
	case Wisdom:
		return a.Wisdom
	case Charisma:
		return a.Charisma
	}
	return 0
}

// With returns a copy of a with attr set to v. Unknown attributes leave a unchanged.
func (a Attributes) With(attr Attribute, v int) Attributes {
	switch attr {
	case Strength:
		a.Strength = v
	case Dexterity:
		a.Dexterity = v
	case Constitution:
		a.Constitution = v
	case Intelligence:
		a.Intelligence = v
	case Wisdom:
		a.Wisdom = v
	case Charisma:
		a.Charisma = v
	}
	return a
}

// Plus returns a with each modifier in mods added to its attribute.
func (a Attributes) Plus(mods map[Attribute]int) Attributes {
	for attr, m := range mods {
		a = a.With(attr, a.Get(attr)+m)
	}
	return a
}

// Modifier returns floor((score-10)/2).
//
// Postcondition: Modifier(3) == -4, Modifier(8) == -1, Modifier(10) == 0, Modifier(15) == 2.
func Modifier(score int) int {
	d := score - 10
	if d < 0 {
		return -((-d + 1) / 2)
	}
	return d / 2
}

// ProficiencyBonus returns the level-derived proficiency bonus.
func ProficiencyBonus(level int) int {
	switch {
	case level >= 17:
		return 6
	case level >= 13:
		return 5
	case level >= 9:
		return 4
	case level >= 5:
		return 3
	default:
		return 2
	}
}
