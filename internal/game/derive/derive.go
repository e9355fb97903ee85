// Package derive flattens a character into the ordered list of display
// statistics: hit points, carrying load, armor class, saves, senses, weapon
// lines and skill bonuses.
package derive

import (
	"strconv"
	"strings"

	"github.com/cory-johannsen/gusheet/internal/game/inventory"
	"github.com/cory-johannsen/gusheet/internal/game/rules"
)

// Kind classifies a derived statistic.
type Kind string

const (
	KindHitPoints         Kind = "hit_points"
	KindHitDice           Kind = "hit_dice"
	KindExhaustion        Kind = "exhaustion"
	KindCarrying          Kind = "carrying"
	KindEncumbrance       Kind = "encumbrance"
	KindProficiency       Kind = "proficiency"
	KindArmorClass        Kind = "armor_class"
	KindSave              Kind = "save"
	KindInitiative        Kind = "initiative"
	KindPassivePerception Kind = "passive_perception"
	KindSpeed             Kind = "speed"
	KindLanguages         Kind = "languages"
	KindRaceEffect        Kind = "race_effect"
	KindAttack            Kind = "attack"
	KindDamage            Kind = "damage"
	KindWeaponProperties  Kind = "weapon_properties"
	KindSkill             Kind = "skill"
	KindExtra             Kind = "extra"
)

// Stat is one derived statistic. A Stat with an empty Label renders as its
// Value alone.
type Stat struct {
	Kind  Kind
	Label string
	Value string
}

// String renders the stat as a display line.
func (s Stat) String() string {
	if s.Label == "" {
		return s.Value
	}
	return s.Label + ": " + s.Value
}

// Lines renders every stat in order.
func Lines(stats []Stat) []string {
	out := make([]string, len(stats))
	for i, s := range stats {
		out[i] = s.String()
	}
	return out
}

// Input bundles everything Compute reads. Race may be nil.
type Input struct {
	Final             rules.Attributes
	Race              *rules.Race
	ProficiencyBonus  int
	TraitIDs          []string
	SkillIDs          []string
	EffectiveFeatIDs  []string
	ConSaveProficient bool

	CurrentHP       int
	MaxHP           int
	CurrentHitDice  int
	MaxHitDice      int
	HitDieType      int
	ExhaustionLevel int

	BaseArmorClass   int
	ManualACModifier int

	Inventory inventory.Inventory
	Items     inventory.ItemLookup
	Skills    []*rules.Skill
}

const (
	baseSpeed          = 30
	encumberedPenalty  = 10
	heavyPenalty       = 20
	mobileBonus        = 10
	alertBonus         = 2
	observantBonus     = 5
	linguistBonus      = 3
	unknownDamageType  = "не указан"
	proficientSuffix   = " (Умение)"
	carryFactor        = 15
	encumberedFactor   = 5
	heavyLoadFactor    = 10
	passivePerceptBase = 10
)

// Load classifies carried weight against strength.
type Load int

const (
	Unencumbered Load = iota
	Encumbered
	HeavilyEncumbered
)

// LoadFor classifies weight carried by a character with the given strength
// score.
//
// Postcondition: Encumbered for weight in (5*str, 10*str]; HeavilyEncumbered
// above 10*str.
func LoadFor(weight float64, strength int) Load {
	switch {
	case weight > float64(strength*heavyLoadFactor):
		return HeavilyEncumbered
	case weight > float64(strength*encumberedFactor):
		return Encumbered
	}
	return Unencumbered
}

// FormatMod renders a modifier with an explicit sign.
func FormatMod(m int) string {
	if m >= 0 {
		return "+" + strconv.Itoa(m)
	}
	return strconv.Itoa(m)
}

// FormatWeight renders a weight in its shortest decimal form.
func FormatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Compute derives the ordered statistics of a character.
//
// Precondition: in.Items resolves catalog and custom items.
// Postcondition: the output order is fixed: resources, load, proficiency,
// armor class, saves, senses and movement, race effects, weapons, skills.
func Compute(in Input) []Stat {
	var out []Stat
	add := func(k Kind, label, value string) {
		out = append(out, Stat{Kind: k, Label: label, Value: value})
	}

	dexMod := rules.Modifier(in.Final.Dexterity)
	strMod := rules.Modifier(in.Final.Strength)
	wisMod := rules.Modifier(in.Final.Wisdom)
	intMod := rules.Modifier(in.Final.Intelligence)
	str := in.Final.Strength
	pb := in.ProficiencyBonus

	add(KindHitPoints, "Хитпоинты", strconv.Itoa(in.CurrentHP)+" / "+strconv.Itoa(in.MaxHP))
	add(KindHitDice, "Кости Хитов", strconv.Itoa(in.CurrentHitDice)+" / "+strconv.Itoa(in.MaxHitDice)+" (d"+strconv.Itoa(in.HitDieType)+")")
	add(KindExhaustion, "Уровень Истощения", strconv.Itoa(in.ExhaustionLevel))

	weight := in.Inventory.TotalWeight(in.Items)
	add(KindCarrying, "Грузоподъемность", FormatWeight(weight)+" / "+strconv.Itoa(str*carryFactor)+" фунтов")
	load := LoadFor(weight, str)
	switch load {
	case HeavilyEncumbered:
		add(KindEncumbrance, "Состояние", "Сильно перегружен (Скорость -20, помеха на Силу/Ловкость/Телосложение)")
	case Encumbered:
		add(KindEncumbrance, "Состояние", "Перегружен (Скорость -10)")
	}

	add(KindProficiency, "Бонус Умения", "+"+strconv.Itoa(pb))

	var armor *inventory.ItemDef
	if it, ok := in.Inventory.Equipped(inventory.SlotArmor); ok {
		armor, _ = in.Items.Item(it.ItemDefID)
	}
	add(KindArmorClass, "Класс Брони (КБ)", strconv.Itoa(inventory.ArmorClass(armor, in.BaseArmorClass, dexMod, in.ManualACModifier)))

	for _, attr := range rules.AllAttributes {
		proficient := attr == rules.Constitution && in.ConSaveProficient
		bonus := rules.Modifier(in.Final.Get(attr))
		value := ""
		if proficient {
			bonus += pb
			value = FormatMod(bonus) + proficientSuffix
		} else {
			value = FormatMod(bonus)
		}
		add(KindSave, rules.SaveName(attr), value)
	}

	initiative := dexMod
	if contains(in.TraitIDs, rules.TraitAlert) {
		initiative += alertBonus
	}
	add(KindInitiative, "Концептуальная Инициатива", FormatMod(initiative))

	passive := passivePerceptBase + wisMod
	if contains(in.SkillIDs, rules.SkillPerception) {
		passive += pb
	}
	if contains(in.TraitIDs, rules.TraitObservant) {
		passive += observantBonus
	}
	add(KindPassivePerception, "Пассивная Внимательность (концепт)", strconv.Itoa(passive))

	speed := baseSpeed
	switch load {
	case HeavilyEncumbered:
		speed -= heavyPenalty
	case Encumbered:
		speed -= encumberedPenalty
	}
	if contains(in.EffectiveFeatIDs, rules.FeatMobile) {
		speed += mobileBonus
	}
	add(KindSpeed, "Скорость (концепт)", strconv.Itoa(speed)+" футов")

	languages := 1 + max(0, intMod)
	if contains(in.TraitIDs, rules.TraitLinguist) {
		languages += linguistBonus
	}
	add(KindLanguages, "Известные языки (концепт)", strconv.Itoa(languages))

	if in.Race != nil {
		for _, effect := range in.Race.TextualEffects {
			add(KindRaceEffect, "", effect)
		}
	}

	for _, slot := range []inventory.SlotID{inventory.SlotMainHand, inventory.SlotOffHand} {
		it, ok := in.Inventory.Equipped(slot)
		if !ok {
			continue
		}
		def, ok := in.Items.Item(it.ItemDefID)
		if !ok || !def.IsWeapon() {
			continue
		}
		out = append(out, weaponStats(def, inventory.SlotDisplayName(slot), strMod, dexMod)...)
	}

	for _, sk := range in.Skills {
		racial := in.Race.SkillModifier(sk.ID)
		prof := 0
		if contains(in.SkillIDs, sk.ID) {
			prof = pb
		}
		if racial == 0 && prof == 0 {
			continue
		}
		total := rules.Modifier(in.Final.Get(sk.Attribute)) + racial + prof
		add(KindSkill, "Навык", sk.Name+": "+FormatMod(total))
	}
	return out
}

// weaponStats renders attack, damage and property lines for a weapon held
// in the hand named hand.
func weaponStats(def *inventory.ItemDef, hand string, strMod, dexMod int) []Stat {
	var out []Stat
	attack := func(mode string, mod int, attr string) {
		out = append(out, Stat{
			Kind:  KindAttack,
			Label: "Атака (" + mode + ", " + hand + ")",
			Value: "1d20 " + FormatMod(mod) + " (" + attr + ")",
		})
	}

	if def.Properties.Has(inventory.PropAmmunition) {
		attack("Дальнобойная", dexMod, "Ловкость")
	} else {
		mod, attr := strMod, "Сила"
		if def.Properties.Has(inventory.PropFinesse) && dexMod >= strMod {
			mod, attr = dexMod, "Ловкость"
		}
		attack("Рукопашная", mod, attr)
		if def.Properties.Has(inventory.PropThrown) {
			attack("Метание", mod, attr)
		}
	}

	damage := def.DamageDice
	if def.DamageType != "" && def.DamageType != unknownDamageType {
		damage += " " + def.DamageType
	}
	out = append(out, Stat{Kind: KindDamage, Label: "Урон (" + def.Name + ", " + hand + ")", Value: damage})

	if len(def.Properties) > 0 {
		names := make([]string, 0, len(def.Properties))
		for _, p := range def.Properties {
			names = append(names, FormatProperty(p))
		}
		out = append(out, Stat{Kind: KindWeaponProperties, Label: "Свойства (" + hand + ")", Value: strings.Join(names, ", ")})
	}
	return out
}

// FormatProperty renders one weapon property with its payload.
func FormatProperty(p inventory.WeaponProperty) string {
	name := inventory.PropertyName(p.Kind())
	switch v := p.(type) {
	case inventory.Range:
		return name + " (" + strconv.Itoa(v.Normal) + "/" + strconv.Itoa(v.Max) + " фт.)"
	case inventory.Versatile:
		return name + " (" + v.Dice + ")"
	default:
		return name
	}
}
