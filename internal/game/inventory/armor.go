package inventory

// ArmorType classifies body armor by how much dexterity it admits.
type ArmorType string

const (
	ArmorLight  ArmorType = "light"
	ArmorMedium ArmorType = "medium"
	ArmorHeavy  ArmorType = "heavy"
)

// ValidArmorType reports whether t is light, medium, or heavy.
func ValidArmorType(t ArmorType) bool {
	switch t {
	case ArmorLight, ArmorMedium, ArmorHeavy:
		return true
	}
	return false
}

// DexBonus returns the dexterity contribution to armor class for t.
//
// Postcondition: light admits dexMod in full, medium caps it at +2, heavy admits none.
func DexBonus(t ArmorType, dexMod int) int {
	switch t {
	case ArmorMedium:
		return min(dexMod, 2)
	case ArmorHeavy:
		return 0
	default:
		return dexMod
	}
}

// LeatherArmorID is the starting leather armor, which grants base AC 11 even
// when its definition carries no explicit armor data.
const LeatherArmorID = "item_leather_armor"

// LeatherArmorBaseAC is the implied base AC of LeatherArmorID.
const LeatherArmorBaseAC = 11

// ArmorClass computes armor class from the item worn in the armor slot.
//
// Precondition: armor may be nil (no armor worn).
// Postcondition: explicit armor data wins; bare leather armor yields 11+dex;
// otherwise baseAC+dex. manual is always added last.
func ArmorClass(armor *ItemDef, baseAC, dexMod, manual int) int {
	var ac int
	switch {
	case armor != nil && armor.BaseArmorClass > 0 && armor.ArmorType != "":
		ac = armor.BaseArmorClass + DexBonus(armor.ArmorType, dexMod)
	case armor != nil && armor.ID == LeatherArmorID:
		ac = LeatherArmorBaseAC + dexMod
	default:
		ac = baseAC + dexMod
	}
	return ac + manual
}
