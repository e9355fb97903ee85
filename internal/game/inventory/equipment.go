package inventory

// SlotID identifies an equipment slot.
type SlotID string

const (
	SlotHead       SlotID = "head"
	SlotAmulet     SlotID = "amulet"
	SlotAmulet2    SlotID = "amulet2"
	SlotShoulderL  SlotID = "shoulder_L"
	SlotShoulderR  SlotID = "shoulder_R"
	SlotUnderwear  SlotID = "underwear"
	SlotArmor      SlotID = "armor"
	SlotMainHand   SlotID = "mainHand"
	SlotOffHand    SlotID = "offHand"
	SlotRingL1     SlotID = "ring_L1"
	SlotRingL2     SlotID = "ring_L2"
	SlotRingL3     SlotID = "ring_L3"
	SlotRingR1     SlotID = "ring_R1"
	SlotRingR2     SlotID = "ring_R2"
	SlotRingR3     SlotID = "ring_R3"
	SlotBraceletL  SlotID = "bracelet_L"
	SlotBraceletR  SlotID = "bracelet_R"
	SlotHandsL     SlotID = "hands_L"
	SlotHandsR     SlotID = "hands_R"
	SlotLegs       SlotID = "legs"
	SlotFeet       SlotID = "feet"
	SlotLegWeaponL SlotID = "leg_weapon_L"
	SlotLegWeaponR SlotID = "leg_weapon_R"
	SlotLegPouchL  SlotID = "leg_pouch_L"
	SlotLegPouchR  SlotID = "leg_pouch_R"
)

// LegacyHandsSlot is the single hands slot used by old save files; it maps
// onto SlotHandsL on load.
const LegacyHandsSlot SlotID = "hands"

// AllSlots lists every equipment slot in display order.
var AllSlots = []SlotID{
	SlotHead, SlotAmulet, SlotAmulet2, SlotShoulderL, SlotShoulderR,
	SlotUnderwear, SlotArmor, SlotMainHand, SlotOffHand,
	SlotRingL1, SlotRingL2, SlotRingL3, SlotRingR1, SlotRingR2, SlotRingR3,
	SlotBraceletL, SlotBraceletR, SlotHandsL, SlotHandsR,
	SlotLegs, SlotFeet,
	SlotLegWeaponL, SlotLegWeaponR, SlotLegPouchL, SlotLegPouchR,
}

var validSlots = func() map[SlotID]bool {
	m := make(map[SlotID]bool, len(AllSlots))
	for _, s := range AllSlots {
		m[s] = true
	}
	return m
}()

// ValidSlot reports whether s names an equipment slot.
func ValidSlot(s SlotID) bool {
	return validSlots[s]
}

// slotDisplayNames maps every slot identifier to its human-readable label.
var slotDisplayNames = map[SlotID]string{
	SlotHead:       "Голова",
	SlotAmulet:     "Амулет",
	SlotAmulet2:    "Амулет 2",
	SlotShoulderL:  "Левое плечо",
	SlotShoulderR:  "Правое плечо",
	SlotUnderwear:  "Нижняя одежда",
	SlotArmor:      "Броня",
	SlotMainHand:   "Осн. рука",
	SlotOffHand:    "Втор. рука",
	SlotRingL1:     "Кольцо Л1",
	SlotRingL2:     "Кольцо Л2",
	SlotRingL3:     "Кольцо Л3",
	SlotRingR1:     "Кольцо П1",
	SlotRingR2:     "Кольцо П2",
	SlotRingR3:     "Кольцо П3",
	SlotBraceletL:  "Браслет Л",
	SlotBraceletR:  "Браслет П",
	SlotHandsL:     "Левая кисть",
	SlotHandsR:     "Правая кисть",
	SlotLegs:       "Ноги",
	SlotFeet:       "Ступни",
	SlotLegWeaponL: "Оружие на бедре Л",
	SlotLegWeaponR: "Оружие на бедре П",
	SlotLegPouchL:  "Подсумок Л",
	SlotLegPouchR:  "Подсумок П",
}

// SlotDisplayName returns the human-readable label for a slot identifier.
//
// Postcondition: returns the registered label, or the slot id itself if not found.
func SlotDisplayName(slot SlotID) string {
	if label, ok := slotDisplayNames[slot]; ok {
		return label
	}
	return string(slot)
}

// Equipment maps each occupied slot to the instance it holds. Empty slots
// have no entry.
type Equipment map[SlotID]ItemInstance
