package inventory

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

var (
	// ErrInstanceNotFound is returned when no slot or backpack entry holds the instance.
	ErrInstanceNotFound = errors.New("item instance not found")
	// ErrUnknownItem is returned when an instance references an undefined item.
	ErrUnknownItem = errors.New("unknown item definition")
	// ErrUnknownSlot is returned for a slot id outside AllSlots.
	ErrUnknownSlot = errors.New("unknown equipment slot")
	// ErrIncompatibleSlot is returned when an item cannot be worn in the slot.
	ErrIncompatibleSlot = errors.New("item does not fit the slot")
	// ErrSlotForbidden is returned when the wearer cannot use the slot at all.
	ErrSlotForbidden = errors.New("slot unavailable to this character")
	// ErrOffHandBlocked is returned when the main hand holds a two-handed weapon.
	ErrOffHandBlocked = errors.New("off hand is blocked by a two-handed weapon")
)

// ItemInstance is one concrete copy of an item definition. Distinct instances
// of the same definition are told apart by InstanceID.
type ItemInstance struct {
	InstanceID string
	ItemDefID  string
}

// NewInstance returns an instance of itemDefID with a fresh UUID.
func NewInstance(itemDefID string) ItemInstance {
	return ItemInstance{InstanceID: uuid.NewString(), ItemDefID: itemDefID}
}

// ItemLookup resolves item definitions by id.
type ItemLookup interface {
	Item(id string) (*ItemDef, bool)
}

// Inventory is the full set of carried items: equipped slots plus the
// unordered backpack.
//
// Invariant: every InstanceID appears in exactly one location.
// Inventory values are treated as immutable; every operation returns a copy.
type Inventory struct {
	Equipment Equipment
	Backpack  []ItemInstance
}

// Clone returns a deep copy of inv.
func (inv Inventory) Clone() Inventory {
	out := Inventory{
		Equipment: make(Equipment, len(inv.Equipment)),
		Backpack:  make([]ItemInstance, len(inv.Backpack)),
	}
	for k, v := range inv.Equipment {
		out.Equipment[k] = v
	}
	copy(out.Backpack, inv.Backpack)
	return out
}

// Equipped returns the instance held in slot.
func (inv Inventory) Equipped(slot SlotID) (ItemInstance, bool) {
	it, ok := inv.Equipment[slot]
	return it, ok
}

// All returns every carried instance: equipped slots in AllSlots order, then
// the backpack in order.
func (inv Inventory) All() []ItemInstance {
	out := make([]ItemInstance, 0, len(inv.Equipment)+len(inv.Backpack))
	for _, s := range AllSlots {
		if it, ok := inv.Equipment[s]; ok {
			out = append(out, it)
		}
	}
	return append(out, inv.Backpack...)
}

// Stow appends inst to the backpack.
//
// Postcondition: the returned inventory holds inst as the last backpack entry.
func (inv Inventory) Stow(inst ItemInstance) Inventory {
	out := inv.Clone()
	out.Backpack = append(out.Backpack, inst)
	return out
}

// Remove takes the instance out of whichever location holds it.
//
// Postcondition: ok is false and the inventory is returned unchanged when the
// instance is not carried.
func (inv Inventory) Remove(instanceID string) (Inventory, ItemInstance, bool) {
	out := inv.Clone()
	for slot, it := range out.Equipment {
		if it.InstanceID == instanceID {
			delete(out.Equipment, slot)
			return out, it, true
		}
	}
	for i, it := range out.Backpack {
		if it.InstanceID == instanceID {
			out.Backpack = append(out.Backpack[:i], out.Backpack[i+1:]...)
			return out, it, true
		}
	}
	return inv, ItemInstance{}, false
}

// MoveToBackpack moves a carried instance into the backpack.
//
// Postcondition: on error, inv is returned unchanged.
func (inv Inventory) MoveToBackpack(instanceID string) (Inventory, error) {
	out, it, ok := inv.Remove(instanceID)
	if !ok {
		return inv, fmt.Errorf("inventory: MoveToBackpack %q: %w", instanceID, ErrInstanceNotFound)
	}
	out.Backpack = append(out.Backpack, it)
	return out, nil
}

// EquipOptions carries wearer restrictions that depend on the character.
type EquipOptions struct {
	// NoFeet forbids the feet slot.
	NoFeet bool
}

// Equip moves a carried instance into slot.
//
// Precondition: items resolves every carried item id.
// Postcondition: on success the instance leaves its source location; any
// previous occupant of slot moves to the backpack; equipping a two-handed
// weapon in the main hand moves the off-hand occupant to the backpack.
// On error, inv is returned unchanged.
func (inv Inventory) Equip(items ItemLookup, instanceID string, slot SlotID, opts EquipOptions) (Inventory, error) {
	if !ValidSlot(slot) {
		return inv, fmt.Errorf("inventory: Equip %q: %w", slot, ErrUnknownSlot)
	}
	out, it, ok := inv.Remove(instanceID)
	if !ok {
		return inv, fmt.Errorf("inventory: Equip %q: %w", instanceID, ErrInstanceNotFound)
	}
	def, ok := items.Item(it.ItemDefID)
	if !ok {
		return inv, fmt.Errorf("inventory: Equip %q: %w", it.ItemDefID, ErrUnknownItem)
	}
	if slot == SlotFeet && opts.NoFeet {
		return inv, fmt.Errorf("inventory: Equip %q: %w", slot, ErrSlotForbidden)
	}
	if slot == SlotOffHand {
		if main, held := out.Equipment[SlotMainHand]; held {
			if mainDef, ok := items.Item(main.ItemDefID); ok && mainDef.IsTwoHanded() {
				return inv, fmt.Errorf("inventory: Equip %q: %w", def.ID, ErrOffHandBlocked)
			}
		}
	}
	if !def.FitsSlot(slot) {
		return inv, fmt.Errorf("inventory: Equip %q into %q: %w", def.ID, slot, ErrIncompatibleSlot)
	}

	if prev, held := out.Equipment[slot]; held {
		out.Backpack = append(out.Backpack, prev)
	}
	out.Equipment[slot] = it

	if slot == SlotMainHand && def.IsTwoHanded() {
		if off, held := out.Equipment[SlotOffHand]; held {
			out.Backpack = append(out.Backpack, off)
			delete(out.Equipment, SlotOffHand)
		}
	}
	return out, nil
}

// BackpackTarget names the backpack as a Move destination.
const BackpackTarget SlotID = "backpack"

// Move relocates a carried instance to target, which is either an equipment
// slot or BackpackTarget.
//
// Postcondition: on error, inv is returned unchanged.
func (inv Inventory) Move(items ItemLookup, instanceID string, target SlotID, opts EquipOptions) (Inventory, error) {
	if target == BackpackTarget {
		return inv.MoveToBackpack(instanceID)
	}
	return inv.Equip(items, instanceID, target, opts)
}

// VacateSlot moves the occupant of slot, if any, to the backpack.
func (inv Inventory) VacateSlot(slot SlotID) Inventory {
	it, held := inv.Equipment[slot]
	if !held {
		return inv
	}
	out := inv.Clone()
	delete(out.Equipment, slot)
	out.Backpack = append(out.Backpack, it)
	return out
}

// TotalWeight sums the weight of every carried instance, ignoring items with
// unknown weight or unknown definitions.
//
// Postcondition: result >= 0 and is rounded to two decimal places.
func (inv Inventory) TotalWeight(items ItemLookup) float64 {
	var total float64
	for _, it := range inv.All() {
		if def, ok := items.Item(it.ItemDefID); ok && def.Weight != nil {
			total += *def.Weight
		}
	}
	return math.Round(total*100) / 100
}
