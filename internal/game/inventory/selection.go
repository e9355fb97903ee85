package inventory

// SyncSelected reconciles carried starting items with the selected item ids.
//
// Postcondition: every non-custom instance whose item is not selected is
// removed from both slots and backpack; for every selected id, new instances
// are appended to the backpack until the carried count reaches the number of
// times the id is selected. Custom items are never touched.
func (inv Inventory) SyncSelected(selected []string, newInstance func(itemDefID string) ItemInstance) Inventory {
	want := make(map[string]int, len(selected))
	for _, id := range selected {
		want[id]++
	}

	out := inv.Clone()
	for slot, it := range out.Equipment {
		if !IsCustomID(it.ItemDefID) && want[it.ItemDefID] == 0 {
			delete(out.Equipment, slot)
		}
	}
	kept := out.Backpack[:0]
	for _, it := range out.Backpack {
		if IsCustomID(it.ItemDefID) || want[it.ItemDefID] > 0 {
			kept = append(kept, it)
		}
	}
	out.Backpack = kept

	have := make(map[string]int)
	for _, it := range out.All() {
		have[it.ItemDefID]++
	}
	added := make(map[string]bool, len(want))
	for _, id := range selected {
		if added[id] {
			continue
		}
		added[id] = true
		for n := have[id]; n < want[id]; n++ {
			out.Backpack = append(out.Backpack, newInstance(id))
		}
	}
	return out
}
